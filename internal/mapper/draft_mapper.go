package mapper

import (
	"encoding/json"
	"time"

	"sms-assistant-be/internal/entity"
	"sms-assistant-be/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type DraftMapper struct{}

func NewDraftMapper() *DraftMapper {
	return &DraftMapper{}
}

func (m *DraftMapper) ToEntity(d *model.Draft) *entity.Draft {
	if d == nil {
		return nil
	}

	var deletedAt *time.Time
	if d.DeletedAt.Valid {
		t := d.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !d.UpdatedAt.IsZero() {
		t := d.UpdatedAt
		updatedAt = &t
	}

	var options []string
	if len(d.Options) > 0 {
		// A corrupt options blob degrades to an option-less draft.
		_ = json.Unmarshal(d.Options, &options)
	}

	return &entity.Draft{
		Id:          d.Id,
		UserPhone:   d.UserPhone,
		WorkspaceId: d.WorkspaceId,
		Kind:        d.Kind,
		Body:        d.Body,
		Question:    d.Question,
		Options:     options,
		Audience:    d.Audience,
		Status:      d.Status,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   updatedAt,
		SentAt:      d.SentAt,
		DeletedAt:   deletedAt,
		IsDeleted:   d.DeletedAt.Valid,
	}
}

func (m *DraftMapper) ToModel(d *entity.Draft) *model.Draft {
	if d == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if d.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *d.DeletedAt, Valid: true}
	} else if d.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if d.UpdatedAt != nil {
		updatedAt = *d.UpdatedAt
	}

	var options datatypes.JSON
	if len(d.Options) > 0 {
		if raw, err := json.Marshal(d.Options); err == nil {
			options = datatypes.JSON(raw)
		}
	}

	return &model.Draft{
		Id:          d.Id,
		UserPhone:   d.UserPhone,
		WorkspaceId: d.WorkspaceId,
		Kind:        d.Kind,
		Body:        d.Body,
		Question:    d.Question,
		Options:     options,
		Audience:    d.Audience,
		Status:      d.Status,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   updatedAt,
		SentAt:      d.SentAt,
		DeletedAt:   deletedAt,
	}
}

func (m *DraftMapper) ToEntities(drafts []*model.Draft) []*entity.Draft {
	entities := make([]*entity.Draft, len(drafts))
	for i, d := range drafts {
		entities[i] = m.ToEntity(d)
	}
	return entities
}
