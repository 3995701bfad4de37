package mapper

import (
	"encoding/json"

	"sms-assistant-be/internal/entity"
	"sms-assistant-be/internal/model"

	"gorm.io/datatypes"
)

type ActionMapper struct{}

func NewActionMapper() *ActionMapper {
	return &ActionMapper{}
}

func (m *ActionMapper) ToEntity(a *model.ActionRecord) *entity.ActionRecord {
	if a == nil {
		return nil
	}

	var payload map[string]interface{}
	if len(a.Payload) > 0 {
		_ = json.Unmarshal(a.Payload, &payload)
	}

	return &entity.ActionRecord{
		Id:          a.Id,
		UserPhone:   a.UserPhone,
		WorkspaceId: a.WorkspaceId,
		Kind:        a.Kind,
		Payload:     payload,
		CreatedAt:   a.CreatedAt,
	}
}

func (m *ActionMapper) ToModel(a *entity.ActionRecord) *model.ActionRecord {
	if a == nil {
		return nil
	}

	var payload datatypes.JSON
	if a.Payload != nil {
		if raw, err := json.Marshal(a.Payload); err == nil {
			payload = datatypes.JSON(raw)
		}
	}

	return &model.ActionRecord{
		Id:          a.Id,
		UserPhone:   a.UserPhone,
		WorkspaceId: a.WorkspaceId,
		Kind:        a.Kind,
		Payload:     payload,
		CreatedAt:   a.CreatedAt,
	}
}

func (m *ActionMapper) ToEntities(actions []*model.ActionRecord) []*entity.ActionRecord {
	entities := make([]*entity.ActionRecord, len(actions))
	for i, a := range actions {
		entities[i] = m.ToEntity(a)
	}
	return entities
}
