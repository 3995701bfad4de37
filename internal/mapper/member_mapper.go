package mapper

import (
	"time"

	"sms-assistant-be/internal/entity"
	"sms-assistant-be/internal/model"

	"gorm.io/gorm"
)

type MemberMapper struct{}

func NewMemberMapper() *MemberMapper {
	return &MemberMapper{}
}

func (m *MemberMapper) ToEntity(mm *model.Member) *entity.Member {
	if mm == nil {
		return nil
	}

	var deletedAt *time.Time
	if mm.DeletedAt.Valid {
		t := mm.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !mm.UpdatedAt.IsZero() {
		t := mm.UpdatedAt
		updatedAt = &t
	}

	return &entity.Member{
		Id:          mm.Id,
		Phone:       mm.Phone,
		Name:        mm.Name,
		Role:        mm.Role,
		WorkspaceId: mm.WorkspaceId,
		CreatedAt:   mm.CreatedAt,
		UpdatedAt:   updatedAt,
		DeletedAt:   deletedAt,
		IsDeleted:   mm.DeletedAt.Valid,
	}
}

func (m *MemberMapper) ToModel(mm *entity.Member) *model.Member {
	if mm == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if mm.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *mm.DeletedAt, Valid: true}
	} else if mm.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if mm.UpdatedAt != nil {
		updatedAt = *mm.UpdatedAt
	}

	return &model.Member{
		Id:          mm.Id,
		Phone:       mm.Phone,
		Name:        mm.Name,
		Role:        mm.Role,
		WorkspaceId: mm.WorkspaceId,
		CreatedAt:   mm.CreatedAt,
		UpdatedAt:   updatedAt,
		DeletedAt:   deletedAt,
	}
}

func (m *MemberMapper) ToEntities(members []*model.Member) []*entity.Member {
	entities := make([]*entity.Member, len(members))
	for i, mm := range members {
		entities[i] = m.ToEntity(mm)
	}
	return entities
}

type PollResponseMapper struct{}

func NewPollResponseMapper() *PollResponseMapper {
	return &PollResponseMapper{}
}

func (m *PollResponseMapper) ToEntity(p *model.PollResponse) *entity.PollResponse {
	if p == nil {
		return nil
	}
	return &entity.PollResponse{
		Id:          p.Id,
		ActionId:    p.ActionId,
		MemberPhone: p.MemberPhone,
		Answer:      p.Answer,
		CreatedAt:   p.CreatedAt,
	}
}

func (m *PollResponseMapper) ToModel(p *entity.PollResponse) *model.PollResponse {
	if p == nil {
		return nil
	}
	return &model.PollResponse{
		Id:          p.Id,
		ActionId:    p.ActionId,
		MemberPhone: p.MemberPhone,
		Answer:      p.Answer,
		CreatedAt:   p.CreatedAt,
	}
}

func (m *PollResponseMapper) ToEntities(responses []*model.PollResponse) []*entity.PollResponse {
	entities := make([]*entity.PollResponse, len(responses))
	for i, p := range responses {
		entities[i] = m.ToEntity(p)
	}
	return entities
}
