package mapper

import (
	"sms-assistant-be/internal/entity"
	"sms-assistant-be/internal/model"
)

type ConversationMapper struct{}

func NewConversationMapper() *ConversationMapper {
	return &ConversationMapper{}
}

func (m *ConversationMapper) ToEntity(c *model.ConversationLog) *entity.ConversationLog {
	if c == nil {
		return nil
	}
	return &entity.ConversationLog{
		Id:           c.Id,
		UserPhone:    c.UserPhone,
		WorkspaceId:  c.WorkspaceId,
		UserMessage:  c.UserMessage,
		BotResponse:  c.BotResponse,
		Mode:         c.Mode,
		ResponseMode: c.ResponseMode,
		CreatedAt:    c.CreatedAt,
	}
}

func (m *ConversationMapper) ToModel(c *entity.ConversationLog) *model.ConversationLog {
	if c == nil {
		return nil
	}
	return &model.ConversationLog{
		Id:           c.Id,
		UserPhone:    c.UserPhone,
		WorkspaceId:  c.WorkspaceId,
		UserMessage:  c.UserMessage,
		BotResponse:  c.BotResponse,
		Mode:         c.Mode,
		ResponseMode: c.ResponseMode,
		CreatedAt:    c.CreatedAt,
	}
}

func (m *ConversationMapper) ToEntities(logs []*model.ConversationLog) []*entity.ConversationLog {
	entities := make([]*entity.ConversationLog, len(logs))
	for i, c := range logs {
		entities[i] = m.ToEntity(c)
	}
	return entities
}
