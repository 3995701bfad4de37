package model

import (
	"time"

	"github.com/google/uuid"
)

type ConversationLog struct {
	Id           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserPhone    string    `gorm:"type:varchar(20);not null;index:idx_conversation_phone_created"`
	WorkspaceId  uuid.UUID `gorm:"type:uuid;not null;index"`
	UserMessage  string    `gorm:"type:text;not null"`
	BotResponse  string    `gorm:"type:text;not null"`
	Mode         string    `gorm:"type:varchar(30);not null"`
	ResponseMode string    `gorm:"type:varchar(30);not null"`
	CreatedAt    time.Time `gorm:"autoCreateTime;index:idx_conversation_phone_created"`
}

func (ConversationLog) TableName() string {
	return "conversation_logs"
}
