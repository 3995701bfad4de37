package entity

import (
	"time"

	"github.com/google/uuid"
)

type ConversationLog struct {
	Id           uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserPhone    string
	WorkspaceId  uuid.UUID `gorm:"type:uuid;index"`
	UserMessage  string
	BotResponse  string
	Mode         string
	ResponseMode string
	CreatedAt    time.Time
}
