package entity

import (
	"time"

	"github.com/google/uuid"
)

type ActionRecord struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserPhone   string
	WorkspaceId uuid.UUID `gorm:"type:uuid;index"`
	Kind        string
	Payload     map[string]interface{}
	CreatedAt   time.Time
}
