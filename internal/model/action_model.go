package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ActionRecord struct {
	Id          uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserPhone   string         `gorm:"type:varchar(20);not null;index"`
	WorkspaceId uuid.UUID      `gorm:"type:uuid;not null;index"`
	Kind        string         `gorm:"type:varchar(40);not null"`
	Payload     datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt   time.Time      `gorm:"autoCreateTime;index"`
}

func (ActionRecord) TableName() string {
	return "action_records"
}
