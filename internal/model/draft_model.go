package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Draft struct {
	Id          uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserPhone   string         `gorm:"type:varchar(20);not null;index:idx_drafts_phone_kind"`
	WorkspaceId uuid.UUID      `gorm:"type:uuid;not null;index"`
	Kind        string         `gorm:"type:varchar(20);not null;index:idx_drafts_phone_kind"`
	Body        string         `gorm:"type:text"`
	Question    string         `gorm:"type:text"`
	Options     datatypes.JSON `gorm:"type:jsonb"`
	Audience    string         `gorm:"type:varchar(100);not null;default:'everyone'"`
	Status      string         `gorm:"type:varchar(20);not null;default:'draft';index"`
	CreatedAt   time.Time      `gorm:"autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime"`
	SentAt      *time.Time
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

func (Draft) TableName() string {
	return "drafts"
}
