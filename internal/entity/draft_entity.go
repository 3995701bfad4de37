package entity

import (
	"time"

	"github.com/google/uuid"
)

type Draft struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserPhone   string
	WorkspaceId uuid.UUID `gorm:"type:uuid;index"`
	Kind        string
	Body        string
	Question    string
	Options     []string
	Audience    string
	Status      string
	CreatedAt   time.Time
	UpdatedAt   *time.Time
	SentAt      *time.Time
	DeletedAt   *time.Time
	IsDeleted   bool
}
