package entity

import (
	"time"

	"github.com/google/uuid"
)

type Member struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Phone       string
	Name        string
	Role        string
	WorkspaceId uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt   time.Time
	UpdatedAt   *time.Time
	DeletedAt   *time.Time
	IsDeleted   bool
}

type PollResponse struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey"`
	ActionId    uuid.UUID `gorm:"type:uuid;index"`
	MemberPhone string
	Answer      string
	CreatedAt   time.Time
}
