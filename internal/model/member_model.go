package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Member struct {
	Id          uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Phone       string         `gorm:"type:varchar(20);not null;uniqueIndex:idx_members_workspace_phone"`
	Name        string         `gorm:"type:varchar(100)"`
	Role        string         `gorm:"type:varchar(30);not null;default:'member'"`
	WorkspaceId uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_members_workspace_phone"`
	CreatedAt   time.Time      `gorm:"autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime"`
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

func (Member) TableName() string {
	return "members"
}

type PollResponse struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ActionId    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_poll_responses_action_phone"`
	MemberPhone string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_poll_responses_action_phone"`
	Answer      string    `gorm:"type:varchar(100);not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

func (PollResponse) TableName() string {
	return "poll_responses"
}
