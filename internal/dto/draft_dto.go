package dto

import (
	"time"

	"github.com/google/uuid"
)

// ShowDraftResponse is the admin read view of a draft or poll.
type ShowDraftResponse struct {
	Id        uuid.UUID  `json:"id"`
	UserPhone string     `json:"user_phone"`
	Kind      string     `json:"kind"`
	Body      string     `json:"body,omitempty"`
	Question  string     `json:"question,omitempty"`
	Options   []string   `json:"options,omitempty"`
	Audience  string     `json:"audience"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	SentAt    *time.Time `json:"sent_at,omitempty"`
}

// PollResultResponse aggregates tallied answers for one sent poll.
type PollResultResponse struct {
	ActionId  uuid.UUID      `json:"action_id"`
	Question  string         `json:"question"`
	Tally     map[string]int `json:"tally"`
	Responses int            `json:"responses"`
}
