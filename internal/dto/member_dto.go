package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateMemberRequest struct {
	Phone string `json:"phone" validate:"required"`
	Name  string `json:"name" validate:"required"`
	Role  string `json:"role" validate:"omitempty,oneof=admin parent player volunteer"`
}

type CreateMemberResponse struct {
	Id uuid.UUID `json:"id"`
}

type ShowMemberResponse struct {
	Id        uuid.UUID `json:"id"`
	Phone     string    `json:"phone"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type ShowConversationResponse struct {
	Id           uuid.UUID `json:"id"`
	Phone        string    `json:"phone"`
	UserMessage  string    `json:"user_message"`
	BotResponse  string    `json:"bot_response"`
	Mode         string    `json:"mode"`
	ResponseMode string    `json:"response_mode"`
	CreatedAt    time.Time `json:"created_at"`
}
