package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateResourceRequest struct {
	Title     string `json:"title" validate:"required"`
	Content   string `json:"content" validate:"required"`
	Source    string `json:"source" validate:"omitempty,oneof=official admin member"`
	IsEnclave bool   `json:"is_enclave"`
}

type CreateResourceResponse struct {
	Id uuid.UUID `json:"id"`
}

type UpdateResourceRequest struct {
	Id        uuid.UUID
	Title     string `json:"title" validate:"required"`
	Content   string `json:"content" validate:"required"`
	Source    string `json:"source" validate:"omitempty,oneof=official admin member"`
	IsEnclave bool   `json:"is_enclave"`
}

type UpdateResourceResponse struct {
	Id uuid.UUID `json:"id"`
}

type ShowResourceResponse struct {
	Id        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	Source    string     `json:"source"`
	Authority string     `json:"authority"`
	IsEnclave bool       `json:"is_enclave"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

type SearchResourceResponse struct {
	Id             uuid.UUID `json:"id"`
	Title          string    `json:"title"`
	Snippet        string    `json:"snippet"`
	Source         string    `json:"source"`
	RelevanceScore float64   `json:"relevance_score"`
}
