package entity

import (
	"time"

	"github.com/google/uuid"
)

type Resource struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Title       string
	Content     string
	Source      string
	Authority   float64
	IsEnclave   bool
	WorkspaceId uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt   time.Time
	UpdatedAt   *time.Time
	DeletedAt   *time.Time
	IsDeleted   bool
}

type ResourceEmbedding struct {
	Id         uuid.UUID `gorm:"type:uuid;primaryKey"`
	Document   string
	Embedding  []float32
	ResourceId uuid.UUID `gorm:"type:uuid;index"`
	ChunkIndex int
	CreatedAt  time.Time
}
