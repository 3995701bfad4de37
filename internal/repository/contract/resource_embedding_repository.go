package contract

import (
	"context"

	"sms-assistant-be/internal/entity"
	"sms-assistant-be/internal/repository/specification"

	"github.com/google/uuid"
)

// ScoredResourceEmbedding pairs an embedding chunk with its cosine
// similarity to the query vector (1.0 = identical).
type ScoredResourceEmbedding struct {
	Embedding  *entity.ResourceEmbedding
	Similarity float64
}

type ResourceEmbeddingRepository interface {
	Create(ctx context.Context, embedding *entity.ResourceEmbedding) error
	CreateBulk(ctx context.Context, embeddings []*entity.ResourceEmbedding) error
	DeleteByResourceId(ctx context.Context, resourceId uuid.UUID) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ResourceEmbedding, error)
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, workspaceId uuid.UUID, threshold float64) ([]*ScoredResourceEmbedding, error)
}
