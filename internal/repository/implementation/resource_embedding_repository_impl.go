package implementation

import (
	"context"

	"sms-assistant-be/internal/entity"
	"sms-assistant-be/internal/mapper"
	"sms-assistant-be/internal/model"
	"sms-assistant-be/internal/repository/contract"
	"sms-assistant-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type ResourceEmbeddingRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ResourceEmbeddingMapper
}

func NewResourceEmbeddingRepository(db *gorm.DB) contract.ResourceEmbeddingRepository {
	return &ResourceEmbeddingRepositoryImpl{
		db:     db,
		mapper: mapper.NewResourceEmbeddingMapper(),
	}
}

func (r *ResourceEmbeddingRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ResourceEmbeddingRepositoryImpl) Create(ctx context.Context, embedding *entity.ResourceEmbedding) error {
	m := r.mapper.ToModel(embedding)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*embedding = *r.mapper.ToEntity(m)
	return nil
}

func (r *ResourceEmbeddingRepositoryImpl) CreateBulk(ctx context.Context, embeddings []*entity.ResourceEmbedding) error {
	if len(embeddings) == 0 {
		return nil
	}
	models := make([]*model.ResourceEmbedding, len(embeddings))
	for i, e := range embeddings {
		models[i] = r.mapper.ToModel(e)
	}
	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}
	for i, m := range models {
		*embeddings[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *ResourceEmbeddingRepositoryImpl) DeleteByResourceId(ctx context.Context, resourceId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("resource_id = ?", resourceId).Delete(&model.ResourceEmbedding{}).Error
}

func (r *ResourceEmbeddingRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ResourceEmbedding, error) {
	var models []*model.ResourceEmbedding
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.ResourceEmbedding, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

// SearchSimilarWithScore runs a cosine-similarity scan scoped to one
// workspace. Cosine distance in pgvector is 1 - similarity.
func (r *ResourceEmbeddingRepositoryImpl) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, workspaceId uuid.UUID, threshold float64) ([]*contract.ScoredResourceEmbedding, error) {
	if limit <= 0 {
		limit = 5
	}

	type result struct {
		model.ResourceEmbedding
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	err := r.db.WithContext(ctx).
		Table("resource_embeddings").
		Select("resource_embeddings.*, 1 - (embedding_value <=> ?) as similarity", queryVector).
		Joins("JOIN resources ON resources.id = resource_embeddings.resource_id").
		Where("resources.workspace_id = ?", workspaceId).
		Where("resources.is_enclave = ?", false).
		Where("resources.deleted_at IS NULL").
		Where("1 - (embedding_value <=> ?) >= ?", queryVector, threshold).
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredResourceEmbedding, len(results))
	for i, res := range results {
		scored[i] = &contract.ScoredResourceEmbedding{
			Embedding:  r.mapper.ToEntity(&res.ResourceEmbedding),
			Similarity: res.Similarity,
		}
	}
	return scored, nil
}
