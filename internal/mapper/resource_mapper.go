package mapper

import (
	"time"

	"sms-assistant-be/internal/entity"
	"sms-assistant-be/internal/model"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type ResourceMapper struct{}

func NewResourceMapper() *ResourceMapper {
	return &ResourceMapper{}
}

func (m *ResourceMapper) ToEntity(r *model.Resource) *entity.Resource {
	if r == nil {
		return nil
	}

	var deletedAt *time.Time
	if r.DeletedAt.Valid {
		t := r.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !r.UpdatedAt.IsZero() {
		t := r.UpdatedAt
		updatedAt = &t
	}

	return &entity.Resource{
		Id:          r.Id,
		Title:       r.Title,
		Content:     r.Content,
		Source:      r.Source,
		Authority:   r.Authority,
		IsEnclave:   r.IsEnclave,
		WorkspaceId: r.WorkspaceId,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   updatedAt,
		DeletedAt:   deletedAt,
		IsDeleted:   r.DeletedAt.Valid,
	}
}

func (m *ResourceMapper) ToModel(r *entity.Resource) *model.Resource {
	if r == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if r.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *r.DeletedAt, Valid: true}
	} else if r.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if r.UpdatedAt != nil {
		updatedAt = *r.UpdatedAt
	}

	return &model.Resource{
		Id:          r.Id,
		Title:       r.Title,
		Content:     r.Content,
		Source:      r.Source,
		Authority:   r.Authority,
		IsEnclave:   r.IsEnclave,
		WorkspaceId: r.WorkspaceId,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   updatedAt,
		DeletedAt:   deletedAt,
	}
}

func (m *ResourceMapper) ToEntities(resources []*model.Resource) []*entity.Resource {
	entities := make([]*entity.Resource, len(resources))
	for i, r := range resources {
		entities[i] = m.ToEntity(r)
	}
	return entities
}

type ResourceEmbeddingMapper struct{}

func NewResourceEmbeddingMapper() *ResourceEmbeddingMapper {
	return &ResourceEmbeddingMapper{}
}

func (m *ResourceEmbeddingMapper) ToEntity(e *model.ResourceEmbedding) *entity.ResourceEmbedding {
	if e == nil {
		return nil
	}
	return &entity.ResourceEmbedding{
		Id:         e.Id,
		Document:   e.Document,
		Embedding:  e.EmbeddingValue.Slice(),
		ResourceId: e.ResourceId,
		ChunkIndex: e.ChunkIndex,
		CreatedAt:  e.CreatedAt,
	}
}

func (m *ResourceEmbeddingMapper) ToModel(e *entity.ResourceEmbedding) *model.ResourceEmbedding {
	if e == nil {
		return nil
	}
	return &model.ResourceEmbedding{
		Id:             e.Id,
		Document:       e.Document,
		EmbeddingValue: pgvector.NewVector(e.Embedding),
		ResourceId:     e.ResourceId,
		ChunkIndex:     e.ChunkIndex,
		CreatedAt:      e.CreatedAt,
	}
}
