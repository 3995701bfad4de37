package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"sms-assistant-be/internal/dto"
	"sms-assistant-be/internal/entity"
	"sms-assistant-be/internal/pkg/logger"
	"sms-assistant-be/internal/repository/specification"
	"sms-assistant-be/internal/repository/unitofwork"
	"sms-assistant-be/pkg/search"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IResourceService interface {
	Create(ctx context.Context, req *dto.CreateResourceRequest) (*dto.CreateResourceResponse, error)
	Show(ctx context.Context, id uuid.UUID) (*dto.ShowResourceResponse, error)
	Update(ctx context.Context, req *dto.UpdateResourceRequest) (*dto.UpdateResourceResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*dto.ShowResourceResponse, error)
	Search(ctx context.Context, query string) ([]*dto.SearchResourceResponse, error)
}

// sourceAuthority maps a resource source to its ranking boost.
var sourceAuthority = map[string]float64{
	"official": 0.2,
	"admin":    0.1,
}

type resourceService struct {
	uowFactory  unitofwork.RepositoryFactory
	pubSub      *gochannel.GoChannel
	embedTopic  string
	searcher    *search.Searcher
	workspaceId uuid.UUID
	logger      logger.ILogger
}

func NewResourceService(
	uowFactory unitofwork.RepositoryFactory,
	pubSub *gochannel.GoChannel,
	embedTopic string,
	searcher *search.Searcher,
	workspaceId uuid.UUID,
	logger logger.ILogger,
) IResourceService {
	return &resourceService{
		uowFactory:  uowFactory,
		pubSub:      pubSub,
		embedTopic:  embedTopic,
		searcher:    searcher,
		workspaceId: workspaceId,
		logger:      logger,
	}
}

func (s *resourceService) Create(ctx context.Context, req *dto.CreateResourceRequest) (*dto.CreateResourceResponse, error) {
	source := req.Source
	if source == "" {
		source = "admin"
	}

	resource := &entity.Resource{
		Id:          uuid.New(),
		Title:       req.Title,
		Content:     req.Content,
		Source:      source,
		Authority:   sourceAuthority[source],
		IsEnclave:   req.IsEnclave,
		WorkspaceId: s.workspaceId,
		CreatedAt:   time.Now(),
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ResourceRepository().Create(ctx, resource); err != nil {
		return nil, err
	}

	s.publishEmbed(resource.Id)

	return &dto.CreateResourceResponse{Id: resource.Id}, nil
}

func (s *resourceService) Show(ctx context.Context, id uuid.UUID) (*dto.ShowResourceResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	resource, err := uow.ResourceRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.ByWorkspaceID{WorkspaceID: s.workspaceId},
	)
	if err != nil {
		return nil, err
	}
	if resource == nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "resource not found")
	}
	return toShowResourceResponse(resource), nil
}

func (s *resourceService) Update(ctx context.Context, req *dto.UpdateResourceRequest) (*dto.UpdateResourceResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	resource, err := uow.ResourceRepository().FindOne(ctx,
		specification.ByID{ID: req.Id},
		specification.ByWorkspaceID{WorkspaceID: s.workspaceId},
	)
	if err != nil {
		return nil, err
	}
	if resource == nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "resource not found")
	}

	source := req.Source
	if source == "" {
		source = resource.Source
	}

	now := time.Now()
	resource.Title = req.Title
	resource.Content = req.Content
	resource.Source = source
	resource.Authority = sourceAuthority[source]
	resource.IsEnclave = req.IsEnclave
	resource.UpdatedAt = &now

	if err := uow.ResourceRepository().Update(ctx, resource); err != nil {
		return nil, err
	}

	s.publishEmbed(resource.Id)

	return &dto.UpdateResourceResponse{Id: resource.Id}, nil
}

func (s *resourceService) Delete(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	resource, err := uow.ResourceRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.ByWorkspaceID{WorkspaceID: s.workspaceId},
	)
	if err != nil {
		return err
	}
	if resource == nil {
		return fiber.NewError(fiber.StatusNotFound, "resource not found")
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.ResourceEmbeddingRepository().DeleteByResourceId(ctx, id); err != nil {
		return err
	}
	if err := uow.ResourceRepository().Delete(ctx, id); err != nil {
		return err
	}
	return uow.Commit()
}

func (s *resourceService) List(ctx context.Context, limit, offset int) ([]*dto.ShowResourceResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	resources, err := uow.ResourceRepository().FindAll(ctx,
		specification.ByWorkspaceID{WorkspaceID: s.workspaceId},
		specification.NotDeleted{},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: offset},
	)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ShowResourceResponse, 0, len(resources))
	for _, r := range resources {
		out = append(out, toShowResourceResponse(r))
	}
	return out, nil
}

func (s *resourceService) Search(ctx context.Context, query string) ([]*dto.SearchResourceResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	candidates, err := s.searcher.Execute(ctx, uow, s.workspaceId, query, time.Now(), search.DefaultConfig())
	if err != nil {
		return nil, err
	}

	out := make([]*dto.SearchResourceResponse, 0, len(candidates))
	for _, c := range candidates {
		id, err := uuid.Parse(c.ID)
		if err != nil {
			continue
		}
		out = append(out, &dto.SearchResourceResponse{
			Id:             id,
			Title:          c.Title,
			Snippet:        snippet(c.Text, 160),
			Source:         c.Source,
			RelevanceScore: c.Score,
		})
	}
	return out, nil
}

// publishEmbed schedules asynchronous re-embedding. The HTTP path never
// waits on the embedding provider.
func (s *resourceService) publishEmbed(resourceId uuid.UUID) {
	payload, err := json.Marshal(dto.PublishEmbedResourceMessage{ResourceId: resourceId})
	if err != nil {
		s.logger.Error("RESOURCE", "failed to marshal embed message", map[string]interface{}{"error": err.Error()})
		return
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := s.pubSub.Publish(s.embedTopic, msg); err != nil {
		s.logger.Error("RESOURCE", "failed to publish embed message", map[string]interface{}{"resource_id": resourceId.String(), "error": err.Error()})
	}
}

func toShowResourceResponse(r *entity.Resource) *dto.ShowResourceResponse {
	authority := r.Source
	if authority == "" {
		authority = "member"
	}
	return &dto.ShowResourceResponse{
		Id:        r.Id,
		Title:     r.Title,
		Content:   r.Content,
		Source:    r.Source,
		Authority: authority,
		IsEnclave: r.IsEnclave,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func snippet(text string, max int) string {
	if len(text) <= max {
		return text
	}
	return fmt.Sprintf("%s...", text[:max])
}
