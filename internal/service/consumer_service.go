package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"sms-assistant-be/internal/dto"
	"sms-assistant-be/internal/entity"
	"sms-assistant-be/internal/pkg/mailer"
	"sms-assistant-be/internal/repository/specification"
	"sms-assistant-be/internal/repository/unitofwork"
	"sms-assistant-be/pkg/embedding"
	"sms-assistant-be/pkg/utils"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the embed topic and (re)builds the vector index
// for one resource per message.
type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
	emailService      mailer.IEmailService
	adminEmail        string
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
	emailService mailer.IEmailService,
	adminEmail string,
) IConsumerService {
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		emailService:      emailService,
		adminEmail:        adminEmail,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

const (
	// chunkSize keeps each chunk well under the embedding model's context
	// window. chunkOverlap preserves continuity across boundaries.
	chunkSize    = 1500
	chunkOverlap = 200
)

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishEmbedResourceMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal embed message: %v", err)
		msg.Ack() // malformed messages would retry forever
		return
	}

	log.Printf("[INFO] Embedding resource %s", payload.ResourceId)

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	resource, err := uow.ResourceRepository().FindOne(ctx, specification.ByID{ID: payload.ResourceId})
	if err != nil {
		log.Printf("[ERROR] Failed to load resource %s: %v", payload.ResourceId, err)
		msg.Nack()
		return
	}
	if resource == nil {
		// Deleted between publish and consume.
		log.Printf("[WARN] Resource not found, skipping: %s", payload.ResourceId)
		msg.Ack()
		return
	}

	content := fmt.Sprintf("Title: %s\nSource: %s\n\n%s\n\nPublished: %s",
		resource.Title,
		resource.Source,
		resource.Content,
		resource.CreatedAt.Format(time.RFC3339),
	)

	chunks := utils.SplitText(content, chunkSize, chunkOverlap)
	log.Printf("[INFO] Resource %s split into %d chunks", payload.ResourceId, len(chunks))

	var embeddings []*entity.ResourceEmbedding
	for i, chunk := range chunks {
		res, err := cs.embeddingProvider.Generate(chunk, "RETRIEVAL_DOCUMENT")
		if err != nil {
			log.Printf("[ERROR] Embedding chunk %d of resource %s failed: %v", i, payload.ResourceId, err)
			cs.notifyIngestFailure(resource.Title, err)
			msg.Nack()
			return
		}
		embeddings = append(embeddings, &entity.ResourceEmbedding{
			Id:         uuid.New(),
			Document:   chunk,
			Embedding:  res.Embedding.Values,
			ResourceId: resource.Id,
			ChunkIndex: i,
			CreatedAt:  time.Now(),
		})
	}

	if err := uow.Begin(ctx); err != nil {
		log.Printf("[ERROR] Failed to begin transaction: %v", err)
		msg.Nack()
		return
	}
	defer uow.Rollback()

	if err := uow.ResourceEmbeddingRepository().DeleteByResourceId(ctx, resource.Id); err != nil {
		log.Printf("[ERROR] Failed to delete stale embeddings: %v", err)
		msg.Nack()
		return
	}
	if len(embeddings) > 0 {
		if err := uow.ResourceEmbeddingRepository().CreateBulk(ctx, embeddings); err != nil {
			log.Printf("[ERROR] Failed to store embeddings: %v", err)
			msg.Nack()
			return
		}
	}
	if err := uow.Commit(); err != nil {
		log.Printf("[ERROR] Failed to commit embeddings: %v", err)
		msg.Nack()
		return
	}

	log.Printf("[SUCCESS] Resource %s indexed with %d chunks", payload.ResourceId, len(embeddings))
	msg.Ack()
}

func (cs *consumerService) notifyIngestFailure(title string, cause error) {
	if cs.adminEmail == "" {
		return
	}
	go func() {
		if err := cs.emailService.SendIngestFailure(cs.adminEmail, title, cause.Error()); err != nil {
			log.Printf("[ERROR] Ingest failure email failed: %v", err)
		}
	}()
}
