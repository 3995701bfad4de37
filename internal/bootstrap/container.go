package bootstrap

import (
	"context"
	"log"

	"sms-assistant-be/internal/config"
	"sms-assistant-be/internal/controller"
	"sms-assistant-be/internal/pkg/logger"
	"sms-assistant-be/internal/pkg/mailer"
	"sms-assistant-be/internal/repository/memory"
	"sms-assistant-be/internal/repository/unitofwork"
	"sms-assistant-be/internal/service"
	"sms-assistant-be/pkg/embedding"
	"sms-assistant-be/pkg/embedding/jina"
	"sms-assistant-be/pkg/llm/factory"
	"sms-assistant-be/pkg/search"
	"sms-assistant-be/pkg/sms"
	"sms-assistant-be/pkg/turn/envelope"
	"sms-assistant-be/pkg/turn/execute"
	"sms-assistant-be/pkg/turn/frame"

	pktNats "sms-assistant-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	WebhookController  controller.IWebhookController
	ResourceController controller.IResourceController
	MemberController   controller.IMemberController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// Infrastructure handles main.go needs for shutdown
	NatsPublisher *pktNats.Publisher
	SysLogger     logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	workspaceId, err := uuid.Parse(cfg.Workspace.Id)
	if err != nil {
		log.Fatalf("[FATAL] Invalid WORKSPACE_ID %q: %v", cfg.Workspace.Id, err)
	}

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "jina" {
		embeddingProvider = jina.NewJinaProvider(cfg.Ai.JinaToken)
		log.Printf("[INFO] Using Embedding Provider: JINA AI")
	} else {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	}

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.HuggingFaceToken,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 4. Infrastructure
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	stateRepo := memory.NewStateRepository()
	smsSender := sms.NewTwilioSender(
		cfg.SMS.AccountSid,
		cfg.SMS.AuthToken,
		cfg.SMS.FromNumber,
		cfg.SMS.BaseURL,
	)

	// 5. Turn Pipeline
	pipelineLogger := log.Default()
	searcher := search.NewSearcher(embeddingProvider, pipelineLogger)

	frameBuilder := frame.NewBuilder(
		service.NewDraftSource(uowFactory),
		service.NewHistorySource(uowFactory),
		service.NewStateSource(stateRepo),
		pipelineLogger,
	)
	envelopeBuilder := envelope.NewBuilder(
		service.NewTurnRetriever(uowFactory, searcher, workspaceId),
		service.NewActionSource(uowFactory),
		envelope.DefaultConfig(),
		pipelineLogger,
	)
	router := execute.NewRouter(
		service.NewDraftStore(uowFactory, workspaceId),
		service.NewActionStore(uowFactory, workspaceId),
		service.NewAudienceSource(uowFactory),
		smsSender,
		service.NewGenerator(llmProvider),
		service.NewEventPublisher(natsPub),
		pipelineLogger,
	)

	// 6. Services
	turnService := service.NewTurnService(
		frameBuilder,
		envelopeBuilder,
		router,
		uowFactory,
		stateRepo,
		emailService,
		cfg.Workspace.AdminEmail,
		workspaceId,
		sysLogger,
	)
	resourceService := service.NewResourceService(
		uowFactory,
		pubSub,
		cfg.Workspace.EmbedTopic,
		searcher,
		workspaceId,
		sysLogger,
	)
	memberService := service.NewMemberService(uowFactory, workspaceId)

	// Audit trail: every published action event lands in its own log file.
	if natsSub != nil {
		auditLog := logger.NewIsolatedLogger("logs/audit.log")
		auditService := service.NewAuditService(natsSub, auditLog)
		if err := auditService.Start(); err != nil {
			log.Printf("[WARN] Failed to start audit service: %v", err)
		}
	}

	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Workspace.EmbedTopic,
		uowFactory,
		embeddingProvider,
		emailService,
		cfg.Workspace.AdminEmail,
	)

	// 7. Controllers
	return &Container{
		WebhookController:  controller.NewWebhookController(turnService, rdb, cfg.SMS.AuthToken),
		ResourceController: controller.NewResourceController(resourceService),
		MemberController:   controller.NewMemberController(memberService),

		ConsumerService: consumerService,
		NatsPublisher:   natsPub,
		SysLogger:       sysLogger,
	}
}
