package service

import (
	"context"
	"fmt"
	"time"

	"sms-assistant-be/internal/entity"
	"sms-assistant-be/internal/repository/memory"
	"sms-assistant-be/internal/repository/unitofwork"
	"sms-assistant-be/pkg/events"
	"sms-assistant-be/pkg/llm"
	"sms-assistant-be/pkg/nats"
	"sms-assistant-be/pkg/store"

	"github.com/google/uuid"
)

// The adapters below bridge the turn pipeline's narrow collaborator
// interfaces onto the repository layer. Each one owns exactly one concern
// so the pipeline packages stay free of persistence imports.

type draftSourceAdapter struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewDraftSource(uowFactory unitofwork.RepositoryFactory) *draftSourceAdapter {
	return &draftSourceAdapter{uowFactory: uowFactory}
}

func (a *draftSourceAdapter) ActiveDraft(ctx context.Context, phone string) (*store.PendingDraft, error) {
	uow := a.uowFactory.NewUnitOfWork(ctx)
	draft, err := uow.DraftRepository().FindActive(ctx, phone)
	if err != nil {
		return nil, err
	}
	if draft == nil {
		return nil, nil
	}
	return draftToPending(draft), nil
}

func draftToPending(d *entity.Draft) *store.PendingDraft {
	editedAt := d.CreatedAt
	if d.UpdatedAt != nil {
		editedAt = *d.UpdatedAt
	}
	return &store.PendingDraft{
		ID:       d.Id.String(),
		Kind:     store.DraftKind(d.Kind),
		Body:     d.Body,
		Question: d.Question,
		Options:  d.Options,
		Audience: d.Audience,
		Status:   store.DraftStatus(d.Status),
		EditedAt: editedAt,
	}
}

type historySourceAdapter struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewHistorySource(uowFactory unitofwork.RepositoryFactory) *historySourceAdapter {
	return &historySourceAdapter{uowFactory: uowFactory}
}

// RecentTurns returns turns oldest first so the caller can treat the last
// element as the most recent exchange.
func (a *historySourceAdapter) RecentTurns(ctx context.Context, phone string, limit int) ([]store.ConvoTurn, error) {
	uow := a.uowFactory.NewUnitOfWork(ctx)
	logs, err := uow.ConversationRepository().FindRecent(ctx, phone, limit)
	if err != nil {
		return nil, err
	}
	turns := make([]store.ConvoTurn, 0, len(logs))
	for i := len(logs) - 1; i >= 0; i-- {
		turns = append(turns, store.ConvoTurn{
			UserMessage: logs[i].UserMessage,
			BotResponse: logs[i].BotResponse,
			Ts:          logs[i].CreatedAt,
		})
	}
	return turns, nil
}

type stateSourceAdapter struct {
	states *memory.StateRepository
}

func NewStateSource(states *memory.StateRepository) *stateSourceAdapter {
	return &stateSourceAdapter{states: states}
}

func (a *stateSourceAdapter) CurrentMode(ctx context.Context, phone string) (store.Mode, error) {
	mode, _ := a.states.GetMode(phone)
	return mode, nil
}

type actionSourceAdapter struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewActionSource(uowFactory unitofwork.RepositoryFactory) *actionSourceAdapter {
	return &actionSourceAdapter{uowFactory: uowFactory}
}

func (a *actionSourceAdapter) RecentActions(ctx context.Context, phone string, limit int) ([]store.RecentAction, error) {
	uow := a.uowFactory.NewUnitOfWork(ctx)
	records, err := uow.ActionRepository().FindRecent(ctx, phone, limit)
	if err != nil {
		return nil, err
	}
	actions := make([]store.RecentAction, 0, len(records))
	for _, rec := range records {
		actions = append(actions, store.RecentAction{
			ID:      rec.Id.String(),
			Kind:    rec.Kind,
			Ts:      rec.CreatedAt,
			Summary: actionSummary(rec),
		})
	}
	return actions, nil
}

func actionSummary(rec *entity.ActionRecord) string {
	if body, ok := rec.Payload["body"].(string); ok && body != "" {
		return fmt.Sprintf("%s: %s", rec.Kind, body)
	}
	if question, ok := rec.Payload["question"].(string); ok && question != "" {
		return fmt.Sprintf("%s: %s", rec.Kind, question)
	}
	return rec.Kind
}

type draftStoreAdapter struct {
	uowFactory  unitofwork.RepositoryFactory
	workspaceId uuid.UUID
}

func NewDraftStore(uowFactory unitofwork.RepositoryFactory, workspaceId uuid.UUID) *draftStoreAdapter {
	return &draftStoreAdapter{uowFactory: uowFactory, workspaceId: workspaceId}
}

func (a *draftStoreAdapter) Upsert(ctx context.Context, phone string, pending *store.PendingDraft) (string, error) {
	uow := a.uowFactory.NewUnitOfWork(ctx)

	id := uuid.Nil
	if pending.ID != "" {
		parsed, err := uuid.Parse(pending.ID)
		if err == nil {
			id = parsed
		}
	}
	if id == uuid.Nil {
		id = uuid.New()
	}

	draft := &entity.Draft{
		Id:          id,
		UserPhone:   phone,
		WorkspaceId: a.workspaceId,
		Kind:        string(pending.Kind),
		Body:        pending.Body,
		Question:    pending.Question,
		Options:     pending.Options,
		Audience:    pending.Audience,
		Status:      string(pending.Status),
		CreatedAt:   time.Now(),
	}
	if err := uow.DraftRepository().Upsert(ctx, draft); err != nil {
		return "", err
	}
	return draft.Id.String(), nil
}

func (a *draftStoreAdapter) Discard(ctx context.Context, phone string, kind store.DraftKind) error {
	uow := a.uowFactory.NewUnitOfWork(ctx)
	return uow.DraftRepository().Discard(ctx, phone, string(kind))
}

func (a *draftStoreAdapter) MarkSent(ctx context.Context, phone string, draftID string) error {
	id, err := uuid.Parse(draftID)
	if err != nil {
		return fmt.Errorf("invalid draft id %q: %w", draftID, err)
	}
	uow := a.uowFactory.NewUnitOfWork(ctx)
	return uow.DraftRepository().MarkSent(ctx, id, time.Now())
}

type actionStoreAdapter struct {
	uowFactory  unitofwork.RepositoryFactory
	workspaceId uuid.UUID
}

func NewActionStore(uowFactory unitofwork.RepositoryFactory, workspaceId uuid.UUID) *actionStoreAdapter {
	return &actionStoreAdapter{uowFactory: uowFactory, workspaceId: workspaceId}
}

func (a *actionStoreAdapter) Record(ctx context.Context, phone string, kind string, payload map[string]interface{}) (string, error) {
	uow := a.uowFactory.NewUnitOfWork(ctx)
	record := &entity.ActionRecord{
		Id:          uuid.New(),
		UserPhone:   phone,
		WorkspaceId: a.workspaceId,
		Kind:        kind,
		Payload:     payload,
		CreatedAt:   time.Now(),
	}
	if err := uow.ActionRepository().Create(ctx, record); err != nil {
		return "", err
	}
	return record.Id.String(), nil
}

type audienceAdapter struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewAudienceSource(uowFactory unitofwork.RepositoryFactory) *audienceAdapter {
	return &audienceAdapter{uowFactory: uowFactory}
}

func (a *audienceAdapter) Recipients(ctx context.Context, workspaceID, audience string) ([]string, error) {
	id, err := uuid.Parse(workspaceID)
	if err != nil {
		return nil, fmt.Errorf("invalid workspace id %q: %w", workspaceID, err)
	}
	uow := a.uowFactory.NewUnitOfWork(ctx)
	members, err := uow.MemberRepository().FindByAudience(ctx, id, audience)
	if err != nil {
		return nil, err
	}
	phones := make([]string, 0, len(members))
	for _, m := range members {
		phones = append(phones, m.Phone)
	}
	return phones, nil
}

type generatorAdapter struct {
	provider llm.LLMProvider
}

func NewGenerator(provider llm.LLMProvider) *generatorAdapter {
	return &generatorAdapter{provider: provider}
}

func (a *generatorAdapter) Generate(ctx context.Context, prompt string) (string, error) {
	return a.provider.Generate(ctx, prompt, llm.WithTemperature(0.4))
}

type eventPublisherAdapter struct {
	publisher *nats.Publisher
}

func NewEventPublisher(publisher *nats.Publisher) *eventPublisherAdapter {
	return &eventPublisherAdapter{publisher: publisher}
}

func (a *eventPublisherAdapter) Publish(ctx context.Context, eventType string, payload map[string]interface{}) error {
	// The bus is optional infrastructure; a failed NATS connection at boot
	// leaves a nil publisher.
	if a.publisher == nil {
		return fmt.Errorf("event bus unavailable")
	}
	return a.publisher.Publish(ctx, events.NewActionEvent(eventType, payload))
}
