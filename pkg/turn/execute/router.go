package execute

import (
	"context"
	"log"

	"sms-assistant-be/internal/constant"
	"sms-assistant-be/pkg/store"
)

// DraftStore mutates the single active draft per (phone, kind).
type DraftStore interface {
	// Upsert creates or overwrites the active draft. At most one
	// non-terminal draft exists per (phone, kind).
	Upsert(ctx context.Context, phone string, draft *store.PendingDraft) (string, error)
	Discard(ctx context.Context, phone string, kind store.DraftKind) error
	// MarkSent performs the terminal transition. Only ActionExecute calls it.
	MarkSent(ctx context.Context, phone string, draftID string) error
}

// ActionStore records completed sends, append-only.
type ActionStore interface {
	Record(ctx context.Context, phone string, kind string, payload map[string]interface{}) (string, error)
}

// AudienceSource resolves a draft audience to recipient phone numbers.
type AudienceSource interface {
	Recipients(ctx context.Context, workspaceID, audience string) ([]string, error)
}

// Sender delivers one outbound SMS.
type Sender interface {
	Send(ctx context.Context, phone, body string) (string, error)
}

// Generator is the external text-generation collaborator. It is consulted
// only when no deterministic rule produced a result, and its output is
// never trusted to be structured.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// EventPublisher emits action events to the bus. Failures are logged, never
// surfaced to the user.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, payload map[string]interface{}) error
}

// Router dispatches a planned response mode to exactly one handler.
type Router struct {
	drafts    DraftStore
	actions   ActionStore
	audience  AudienceSource
	sender    Sender
	generator Generator
	events    EventPublisher
	logger    *log.Logger
}

// NewRouter creates the execute router with its collaborators.
func NewRouter(
	drafts DraftStore,
	actions ActionStore,
	audience AudienceSource,
	sender Sender,
	generator Generator,
	events EventPublisher,
	logger *log.Logger,
) *Router {
	return &Router{
		drafts:    drafts,
		actions:   actions,
		audience:  audience,
		sender:    sender,
		generator: generator,
		events:    events,
		logger:    logger,
	}
}

// Execute runs the handler for the planned mode. Every handler returns at
// least one message; internal failures degrade to a user-safe reply rather
// than propagating.
func (r *Router) Execute(ctx context.Context, mode store.ResponseMode, f *store.TurnFrame, env *store.ContextEnvelope) store.TurnResult {
	var result store.TurnResult

	switch mode {
	case store.ResponseChitChat:
		result = r.chitChat(ctx, f, env)
	case store.ResponseAnswer:
		result = r.answer(ctx, f, env)
	case store.ResponseDraftCreate:
		result = r.draftCreate(ctx, f, store.DraftKindAnnouncement)
	case store.ResponsePollCreate:
		result = r.draftCreate(ctx, f, store.DraftKindPoll)
	case store.ResponseDraftEdit:
		result = r.draftEdit(ctx, f, env, store.DraftKindAnnouncement)
	case store.ResponsePollEdit:
		result = r.draftEdit(ctx, f, env, store.DraftKindPoll)
	case store.ResponseActionConfirm:
		result = r.actionConfirm(f, env)
	case store.ResponseActionExecute:
		result = r.actionExecute(ctx, f, env)
	default:
		// Unreachable while the planner stays total over ResponseMode.
		r.logger.Printf("[EXECUTE] unknown response mode %q", mode)
		result = store.TurnResult{Messages: []string{constant.MsgApology}}
	}

	if len(result.Messages) == 0 {
		result.Messages = []string{constant.MsgApology}
	}
	return result
}
