package envelope

import (
	"context"
	"log"
	"time"

	"sms-assistant-be/pkg/store"
	"sms-assistant-be/pkg/turn/scope"
)

// Retriever fetches up to k evidence units from one scope for a frame.
type Retriever interface {
	Retrieve(ctx context.Context, s store.Scope, f *store.TurnFrame, k int) ([]store.EvidenceUnit, error)
}

// ActionSource exposes recent completed sends for the envelope's
// system-state block.
type ActionSource interface {
	RecentActions(ctx context.Context, phone string, limit int) ([]store.RecentAction, error)
}

// Config bounds the retrieval fan-out.
type Config struct {
	MaxInFlight      int
	PerScopeTimeout  time.Duration
	RecentActionsMax int
}

// DefaultConfig returns the default fan-out bounds.
func DefaultConfig() Config {
	return Config{
		MaxInFlight:      3,
		PerScopeTimeout:  800 * time.Millisecond,
		RecentActionsMax: 5,
	}
}

// Builder assembles the per-turn context envelope.
type Builder struct {
	retriever Retriever
	actions   ActionSource
	config    Config
	logger    *log.Logger
}

// NewBuilder creates an envelope builder.
func NewBuilder(retriever Retriever, actions ActionSource, config Config, logger *log.Logger) *Builder {
	return &Builder{
		retriever: retriever,
		actions:   actions,
		config:    config,
		logger:    logger,
	}
}

// Build retrieves evidence for every budgeted scope, selects the relevant
// scopes, and attaches live system state. The envelope always carries the
// pending draft/poll even when every retrieval branch failed, so execute
// handlers can act on what is in flight.
func (b *Builder) Build(ctx context.Context, f *store.TurnFrame, mode store.ResponseMode) *store.ContextEnvelope {
	intent := IntentFor(mode, f)
	budget := BudgetFor(mode)

	tasks := make([]Task, 0, len(budget))
	for _, s := range PreselectScopes(mode) {
		s := s
		k := budget[s]
		tasks = append(tasks, Task{
			Scope: s,
			Fetch: func(branchCtx context.Context) ([]store.EvidenceUnit, error) {
				return b.retriever.Retrieve(branchCtx, s, f, k)
			},
		})
	}

	retrieved := FanOut(ctx, tasks, b.config.MaxInFlight, b.config.PerScopeTimeout, b.logger)

	// Budgets are a hard cap even if a retriever over-returns.
	for s, units := range retrieved {
		if k := budget[s]; len(units) > k {
			retrieved[s] = units[:k]
		}
	}

	scopes, evidence := scope.Select(retrieved, intent)

	return &store.ContextEnvelope{
		Intent:      intent,
		Scopes:      scopes,
		Evidence:    evidence,
		SystemState: b.systemState(ctx, f),
	}
}

func (b *Builder) systemState(ctx context.Context, f *store.TurnFrame) store.SystemState {
	state := store.SystemState{}
	if f.Pending != nil {
		switch f.Pending.Kind {
		case store.DraftKindPoll:
			state.PendingPoll = f.Pending
		default:
			state.PendingDraft = f.Pending
		}
	}

	actions, err := b.actions.RecentActions(ctx, f.UserPhone, b.config.RecentActionsMax)
	if err != nil {
		b.logger.Printf("[ENVELOPE] recent actions lookup failed: %v", err)
	} else {
		state.RecentActions = actions
	}
	return state
}
