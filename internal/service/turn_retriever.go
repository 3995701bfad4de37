package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"sms-assistant-be/internal/constant"
	"sms-assistant-be/internal/repository/specification"
	"sms-assistant-be/internal/repository/unitofwork"
	"sms-assistant-be/pkg/search"
	"sms-assistant-be/pkg/store"

	"github.com/google/uuid"
)

// turnRetriever resolves each evidence scope against its backing store.
// It implements envelope.Retriever; one instance serves all scopes so the
// fan-out stays a pure concurrency concern.
type turnRetriever struct {
	uowFactory  unitofwork.RepositoryFactory
	searcher    *search.Searcher
	workspaceId uuid.UUID
}

func NewTurnRetriever(
	uowFactory unitofwork.RepositoryFactory,
	searcher *search.Searcher,
	workspaceId uuid.UUID,
) *turnRetriever {
	return &turnRetriever{
		uowFactory:  uowFactory,
		searcher:    searcher,
		workspaceId: workspaceId,
	}
}

func (r *turnRetriever) Retrieve(ctx context.Context, s store.Scope, f *store.TurnFrame, k int) ([]store.EvidenceUnit, error) {
	switch s {
	case store.ScopeConvo:
		return r.convo(ctx, f, k)
	case store.ScopeResource:
		return r.resource(ctx, f, k)
	case store.ScopeEnclave:
		return r.enclave(ctx, f, k)
	case store.ScopeAction:
		return r.action(ctx, f, k)
	case store.ScopeSmallTalk:
		return r.smallTalk(f), nil
	}
	return nil, fmt.Errorf("unknown scope %q", s)
}

func (r *turnRetriever) convo(ctx context.Context, f *store.TurnFrame, k int) ([]store.EvidenceUnit, error) {
	uow := r.uowFactory.NewUnitOfWork(ctx)
	logs, err := uow.ConversationRepository().Search(ctx, f.UserPhone, f.Text, k)
	if err != nil {
		return nil, err
	}

	queryTokens := tokenize(f.Text)
	units := make([]store.EvidenceUnit, 0, len(logs))
	for _, l := range logs {
		ts := l.CreatedAt
		text := fmt.Sprintf("user: %s / assistant: %s", l.UserMessage, l.BotResponse)
		units = append(units, store.EvidenceUnit{
			Scope:    store.ScopeConvo,
			SourceID: l.Id.String(),
			Text:     text,
			Ts:       &ts,
			ACLOK:    true,
			Scores: store.EvidenceScores{
				Keyword:   tokenFraction(queryTokens, text),
				Freshness: freshness(ts, f.Now),
			},
		})
	}
	return units, nil
}

func (r *turnRetriever) resource(ctx context.Context, f *store.TurnFrame, k int) ([]store.EvidenceUnit, error) {
	uow := r.uowFactory.NewUnitOfWork(ctx)

	config := search.DefaultConfig()
	config.TopK = k
	candidates, err := r.searcher.Execute(ctx, uow, r.workspaceId, f.Text, f.Now, config)
	if err != nil {
		return nil, err
	}

	units := make([]store.EvidenceUnit, 0, len(candidates))
	for _, c := range candidates {
		text := c.Text
		if c.Title != "" {
			text = c.Title + ": " + text
		}
		units = append(units, store.EvidenceUnit{
			Scope:    store.ScopeResource,
			SourceID: c.ID,
			Text:     text,
			Ts:       c.Ts,
			ACLOK:    true,
			Scores: store.EvidenceScores{
				Semantic:  clamp01(c.Score),
				Freshness: freshnessPtr(c.Ts, f.Now),
			},
		})
	}
	return units, nil
}

// enclave serves restricted resources. ACLOK reflects the sender's role so
// scope selection can drop the whole scope for non-admins.
func (r *turnRetriever) enclave(ctx context.Context, f *store.TurnFrame, k int) ([]store.EvidenceUnit, error) {
	uow := r.uowFactory.NewUnitOfWork(ctx)

	member, err := uow.MemberRepository().FindByPhone(ctx, r.workspaceId, f.UserPhone)
	if err != nil {
		return nil, err
	}
	aclOK := member != nil && member.Role == constant.RoleAdmin

	resources, err := uow.ResourceRepository().FindAll(ctx,
		specification.ByWorkspaceID{WorkspaceID: r.workspaceId},
		specification.EnclaveOnly{},
		specification.NotDeleted{},
	)
	if err != nil {
		return nil, err
	}

	queryTokens := tokenize(f.Text)
	units := make([]store.EvidenceUnit, 0, k)
	for _, res := range resources {
		score := tokenFraction(queryTokens, res.Title+" "+res.Content)
		if score == 0 {
			continue
		}
		ts := res.CreatedAt
		units = append(units, store.EvidenceUnit{
			Scope:    store.ScopeEnclave,
			SourceID: res.Id.String(),
			Text:     res.Title + ": " + res.Content,
			Ts:       &ts,
			ACLOK:    aclOK,
			Scores: store.EvidenceScores{
				Keyword:   score,
				Freshness: freshness(ts, f.Now),
				RoleMatch: boolScore(aclOK),
			},
		})
		if len(units) == k {
			break
		}
	}
	return units, nil
}

func (r *turnRetriever) action(ctx context.Context, f *store.TurnFrame, k int) ([]store.EvidenceUnit, error) {
	uow := r.uowFactory.NewUnitOfWork(ctx)
	records, err := uow.ActionRepository().FindRecent(ctx, f.UserPhone, k)
	if err != nil {
		return nil, err
	}

	units := make([]store.EvidenceUnit, 0, len(records))
	for _, rec := range records {
		ts := rec.CreatedAt
		units = append(units, store.EvidenceUnit{
			Scope:    store.ScopeAction,
			SourceID: rec.Id.String(),
			Text:     actionSummary(rec),
			Ts:       &ts,
			ACLOK:    true,
			Scores: store.EvidenceScores{
				Freshness: freshness(ts, f.Now),
				RoleMatch: 1,
			},
		})
	}
	return units, nil
}

// smallTalk is a static scope; it exists so social turns carry a scope at
// all rather than an empty envelope.
func (r *turnRetriever) smallTalk(f *store.TurnFrame) []store.EvidenceUnit {
	semantic := 0.0
	if f.Signals.IsSmallTalk {
		semantic = 1.0
	}
	now := f.Now
	return []store.EvidenceUnit{
		{
			Scope:    store.ScopeSmallTalk,
			SourceID: "smalltalk:persona",
			Text:     constant.MsgGreeting,
			Ts:       &now,
			ACLOK:    true,
			Scores: store.EvidenceScores{
				Semantic:  semantic,
				Freshness: 1,
			},
		},
	}
}

func tokenize(s string) []string {
	fields := strings.Fields(strings.ToLower(s))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, `.,!?"'`)
		if len(f) > 2 {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

func tokenFraction(queryTokens []string, text string) float64 {
	if len(queryTokens) == 0 {
		return 0
	}
	haystack := strings.ToLower(text)
	hits := 0
	for _, tok := range queryTokens {
		if strings.Contains(haystack, tok) {
			hits++
		}
	}
	return float64(hits) / float64(len(queryTokens))
}

// freshness decays with a 30-day time constant so week-old material still
// scores meaningfully but last season's does not.
func freshness(ts, now time.Time) float64 {
	age := now.Sub(ts)
	if age < 0 {
		age = 0
	}
	return math.Exp(-age.Hours() / (30 * 24))
}

func freshnessPtr(ts *time.Time, now time.Time) float64 {
	if ts == nil {
		return 0
	}
	return freshness(*ts, now)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func boolScore(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
