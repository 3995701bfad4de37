package envelope

import (
	"context"
	"errors"
	"testing"
	"time"

	"sms-assistant-be/pkg/store"
)

type fakeRetriever struct {
	units map[store.Scope][]store.EvidenceUnit
	err   error
	seen  map[store.Scope]int
}

func (r *fakeRetriever) Retrieve(ctx context.Context, s store.Scope, f *store.TurnFrame, k int) ([]store.EvidenceUnit, error) {
	if r.seen == nil {
		r.seen = map[store.Scope]int{}
	}
	r.seen[s] = k
	if r.err != nil {
		return nil, r.err
	}
	return r.units[s], nil
}

type fakeActions struct {
	actions []store.RecentAction
	err     error
}

func (a *fakeActions) RecentActions(ctx context.Context, phone string, limit int) ([]store.RecentAction, error) {
	return a.actions, a.err
}

func answerFrame() *store.TurnFrame {
	return &store.TurnFrame{
		Now:       time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		UserPhone: "5551234567",
		Mode:      store.ModeIdle,
		Text:      "when is the meeting?",
	}
}

func strong(s store.Scope, id string) store.EvidenceUnit {
	return store.EvidenceUnit{Scope: s, SourceID: id, ACLOK: true, Scores: store.EvidenceScores{
		Semantic: 0.9, Keyword: 0.8, Freshness: 0.5, RoleMatch: 1.0,
	}}
}

func TestBudgetFor(t *testing.T) {
	b := BudgetFor(store.ResponseAnswer)
	if b[store.ScopeResource] != 6 || b[store.ScopeConvo] != 4 || b[store.ScopeEnclave] != 3 || b[store.ScopeAction] != 2 {
		t.Errorf("answer budget = %v", b)
	}
	if b := BudgetFor(store.ResponseDraftEdit); len(b) != 1 || b[store.ScopeAction] != 3 {
		t.Errorf("draft edit budget = %v, want ACTION-only", b)
	}
	if b := BudgetFor(store.ResponseMode("bogus")); len(b) != 0 {
		t.Errorf("unknown mode budget = %v, want empty", b)
	}
}

func TestPreselectScopesOrdered(t *testing.T) {
	got := PreselectScopes(store.ResponseAnswer)
	want := []store.Scope{store.ScopeAction, store.ScopeResource, store.ScopeEnclave, store.ScopeConvo}
	if len(got) != len(want) {
		t.Fatalf("scopes = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("scopes[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestIntentFor(t *testing.T) {
	f := answerFrame()
	if got := IntentFor(store.ResponseAnswer, f); got != store.IntentAnswer {
		t.Errorf("answer intent = %q", got)
	}
	f.Signals.IsSmallTalk = true
	if got := IntentFor(store.ResponseAnswer, f); got != store.IntentMixed {
		t.Errorf("smalltalk-wrapped answer intent = %q, want mixed", got)
	}
	if got := IntentFor(store.ResponseChitChat, f); got != store.IntentSocial {
		t.Errorf("chitchat intent = %q", got)
	}
	if got := IntentFor(store.ResponseActionExecute, f); got != store.IntentLocal {
		t.Errorf("execute intent = %q", got)
	}
}

func TestBuildPassesBudgetToRetriever(t *testing.T) {
	retriever := &fakeRetriever{units: map[store.Scope][]store.EvidenceUnit{
		store.ScopeResource: {strong(store.ScopeResource, "r1")},
	}}
	b := NewBuilder(retriever, &fakeActions{}, DefaultConfig(), discardLogger())

	env := b.Build(context.Background(), answerFrame(), store.ResponseAnswer)

	if retriever.seen[store.ScopeResource] != 6 {
		t.Errorf("RESOURCE k = %d, want 6", retriever.seen[store.ScopeResource])
	}
	if retriever.seen[store.ScopeConvo] != 4 {
		t.Errorf("CONVO k = %d, want 4", retriever.seen[store.ScopeConvo])
	}
	if env.Intent != store.IntentAnswer {
		t.Errorf("Intent = %q", env.Intent)
	}
	if len(env.Evidence) != 1 || env.Evidence[0].SourceID != "r1" {
		t.Errorf("Evidence = %+v", env.Evidence)
	}
}

func TestBuildCapsOverReturningRetriever(t *testing.T) {
	over := make([]store.EvidenceUnit, 10)
	for i := range over {
		over[i] = strong(store.ScopeResource, "r")
	}
	retriever := &fakeRetriever{units: map[store.Scope][]store.EvidenceUnit{store.ScopeResource: over}}
	b := NewBuilder(retriever, &fakeActions{}, DefaultConfig(), discardLogger())

	env := b.Build(context.Background(), answerFrame(), store.ResponseAnswer)

	if len(env.Evidence) != 6 {
		t.Errorf("Evidence len = %d, want the budget cap 6", len(env.Evidence))
	}
}

func TestBuildSystemStateSurvivesRetrievalFailure(t *testing.T) {
	pending := &store.PendingDraft{Kind: store.DraftKindAnnouncement, Status: store.DraftStatusDraft, Body: "meeting tonight"}
	f := answerFrame()
	f.Pending = pending

	retriever := &fakeRetriever{err: errors.New("search down")}
	actions := &fakeActions{actions: []store.RecentAction{{Kind: "ANNOUNCEMENT_SENT"}}}
	b := NewBuilder(retriever, actions, DefaultConfig(), discardLogger())

	env := b.Build(context.Background(), f, store.ResponseAnswer)

	if env == nil {
		t.Fatal("envelope must build despite retrieval failure")
	}
	if env.SystemState.PendingDraft != pending {
		t.Error("pending draft missing from system state")
	}
	if len(env.SystemState.RecentActions) != 1 {
		t.Error("recent actions missing from system state")
	}
	if len(env.Evidence) != 0 {
		t.Errorf("Evidence = %+v, want empty", env.Evidence)
	}
}

func TestBuildPollPendingFilesUnderPoll(t *testing.T) {
	f := answerFrame()
	f.Pending = &store.PendingDraft{Kind: store.DraftKindPoll, Status: store.DraftStatusDraft, Question: "pizza or tacos?"}

	b := NewBuilder(&fakeRetriever{}, &fakeActions{}, DefaultConfig(), discardLogger())
	env := b.Build(context.Background(), f, store.ResponsePollEdit)

	if env.SystemState.PendingPoll == nil || env.SystemState.PendingDraft != nil {
		t.Errorf("system state = %+v, want poll slot only", env.SystemState)
	}
}

func TestBuildToleratesActionSourceFailure(t *testing.T) {
	b := NewBuilder(&fakeRetriever{}, &fakeActions{err: errors.New("db down")}, DefaultConfig(), discardLogger())
	env := b.Build(context.Background(), answerFrame(), store.ResponseAnswer)

	if env == nil || env.SystemState.RecentActions != nil {
		t.Errorf("env = %+v, want empty recent actions", env)
	}
}
