package envelope

import (
	"sort"

	"sms-assistant-be/pkg/store"
)

// Budget caps how many evidence items each scope may contribute this turn.
// A scope absent from the budget contributes nothing.
type Budget map[store.Scope]int

// budgets is the static retrieval plan per response mode. Drafting and
// action modes are deliberately local-only: they read system state, never
// the search index.
var budgets = map[store.ResponseMode]Budget{
	store.ResponseAnswer: {
		store.ScopeResource: 6,
		store.ScopeConvo:    4,
		store.ScopeEnclave:  3,
		store.ScopeAction:   2,
	},
	store.ResponseChitChat: {
		store.ScopeSmallTalk: 2,
		store.ScopeConvo:     2,
	},
	store.ResponseDraftCreate:   {store.ScopeAction: 3},
	store.ResponseDraftEdit:     {store.ScopeAction: 3},
	store.ResponsePollCreate:    {store.ScopeAction: 3},
	store.ResponsePollEdit:      {store.ScopeAction: 3},
	store.ResponseActionConfirm: {store.ScopeAction: 3},
	store.ResponseActionExecute: {store.ScopeAction: 3},
}

// BudgetFor returns the scope budget for a planned response mode.
func BudgetFor(mode store.ResponseMode) Budget {
	if b, ok := budgets[mode]; ok {
		return b
	}
	return Budget{}
}

// PreselectScopes lists the scopes with a non-zero budget, in envelope
// priority order.
func PreselectScopes(mode store.ResponseMode) []store.Scope {
	b := BudgetFor(mode)
	scopes := make([]store.Scope, 0, len(b))
	for s, k := range b {
		if k > 0 {
			scopes = append(scopes, s)
		}
	}
	sort.Slice(scopes, func(i, j int) bool {
		return store.ScopePriority(scopes[i]) < store.ScopePriority(scopes[j])
	})
	return scopes
}

// IntentFor derives the retrieval intent from the planned mode and frame.
func IntentFor(mode store.ResponseMode, f *store.TurnFrame) store.Intent {
	switch mode {
	case store.ResponseAnswer:
		if f != nil && f.Signals.IsSmallTalk {
			// Question wrapped in pleasantries: relax scope selection.
			return store.IntentMixed
		}
		return store.IntentAnswer
	case store.ResponseChitChat:
		return store.IntentSocial
	default:
		return store.IntentLocal
	}
}
