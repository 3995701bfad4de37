package scope

import (
	"testing"

	"sms-assistant-be/pkg/store"
)

func unit(s store.Scope, semantic float64) store.EvidenceUnit {
	return store.EvidenceUnit{Scope: s, SourceID: string(s), ACLOK: true, Scores: store.EvidenceScores{Semantic: semantic}}
}

func strongUnit(s store.Scope) store.EvidenceUnit {
	return store.EvidenceUnit{Scope: s, SourceID: string(s), ACLOK: true, Scores: store.EvidenceScores{
		Semantic: 0.9, Keyword: 0.8, Freshness: 0.5, RoleMatch: 1.0,
	}}
}

func TestRelevanceWeights(t *testing.T) {
	u := strongUnit(store.ScopeResource)
	// 0.4*0.9 + 0.3*0.8 + 0.2*0.5 + 0.1*1.0
	want := 0.36 + 0.24 + 0.10 + 0.10
	if got := u.Relevance(); got != want {
		t.Errorf("Relevance = %v, want %v", got, want)
	}
}

func TestSelectKeepsScopesAboveThreshold(t *testing.T) {
	evidence := map[store.Scope][]store.EvidenceUnit{
		store.ScopeResource: {strongUnit(store.ScopeResource)},
		store.ScopeEnclave:  {unit(store.ScopeEnclave, 0.1)},
	}

	scopes, units := Select(evidence, store.IntentAnswer)

	if len(scopes) != 1 || scopes[0] != store.ScopeResource {
		t.Fatalf("scopes = %v, want [RESOURCE]", scopes)
	}
	if len(units) != 1 {
		t.Errorf("units = %d, want 1", len(units))
	}
}

func TestSelectForceIncludesContinuityScopes(t *testing.T) {
	evidence := map[store.Scope][]store.EvidenceUnit{
		store.ScopeConvo:  {unit(store.ScopeConvo, 0.01)},
		store.ScopeAction: {unit(store.ScopeAction, 0.01)},
	}

	scopes, _ := Select(evidence, store.IntentAnswer)
	if len(scopes) != 2 {
		t.Fatalf("scopes = %v, want CONVO and ACTION kept", scopes)
	}
	if scopes[0] != store.ScopeAction || scopes[1] != store.ScopeConvo {
		t.Errorf("scope order = %v, want [ACTION CONVO]", scopes)
	}
}

func TestSelectEmptyContinuityScopeDropped(t *testing.T) {
	evidence := map[store.Scope][]store.EvidenceUnit{
		store.ScopeConvo: {},
	}
	scopes, _ := Select(evidence, store.IntentAnswer)
	if len(scopes) != 0 {
		t.Errorf("empty CONVO must not be kept, got %v", scopes)
	}
}

func TestSelectMixedIntentRelaxesThreshold(t *testing.T) {
	// Max relevance 0.4*1.15... use units whose max < 0.6 but top-3 avg >= 0.4.
	evidence := map[store.Scope][]store.EvidenceUnit{
		store.ScopeResource: {
			unit(store.ScopeResource, 1.0),  // relevance 0.40
			unit(store.ScopeResource, 1.0),  // relevance 0.40
			unit(store.ScopeResource, 1.0),  // relevance 0.40
			unit(store.ScopeResource, 0.05), // ignored by top-3
		},
	}

	if scopes, _ := Select(evidence, store.IntentAnswer); len(scopes) != 0 {
		t.Errorf("strict intent must drop the scope, got %v", scopes)
	}
	if scopes, _ := Select(evidence, store.IntentMixed); len(scopes) != 1 {
		t.Errorf("mixed intent must keep the scope")
	}
}

func TestSelectOrdersEvidenceByScopePriority(t *testing.T) {
	evidence := map[store.Scope][]store.EvidenceUnit{
		store.ScopeSmallTalk: {strongUnit(store.ScopeSmallTalk)},
		store.ScopeResource:  {strongUnit(store.ScopeResource)},
		store.ScopeAction:    {strongUnit(store.ScopeAction)},
		store.ScopeConvo:     {strongUnit(store.ScopeConvo)},
		store.ScopeEnclave:   {strongUnit(store.ScopeEnclave)},
	}

	_, units := Select(evidence, store.IntentAnswer)

	want := []store.Scope{store.ScopeAction, store.ScopeResource, store.ScopeEnclave, store.ScopeConvo, store.ScopeSmallTalk}
	if len(units) != len(want) {
		t.Fatalf("units = %d, want %d", len(units), len(want))
	}
	for i, s := range want {
		if units[i].Scope != s {
			t.Errorf("units[%d].Scope = %s, want %s", i, units[i].Scope, s)
		}
	}
}
