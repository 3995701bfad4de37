package scope

import (
	"sort"

	"sms-assistant-be/pkg/store"
)

const (
	// keepThreshold is the max-relevance bar a scope must clear.
	keepThreshold = 0.6
	// mixedTopAvgThreshold is the relaxed bar for mixed-intent turns,
	// applied to the average of the scope's top three units.
	mixedTopAvgThreshold = 0.4
	mixedTopN            = 3
)

// Select filters retrieved scopes by relevance and returns the surviving
// scopes plus their evidence in final envelope order.
//
// CONVO and ACTION are continuity scopes: they are kept whenever they
// produced anything at all, regardless of score.
func Select(evidence map[store.Scope][]store.EvidenceUnit, intent store.Intent) ([]store.Scope, []store.EvidenceUnit) {
	var kept []store.Scope
	for s, units := range evidence {
		if len(units) == 0 {
			continue
		}
		if keepScope(s, units, intent) {
			kept = append(kept, s)
		}
	}

	sort.Slice(kept, func(i, j int) bool {
		return store.ScopePriority(kept[i]) < store.ScopePriority(kept[j])
	})

	var ordered []store.EvidenceUnit
	for _, s := range kept {
		ordered = append(ordered, evidence[s]...)
	}
	return kept, ordered
}

func keepScope(s store.Scope, units []store.EvidenceUnit, intent store.Intent) bool {
	if s == store.ScopeConvo || s == store.ScopeAction {
		return true
	}
	if maxRelevance(units) >= keepThreshold {
		return true
	}
	if intent == store.IntentMixed && topAvgRelevance(units, mixedTopN) >= mixedTopAvgThreshold {
		return true
	}
	return false
}

func maxRelevance(units []store.EvidenceUnit) float64 {
	max := 0.0
	for _, u := range units {
		if r := u.Relevance(); r > max {
			max = r
		}
	}
	return max
}

func topAvgRelevance(units []store.EvidenceUnit, n int) float64 {
	scores := make([]float64, 0, len(units))
	for _, u := range units {
		scores = append(scores, u.Relevance())
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(scores)))
	if len(scores) > n {
		scores = scores[:n]
	}
	if len(scores) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range scores {
		sum += s
	}
	return sum / float64(len(scores))
}
