package fusion

import (
	"math"
	"sort"
	"strings"
	"time"
)

// Candidate is one entry of a ranked retrieval list.
type Candidate struct {
	ID     string
	Title  string
	Text   string
	Score  float64
	Source string // authority key, e.g. "official", "member", "import"
	Ts     *time.Time
}

const (
	// rrfK dampens the contribution of deep ranks. 60 is the standard
	// constant from the original RRF paper.
	rrfK = 60

	rrfOriginalWeight = 0.6
	rrfRankWeight     = 0.4

	weightedKeyword = 0.4
	weightedVector  = 0.6

	decayHalfLifeDays = 90.0
	decayFloor        = 0.8
	decayRange        = 0.2

	diversityOverlapThreshold = 0.9
	diversityPenalty          = 0.1
)

// RRFScore computes the reciprocal-rank component for a candidate id over
// any number of lists. Ranks are 1-based; absence from a list contributes
// nothing.
func RRFScore(id string, lists ...[]Candidate) float64 {
	var score float64
	for _, list := range lists {
		for rank, c := range list {
			if c.ID == id {
				score += 1.0 / float64(rrfK+rank+1)
				break
			}
		}
	}
	return score
}

// ReciprocalRankFusion merges independently ranked lists. Each candidate's
// fused score is 0.6 of its best original score plus 0.4 of its RRF sum,
// so a candidate present in several lists always fuses at least as high as
// it would from any single one. Ties keep first-appearance order.
func ReciprocalRankFusion(lists ...[]Candidate) []Candidate {
	merged := mergeByFirstAppearance(lists)

	for i := range merged {
		original := bestOriginalScore(merged[i].ID, lists)
		merged[i].Score = rrfOriginalWeight*original + rrfRankWeight*RRFScore(merged[i].ID, lists...)
	}

	sortStableByScore(merged)
	return merged
}

// WeightedFusion is the simpler score-level merge of a keyword list and a
// vector list. Each list's scores are normalized to [0,1] by its own max
// (divisor floored at 1); a candidate present in only one list keeps only
// that list's term.
func WeightedFusion(keyword, vector []Candidate) []Candidate {
	kwMax := maxScore(keyword)
	vecMax := maxScore(vector)

	kwNorm := normalizedScores(keyword, kwMax)
	vecNorm := normalizedScores(vector, vecMax)

	merged := mergeByFirstAppearance([][]Candidate{keyword, vector})
	for i := range merged {
		var fused float64
		if s, ok := kwNorm[merged[i].ID]; ok {
			fused += weightedKeyword * s
		}
		if s, ok := vecNorm[merged[i].ID]; ok {
			fused += weightedVector * s
		}
		merged[i].Score = fused
	}

	sortStableByScore(merged)
	return merged
}

// ApplyTimeDecay scales every score into [0.8*base, base] by age. A
// candidate with no timestamp keeps its base score untouched; recency can
// never invert an ordering by more than the 20% band. Non-positive scores
// pass through unscaled, since shrinking a negative score would reward
// staleness.
func ApplyTimeDecay(candidates []Candidate, now time.Time) []Candidate {
	out := make([]Candidate, len(candidates))
	copy(out, candidates)
	for i := range out {
		if out[i].Ts == nil || out[i].Score <= 0 {
			continue
		}
		ageDays := now.Sub(*out[i].Ts).Hours() / 24
		if ageDays < 0 {
			ageDays = 0
		}
		decay := math.Exp(-ageDays / decayHalfLifeDays)
		out[i].Score = out[i].Score * (decayFloor + decayRange*decay)
	}
	sortStableByScore(out)
	return out
}

// ApplyAuthority adds the source-keyed boost to each candidate.
func ApplyAuthority(candidates []Candidate, boosts map[string]float64) []Candidate {
	out := make([]Candidate, len(candidates))
	copy(out, candidates)
	for i := range out {
		out[i].Score += boosts[out[i].Source]
	}
	sortStableByScore(out)
	return out
}

// ApplyDiversityPenalty walks the ranked list top-down and charges 0.1 per
// already-accepted candidate whose title tokens overlap above 0.9, so
// near-duplicates cannot crowd the top-k. The list is re-sorted after
// penalties are applied.
func ApplyDiversityPenalty(candidates []Candidate) []Candidate {
	out := make([]Candidate, len(candidates))
	copy(out, candidates)

	accepted := make([][]string, 0, len(out))
	for i := range out {
		tokens := titleTokens(out[i].Title)
		duplicates := 0
		for _, prev := range accepted {
			if tokenOverlap(tokens, prev) > diversityOverlapThreshold {
				duplicates++
			}
		}
		out[i].Score -= diversityPenalty * float64(duplicates)
		accepted = append(accepted, tokens)
	}

	sortStableByScore(out)
	return out
}

// TopK truncates a ranked list.
func TopK(candidates []Candidate, k int) []Candidate {
	if k < 0 || k >= len(candidates) {
		return candidates
	}
	return candidates[:k]
}

func mergeByFirstAppearance(lists [][]Candidate) []Candidate {
	seen := make(map[string]bool)
	var merged []Candidate
	for _, list := range lists {
		for _, c := range list {
			if seen[c.ID] {
				continue
			}
			seen[c.ID] = true
			merged = append(merged, c)
		}
	}
	return merged
}

func bestOriginalScore(id string, lists [][]Candidate) float64 {
	best := 0.0
	found := false
	for _, list := range lists {
		for _, c := range list {
			if c.ID != id {
				continue
			}
			if !found || c.Score > best {
				best = c.Score
				found = true
			}
		}
	}
	return best
}

func maxScore(list []Candidate) float64 {
	max := 0.0
	for _, c := range list {
		if c.Score > max {
			max = c.Score
		}
	}
	if max < 1 {
		return 1
	}
	return max
}

func normalizedScores(list []Candidate, divisor float64) map[string]float64 {
	norm := make(map[string]float64, len(list))
	for _, c := range list {
		if _, ok := norm[c.ID]; ok {
			continue
		}
		norm[c.ID] = c.Score / divisor
	}
	return norm
}

// sortStableByScore keeps insertion (first-appearance) order for equal
// scores, which is what makes the whole ranker deterministic.
func sortStableByScore(list []Candidate) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Score > list[j].Score
	})
}

func titleTokens(title string) []string {
	fields := strings.Fields(strings.ToLower(title))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, ".,!?;:\"'")
		if f != "" {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// tokenOverlap is Jaccard similarity over title tokens.
func tokenOverlap(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	setA := make(map[string]bool, len(a))
	for _, t := range a {
		setA[t] = true
	}
	setB := make(map[string]bool, len(b))
	for _, t := range b {
		setB[t] = true
	}
	intersection := 0
	for t := range setA {
		if setB[t] {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}
