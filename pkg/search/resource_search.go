package search

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"sms-assistant-be/internal/entity"
	"sms-assistant-be/internal/repository/specification"
	"sms-assistant-be/internal/repository/unitofwork"
	"sms-assistant-be/pkg/embedding"
	"sms-assistant-be/pkg/fusion"

	"github.com/google/uuid"
)

// Searcher produces the two ranked lists the fusion layer consumes: a
// keyword list from ILIKE matches and a vector list from pgvector
// similarity over resource embeddings.
type Searcher struct {
	embeddingProvider embedding.EmbeddingProvider
	logger            *log.Logger
}

func NewSearcher(embeddingProvider embedding.EmbeddingProvider, logger *log.Logger) *Searcher {
	return &Searcher{
		embeddingProvider: embeddingProvider,
		logger:            logger,
	}
}

// Config encapsulates search parameters.
type Config struct {
	VectorThreshold float64
	TopK            int
}

func DefaultConfig() Config {
	return Config{
		VectorThreshold: 0.35,
		TopK:            10,
	}
}

// authorityBoosts is additive per resource source; member submissions
// get no boost.
var authorityBoosts = map[string]float64{
	"official": 0.2,
	"admin":    0.1,
}

// Execute runs both retrieval arms, fuses them, applies recency decay,
// authority boosts, and the near-duplicate penalty, and returns the top
// candidates. A failed vector arm degrades to keyword-only results.
func (s *Searcher) Execute(
	ctx context.Context,
	uow unitofwork.UnitOfWork,
	workspaceId uuid.UUID,
	query string,
	now time.Time,
	config Config,
) ([]fusion.Candidate, error) {

	keyword, err := s.keywordList(ctx, uow, workspaceId, query, config.TopK)
	if err != nil {
		return nil, fmt.Errorf("keyword search: %w", err)
	}

	vector, err := s.vectorList(ctx, uow, workspaceId, query, config)
	if err != nil {
		s.logger.Printf("[SEARCH] vector arm failed, keyword-only: %v", err)
		vector = nil
	}

	fused := fusion.WeightedFusion(keyword, vector)
	fused = fusion.ApplyTimeDecay(fused, now)
	fused = fusion.ApplyAuthority(fused, authorityBoosts)
	fused = fusion.ApplyDiversityPenalty(fused)

	return fusion.TopK(fused, config.TopK), nil
}

// keywordList scores ILIKE matches by the fraction of query tokens the
// resource actually contains, so multi-token queries rank full matches
// above partial ones.
func (s *Searcher) keywordList(
	ctx context.Context,
	uow unitofwork.UnitOfWork,
	workspaceId uuid.UUID,
	query string,
	k int,
) ([]fusion.Candidate, error) {

	resources, err := uow.ResourceRepository().SearchKeyword(ctx, workspaceId, query, k)
	if err != nil {
		return nil, err
	}

	queryTokens := tokenize(query)
	candidates := make([]fusion.Candidate, 0, len(resources))
	for _, r := range resources {
		ts := r.CreatedAt
		candidates = append(candidates, fusion.Candidate{
			ID:     r.Id.String(),
			Title:  r.Title,
			Text:   r.Content,
			Score:  keywordScore(queryTokens, r),
			Source: r.Source,
			Ts:     &ts,
		})
	}
	return candidates, nil
}

func (s *Searcher) vectorList(
	ctx context.Context,
	uow unitofwork.UnitOfWork,
	workspaceId uuid.UUID,
	query string,
	config Config,
) ([]fusion.Candidate, error) {

	embeddingRes, err := s.embeddingProvider.Generate(query, "RETRIEVAL_QUERY")
	if err != nil {
		return nil, fmt.Errorf("generate query embedding: %w", err)
	}

	scored, err := uow.ResourceEmbeddingRepository().SearchSimilarWithScore(
		ctx, embeddingRes.Embedding.Values, config.TopK, workspaceId, config.VectorThreshold)
	if err != nil {
		return nil, err
	}
	if len(scored) == 0 {
		return nil, nil
	}

	// One candidate per resource, keeping the best-scoring chunk.
	bestByResource := map[uuid.UUID]*fusion.Candidate{}
	order := make([]uuid.UUID, 0, len(scored))
	for _, sc := range scored {
		id := sc.Embedding.ResourceId
		if existing, ok := bestByResource[id]; ok {
			if sc.Similarity > existing.Score {
				existing.Score = sc.Similarity
				existing.Text = sc.Embedding.Document
			}
			continue
		}
		bestByResource[id] = &fusion.Candidate{
			ID:    id.String(),
			Text:  sc.Embedding.Document,
			Score: sc.Similarity,
		}
		order = append(order, id)
	}

	resources, err := uow.ResourceRepository().FindAll(ctx, specification.ByIDs{IDs: order})
	if err != nil {
		return nil, err
	}
	meta := map[uuid.UUID]*entity.Resource{}
	for _, r := range resources {
		meta[r.Id] = r
	}

	candidates := make([]fusion.Candidate, 0, len(order))
	for _, id := range order {
		c := bestByResource[id]
		if r, ok := meta[id]; ok {
			c.Title = r.Title
			c.Source = r.Source
			ts := r.CreatedAt
			c.Ts = &ts
		}
		candidates = append(candidates, *c)
	}
	return candidates, nil
}

func keywordScore(queryTokens []string, r *entity.Resource) float64 {
	if len(queryTokens) == 0 {
		return 0
	}
	haystack := strings.ToLower(r.Title + " " + r.Content)
	hits := 0
	for _, tok := range queryTokens {
		if strings.Contains(haystack, tok) {
			hits++
		}
	}
	return float64(hits) / float64(len(queryTokens))
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
