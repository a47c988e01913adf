// ABOUTME: Brute-force semantic search over site content and training pairs
// ABOUTME: Falls back to keyword substring matching when embedding generation fails
package search

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/harper/sitechat/internal/models"
)

// KeywordFallbackSimilarity is the flat score assigned to keyword hits
// when the embedding path is unavailable. Fallback results are final and
// skip context re-ranking.
const KeywordFallbackSimilarity = 0.5

// ErrNoMatch means no training pair scored above the threshold; callers
// fall through to the next pipeline stage, this is not a failure.
var ErrNoMatch = errors.New("no training match above threshold")

// TextEmbedder produces embedding vectors for query text
type TextEmbedder interface {
	GetOrCreate(ctx context.Context, text string) ([]float64, error)
}

// ContentSource lists site content for searching
type ContentSource interface {
	// ListEmbedded returns items with embedding_status = completed
	ListEmbedded(ctx context.Context) ([]models.ContentItem, error)
	// ListAll returns every item regardless of embedding status
	ListAll(ctx context.Context) ([]models.ContentItem, error)
}

// TrainingSource lists active training pairs with question embeddings
type TrainingSource interface {
	ListActiveEmbedded(ctx context.Context) ([]models.TrainingPair, error)
}

// Config holds search thresholds
type Config struct {
	ContentThreshold  float64 // minimum similarity for content hits (default 0.75)
	TrainingThreshold float64 // minimum similarity for training matches
}

// Searcher ranks content and training data against query text
type Searcher struct {
	embedder TextEmbedder
	content  ContentSource
	training TrainingSource
	cfg      Config
}

// NewSearcher creates a Searcher over the given sources
func NewSearcher(embedder TextEmbedder, content ContentSource, training TrainingSource, cfg Config) *Searcher {
	if cfg.ContentThreshold == 0 {
		cfg.ContentThreshold = 0.75
	}
	if cfg.TrainingThreshold == 0 {
		cfg.TrainingThreshold = 0.75
	}
	return &Searcher{embedder: embedder, content: content, training: training, cfg: cfg}
}

// SimilarContent returns up to limit content items ranked by similarity to
// queryText. When contextText is non-empty, scores blend 70% query
// similarity with 30% context similarity before the final sort. If the
// query cannot be embedded, results come from the keyword fallback at a
// fixed similarity of 0.5.
func (s *Searcher) SimilarContent(ctx context.Context, queryText string, limit int, contextText string) ([]models.ScoredContent, error) {
	queryVector, err := s.embedder.GetOrCreate(ctx, queryText)
	if err != nil {
		return s.keywordFallback(ctx, queryText, limit)
	}

	items, err := s.content.ListEmbedded(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing embedded content: %w", err)
	}

	var results []models.ScoredContent
	for _, item := range items {
		similarity := Cosine(queryVector, item.Embedding)
		if similarity <= s.cfg.ContentThreshold {
			continue
		}
		results = append(results, models.ScoredContent{
			Item:       item,
			Similarity: similarity,
		})
	}

	if contextText != "" {
		if contextVector, err := s.embedder.GetOrCreate(ctx, contextText); err == nil {
			for i := range results {
				contextSim := Cosine(results[i].Item.Embedding, contextVector)
				results[i].Similarity = 0.7*results[i].Similarity + 0.3*contextSim
			}
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})

	if len(results) > limit {
		results = results[:limit]
	}

	queryKeywords := Keywords(queryText)
	for i := range results {
		results[i].RelevanceScore = roundRelevance(results[i].Similarity)
		results[i].Excerpt = ExcerptAround(results[i].Item.Body, queryKeywords, ExcerptWords)
	}

	return results, nil
}

// BestTrainingMatch returns the highest-similarity active training pair
// above the threshold, or ErrNoMatch. Embedding failures also return
// ErrNoMatch so the caller falls through to the provider path.
func (s *Searcher) BestTrainingMatch(ctx context.Context, message string, threshold float64) (*models.TrainingMatch, error) {
	if threshold == 0 {
		threshold = s.cfg.TrainingThreshold
	}

	messageVector, err := s.embedder.GetOrCreate(ctx, message)
	if err != nil {
		return nil, ErrNoMatch
	}

	pairs, err := s.training.ListActiveEmbedded(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing training pairs: %w", err)
	}

	type scoredPair struct {
		pair       models.TrainingPair
		similarity float64
	}

	var scored []scoredPair
	for _, pair := range pairs {
		similarity := Cosine(messageVector, pair.QuestionEmbedding)
		if similarity < threshold {
			continue
		}
		scored = append(scored, scoredPair{pair: pair, similarity: similarity})
	}

	if len(scored) == 0 {
		return nil, ErrNoMatch
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].similarity > scored[j].similarity
	})

	best := scored[0]
	return &models.TrainingMatch{
		Pair:        best.pair,
		Answer:      best.pair.Answer,
		Confidence:  best.similarity,
		Explanation: fmt.Sprintf("matched training question %q with %.0f%% similarity", truncateText(best.pair.Question, 100), best.similarity*100),
	}, nil
}

// keywordFallback performs a case-insensitive OR substring search over
// title and body. All hits carry the fixed fallback similarity.
func (s *Searcher) keywordFallback(ctx context.Context, queryText string, limit int) ([]models.ScoredContent, error) {
	items, err := s.content.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing content for keyword search: %w", err)
	}

	terms := strings.Fields(strings.ToLower(queryText))
	if len(terms) == 0 {
		return nil, nil
	}
	queryKeywords := Keywords(queryText)

	var results []models.ScoredContent
	for _, item := range items {
		haystack := strings.ToLower(item.Title + " " + item.Body)

		matched := false
		for _, term := range terms {
			if strings.Contains(haystack, term) {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}

		results = append(results, models.ScoredContent{
			Item:           item,
			Similarity:     KeywordFallbackSimilarity,
			RelevanceScore: roundRelevance(KeywordFallbackSimilarity),
			Excerpt:        ExcerptAround(item.Body, queryKeywords, ExcerptWords),
		})

		if len(results) >= limit {
			break
		}
	}

	return results, nil
}

// roundRelevance converts similarity to a 0-100 score with one decimal
func roundRelevance(similarity float64) float64 {
	return math.Round(similarity*1000) / 10
}

// truncateText shortens s to maxLen runes with an ellipsis
func truncateText(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}
