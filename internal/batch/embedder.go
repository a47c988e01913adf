// ABOUTME: Batch embedding worker for content items and training questions
// ABOUTME: Claims pending rows in small batches with a delay between calls
package batch

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/harper/sitechat/internal/llm"
	"github.com/harper/sitechat/internal/models"
	"github.com/harper/sitechat/internal/search"
)

// Scope selects which rows a batch run covers
type Scope string

const (
	// ScopeMissing embeds only rows still awaiting a vector
	ScopeMissing Scope = "missing"
	// ScopeAll resets every vector first, then re-embeds from scratch
	ScopeAll Scope = "all"
)

// DefaultBatchSize is the number of rows processed per run
const DefaultBatchSize = 10

// DefaultDelay is the pause between consecutive provider calls
const DefaultDelay = 100 * time.Millisecond

// ContentQueue is the content side of the embedding backlog
type ContentQueue interface {
	ClaimPending(ctx context.Context, limit int) ([]models.ContentItem, error)
	SetEmbedding(ctx context.Context, id string, vector []float64) error
	MarkError(ctx context.Context, id string) error
	ResetAllEmbeddings(ctx context.Context) error
	CountPending(ctx context.Context) (int, error)
}

// TrainingQueue is the training side of the embedding backlog
type TrainingQueue interface {
	ClaimPending(ctx context.Context, limit int) ([]models.TrainingPair, error)
	SetEmbedding(ctx context.Context, id string, vector []float64) error
	MarkError(ctx context.Context, id string) error
	ResetAllEmbeddings(ctx context.Context) error
	CountPending(ctx context.Context) (int, error)
}

// Result summarizes one batch run
type Result struct {
	Processed int `json:"processed"`
	Errors    int `json:"errors"`
	Remaining int `json:"remaining"`
}

// Embedder works through the embedding backlog one batch at a time
type Embedder struct {
	embedder search.TextEmbedder
	content  ContentQueue
	training TrainingQueue
	delay    time.Duration
}

// NewEmbedder creates a batch Embedder. A zero delay uses the default.
func NewEmbedder(embedder search.TextEmbedder, content ContentQueue, training TrainingQueue, delay time.Duration) *Embedder {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Embedder{
		embedder: embedder,
		content:  content,
		training: training,
		delay:    delay,
	}
}

// ProcessBatch runs one batch over the backlog. Per-row failures mark the
// row as errored and the run continues; Remaining counts rows left for
// subsequent runs. A non-recoverable provider error (missing or invalid
// credential) aborts the run instead of marking rows errored, since every
// remaining call would fail the same way.
func (e *Embedder) ProcessBatch(ctx context.Context, scope Scope, batchSize int) (*Result, error) {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	if scope == ScopeAll {
		if err := e.content.ResetAllEmbeddings(ctx); err != nil {
			return nil, fmt.Errorf("resetting content embeddings: %w", err)
		}
		if err := e.training.ResetAllEmbeddings(ctx); err != nil {
			return nil, fmt.Errorf("resetting training embeddings: %w", err)
		}
	}

	result := &Result{}

	items, err := e.content.ClaimPending(ctx, batchSize)
	if err != nil {
		return nil, fmt.Errorf("claiming content items: %w", err)
	}
	for _, item := range items {
		if err := e.embedContentItem(ctx, item, result); err != nil {
			return result, err
		}
		if err := e.pause(ctx); err != nil {
			return result, err
		}
	}

	if budget := batchSize - len(items); budget > 0 {
		pairs, err := e.training.ClaimPending(ctx, budget)
		if err != nil {
			return nil, fmt.Errorf("claiming training pairs: %w", err)
		}
		for _, pair := range pairs {
			if err := e.embedTrainingPair(ctx, pair, result); err != nil {
				return result, err
			}
			if err := e.pause(ctx); err != nil {
				return result, err
			}
		}
	}

	contentLeft, err := e.content.CountPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting pending content: %w", err)
	}
	trainingLeft, err := e.training.CountPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting pending training: %w", err)
	}
	result.Remaining = contentLeft + trainingLeft

	return result, nil
}

func (e *Embedder) embedContentItem(ctx context.Context, item models.ContentItem, result *Result) error {
	vector, err := e.embedder.GetOrCreate(ctx, item.Title+"\n\n"+item.Body)
	if err != nil {
		if !llm.IsRecoverable(err) {
			return fmt.Errorf("embedding content %s: %w", item.ID, err)
		}
		log.Printf("embedding content %s: %v", item.ID, err)
		e.markContentError(ctx, item.ID)
		result.Errors++
		return nil
	}
	if err := e.content.SetEmbedding(ctx, item.ID, vector); err != nil {
		log.Printf("storing content embedding %s: %v", item.ID, err)
		result.Errors++
		return nil
	}
	result.Processed++
	return nil
}

func (e *Embedder) embedTrainingPair(ctx context.Context, pair models.TrainingPair, result *Result) error {
	vector, err := e.embedder.GetOrCreate(ctx, pair.Question)
	if err != nil {
		if !llm.IsRecoverable(err) {
			return fmt.Errorf("embedding training pair %s: %w", pair.ID, err)
		}
		log.Printf("embedding training pair %s: %v", pair.ID, err)
		if markErr := e.training.MarkError(ctx, pair.ID); markErr != nil {
			log.Printf("marking training pair %s errored: %v", pair.ID, markErr)
		}
		result.Errors++
		return nil
	}
	if err := e.training.SetEmbedding(ctx, pair.ID, vector); err != nil {
		log.Printf("storing training embedding %s: %v", pair.ID, err)
		result.Errors++
		return nil
	}
	result.Processed++
	return nil
}

func (e *Embedder) markContentError(ctx context.Context, id string) {
	if err := e.content.MarkError(ctx, id); err != nil {
		log.Printf("marking content %s errored: %v", id, err)
	}
}

// pause waits the configured delay between provider calls, honoring
// context cancellation
func (e *Embedder) pause(ctx context.Context) error {
	timer := time.NewTimer(e.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
