// ABOUTME: Tests for the batch embedding worker
// ABOUTME: Uses in-memory queues and a scripted embedder
package batch

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/harper/sitechat/internal/llm"
	"github.com/harper/sitechat/internal/models"
)

type scriptedEmbedder struct {
	calls    int
	failText string
	err      error
}

func (e *scriptedEmbedder) GetOrCreate(_ context.Context, text string) ([]float64, error) {
	e.calls++
	if e.err != nil {
		return nil, e.err
	}
	if e.failText != "" && strings.Contains(text, e.failText) {
		return nil, errors.New("provider rejected input")
	}
	return []float64{1, 0, 0}, nil
}

type memContentQueue struct {
	pending  []models.ContentItem
	embedded map[string][]float64
	errored  map[string]bool
	resets   int
}

func newMemContentQueue(items ...models.ContentItem) *memContentQueue {
	return &memContentQueue{
		pending:  items,
		embedded: map[string][]float64{},
		errored:  map[string]bool{},
	}
}

func (q *memContentQueue) ClaimPending(_ context.Context, limit int) ([]models.ContentItem, error) {
	if limit > len(q.pending) {
		limit = len(q.pending)
	}
	claimed := q.pending[:limit]
	q.pending = q.pending[limit:]
	return claimed, nil
}

func (q *memContentQueue) SetEmbedding(_ context.Context, id string, vector []float64) error {
	q.embedded[id] = vector
	return nil
}

func (q *memContentQueue) MarkError(_ context.Context, id string) error {
	q.errored[id] = true
	return nil
}

func (q *memContentQueue) ResetAllEmbeddings(context.Context) error {
	q.resets++
	return nil
}

func (q *memContentQueue) CountPending(context.Context) (int, error) {
	return len(q.pending), nil
}

type memTrainingQueue struct {
	pending  []models.TrainingPair
	embedded map[string][]float64
	errored  map[string]bool
	resets   int
}

func newMemTrainingQueue(pairs ...models.TrainingPair) *memTrainingQueue {
	return &memTrainingQueue{
		pending:  pairs,
		embedded: map[string][]float64{},
		errored:  map[string]bool{},
	}
}

func (q *memTrainingQueue) ClaimPending(_ context.Context, limit int) ([]models.TrainingPair, error) {
	if limit > len(q.pending) {
		limit = len(q.pending)
	}
	claimed := q.pending[:limit]
	q.pending = q.pending[limit:]
	return claimed, nil
}

func (q *memTrainingQueue) SetEmbedding(_ context.Context, id string, vector []float64) error {
	q.embedded[id] = vector
	return nil
}

func (q *memTrainingQueue) MarkError(_ context.Context, id string) error {
	q.errored[id] = true
	return nil
}

func (q *memTrainingQueue) ResetAllEmbeddings(context.Context) error {
	q.resets++
	return nil
}

func (q *memTrainingQueue) CountPending(context.Context) (int, error) {
	return len(q.pending), nil
}

func TestProcessBatch_EmbedsContentThenTraining(t *testing.T) {
	content := newMemContentQueue(
		models.ContentItem{ID: "c1", Title: "One", Body: "body one"},
		models.ContentItem{ID: "c2", Title: "Two", Body: "body two"},
	)
	training := newMemTrainingQueue(
		models.TrainingPair{ID: "t1", Question: "q1", Answer: "a1"},
	)
	worker := NewEmbedder(&scriptedEmbedder{}, content, training, time.Millisecond)

	result, err := worker.ProcessBatch(context.Background(), ScopeMissing, 10)
	if err != nil {
		t.Fatalf("ProcessBatch() error = %v", err)
	}

	if result.Processed != 3 {
		t.Errorf("Processed = %d, want 3", result.Processed)
	}
	if result.Errors != 0 {
		t.Errorf("Errors = %d, want 0", result.Errors)
	}
	if result.Remaining != 0 {
		t.Errorf("Remaining = %d, want 0", result.Remaining)
	}
	if len(content.embedded) != 2 || len(training.embedded) != 1 {
		t.Errorf("embedded content=%d training=%d, want 2 and 1",
			len(content.embedded), len(training.embedded))
	}
}

func TestProcessBatch_RespectsBatchSize(t *testing.T) {
	content := newMemContentQueue(
		models.ContentItem{ID: "c1", Title: "One", Body: "b"},
		models.ContentItem{ID: "c2", Title: "Two", Body: "b"},
		models.ContentItem{ID: "c3", Title: "Three", Body: "b"},
	)
	training := newMemTrainingQueue(
		models.TrainingPair{ID: "t1", Question: "q1", Answer: "a"},
	)
	worker := NewEmbedder(&scriptedEmbedder{}, content, training, time.Millisecond)

	result, err := worker.ProcessBatch(context.Background(), ScopeMissing, 2)
	if err != nil {
		t.Fatalf("ProcessBatch() error = %v", err)
	}

	if result.Processed != 2 {
		t.Errorf("Processed = %d, want 2", result.Processed)
	}
	if result.Remaining != 2 {
		t.Errorf("Remaining = %d, want 2", result.Remaining)
	}
	// Training must not be touched while content fills the batch
	if len(training.embedded) != 0 {
		t.Errorf("training embedded = %d, want 0", len(training.embedded))
	}
}

func TestProcessBatch_ScopeAllResetsFirst(t *testing.T) {
	content := newMemContentQueue()
	training := newMemTrainingQueue()
	worker := NewEmbedder(&scriptedEmbedder{}, content, training, time.Millisecond)

	if _, err := worker.ProcessBatch(context.Background(), ScopeAll, 5); err != nil {
		t.Fatalf("ProcessBatch() error = %v", err)
	}

	if content.resets != 1 || training.resets != 1 {
		t.Errorf("resets content=%d training=%d, want 1 and 1", content.resets, training.resets)
	}
}

func TestProcessBatch_FailureMarksRowAndContinues(t *testing.T) {
	content := newMemContentQueue(
		models.ContentItem{ID: "bad", Title: "Poison", Body: "b"},
		models.ContentItem{ID: "good", Title: "Fine", Body: "b"},
	)
	training := newMemTrainingQueue()
	worker := NewEmbedder(&scriptedEmbedder{failText: "Poison"}, content, training, time.Millisecond)

	result, err := worker.ProcessBatch(context.Background(), ScopeMissing, 10)
	if err != nil {
		t.Fatalf("ProcessBatch() error = %v", err)
	}

	if result.Processed != 1 {
		t.Errorf("Processed = %d, want 1", result.Processed)
	}
	if result.Errors != 1 {
		t.Errorf("Errors = %d, want 1", result.Errors)
	}
	if !content.errored["bad"] {
		t.Error("failed item should be marked errored")
	}
	if _, ok := content.embedded["good"]; !ok {
		t.Error("run should continue past the failed item")
	}
}

func TestProcessBatch_CredentialErrorAbortsRun(t *testing.T) {
	content := newMemContentQueue(
		models.ContentItem{ID: "c1", Title: "One", Body: "b"},
		models.ContentItem{ID: "c2", Title: "Two", Body: "b"},
	)
	training := newMemTrainingQueue()
	embedder := &scriptedEmbedder{err: llm.ErrMissingCredential}
	worker := NewEmbedder(embedder, content, training, time.Millisecond)

	_, err := worker.ProcessBatch(context.Background(), ScopeMissing, 10)
	if !errors.Is(err, llm.ErrMissingCredential) {
		t.Fatalf("ProcessBatch() error = %v, want ErrMissingCredential", err)
	}

	// A configuration problem fails every call the same way; rows must
	// not be burned as errored before the key is fixed.
	if len(content.errored) != 0 {
		t.Errorf("errored rows = %v, want none", content.errored)
	}
	if embedder.calls != 1 {
		t.Errorf("provider called %d times, want 1", embedder.calls)
	}
}

func TestProcessBatch_ContextCancellation(t *testing.T) {
	content := newMemContentQueue(
		models.ContentItem{ID: "c1", Title: "One", Body: "b"},
		models.ContentItem{ID: "c2", Title: "Two", Body: "b"},
	)
	training := newMemTrainingQueue()
	worker := NewEmbedder(&scriptedEmbedder{}, content, training, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := worker.ProcessBatch(ctx, ScopeMissing, 10); err == nil {
		t.Error("cancelled context should abort the run")
	}
}
