// ABOUTME: Tests for training pair storage operations
// ABOUTME: Verifies CRUD, status toggling, and matching eligibility

package sqlite

import (
	"context"
	"testing"

	"github.com/harper/sitechat/internal/models"
)

func TestTrainingStore_SaveAndGet(t *testing.T) {
	db, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	defer func() { _ = db.Close() }()

	store := NewTrainingStore(db)
	ctx := context.Background()

	pair := models.TrainingPair{
		ID:       "tp_1",
		Question: "What is your refund policy?",
		Answer:   "Full refunds within 30 days.",
		Intent:   "pricing",
	}
	if err := store.Save(ctx, pair); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := store.Get(ctx, "tp_1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got == nil {
		t.Fatal("Get() returned nil")
	}
	if got.Answer != "Full refunds within 30 days." {
		t.Errorf("Answer = %q", got.Answer)
	}
	if got.Status != models.TrainingActive {
		t.Errorf("Status = %s, want active by default", got.Status)
	}
	if got.EmbeddingStatus != models.EmbeddingPending {
		t.Errorf("EmbeddingStatus = %s, want pending", got.EmbeddingStatus)
	}
}

func TestTrainingStore_ListActiveEmbedded(t *testing.T) {
	db, _ := OpenInMemory()
	defer func() { _ = db.Close() }()

	store := NewTrainingStore(db)
	ctx := context.Background()

	_ = store.Save(ctx, models.TrainingPair{ID: "ready", Question: "q1", Answer: "a1"})
	_ = store.Save(ctx, models.TrainingPair{ID: "pending", Question: "q2", Answer: "a2"})
	_ = store.Save(ctx, models.TrainingPair{ID: "disabled", Question: "q3", Answer: "a3"})

	_ = store.SetEmbedding(ctx, "ready", []float64{1, 0})
	_ = store.SetEmbedding(ctx, "disabled", []float64{0, 1})
	if err := store.SetStatus(ctx, "disabled", models.TrainingInactive); err != nil {
		t.Fatalf("SetStatus() error = %v", err)
	}

	pairs, err := store.ListActiveEmbedded(ctx)
	if err != nil {
		t.Fatalf("ListActiveEmbedded() error = %v", err)
	}
	if len(pairs) != 1 {
		t.Fatalf("ListActiveEmbedded() returned %d pairs, want 1", len(pairs))
	}
	if pairs[0].ID != "ready" {
		t.Errorf("pair = %s, want ready", pairs[0].ID)
	}
	if len(pairs[0].QuestionEmbedding) != 2 {
		t.Errorf("QuestionEmbedding = %v, want 2 dims", pairs[0].QuestionEmbedding)
	}
}

func TestTrainingStore_UpdateResetsEmbedding(t *testing.T) {
	db, _ := OpenInMemory()
	defer func() { _ = db.Close() }()

	store := NewTrainingStore(db)
	ctx := context.Background()

	pair := models.TrainingPair{ID: "tp_1", Question: "Old question?", Answer: "a"}
	_ = store.Save(ctx, pair)
	_ = store.SetEmbedding(ctx, "tp_1", []float64{1, 0})

	pair.Question = "New question?"
	if err := store.Save(ctx, pair); err != nil {
		t.Fatalf("Save() update error = %v", err)
	}

	got, _ := store.Get(ctx, "tp_1")
	if got.EmbeddingStatus != models.EmbeddingPending {
		t.Errorf("EmbeddingStatus = %s, want pending after question change", got.EmbeddingStatus)
	}
	if got.QuestionEmbedding != nil {
		t.Errorf("QuestionEmbedding = %v, want cleared", got.QuestionEmbedding)
	}
}

func TestTrainingStore_ClaimPending(t *testing.T) {
	db, _ := OpenInMemory()
	defer func() { _ = db.Close() }()

	store := NewTrainingStore(db)
	ctx := context.Background()

	_ = store.Save(ctx, models.TrainingPair{ID: "a", Question: "qa", Answer: "aa"})
	_ = store.Save(ctx, models.TrainingPair{ID: "b", Question: "qb", Answer: "ab"})

	claimed, err := store.ClaimPending(ctx, 10)
	if err != nil {
		t.Fatalf("ClaimPending() error = %v", err)
	}
	if len(claimed) != 2 {
		t.Fatalf("claimed %d pairs, want 2", len(claimed))
	}

	again, _ := store.ClaimPending(ctx, 10)
	if len(again) != 0 {
		t.Errorf("second claim returned %d pairs, want 0", len(again))
	}

	remaining, _ := store.CountPending(ctx)
	if remaining != 0 {
		t.Errorf("CountPending() = %d, want 0", remaining)
	}
}

func TestTrainingStore_Delete(t *testing.T) {
	db, _ := OpenInMemory()
	defer func() { _ = db.Close() }()

	store := NewTrainingStore(db)
	ctx := context.Background()

	_ = store.Save(ctx, models.TrainingPair{ID: "tp_1", Question: "q", Answer: "a"})
	if err := store.Delete(ctx, "tp_1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	got, _ := store.Get(ctx, "tp_1")
	if got != nil {
		t.Errorf("Get() after delete = %+v, want nil", got)
	}
}
