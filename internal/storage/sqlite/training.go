// ABOUTME: Training pair storage operations for SQLite
// ABOUTME: Persists curated Q&A pairs and their question embeddings
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/harper/sitechat/internal/models"
)

// TrainingStore handles training pair persistence
type TrainingStore struct {
	db *DB
}

// NewTrainingStore creates a new TrainingStore
func NewTrainingStore(db *DB) *TrainingStore {
	return &TrainingStore{db: db}
}

// Save inserts or updates a training pair. Changing the question resets
// the embedding lifecycle.
func (s *TrainingStore) Save(ctx context.Context, pair models.TrainingPair) error {
	embeddingStatus := pair.EmbeddingStatus
	if embeddingStatus == "" {
		embeddingStatus = models.EmbeddingPending
	}
	status := pair.Status
	if status == "" {
		status = models.TrainingActive
	}

	_, err := s.db.conn.ExecContext(ctx, `
		INSERT INTO training_pairs (id, question, answer, intent, question_embedding, embedding_status, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			question = excluded.question,
			answer = excluded.answer,
			intent = excluded.intent,
			question_embedding = NULL,
			embedding_status = 'pending',
			status = excluded.status,
			updated_at = excluded.updated_at
	`, pair.ID, pair.Question, pair.Answer, pair.Intent, vectorToBlob(pair.QuestionEmbedding),
		string(embeddingStatus), string(status), time.Now(), time.Now())

	return err
}

// Get retrieves a training pair by ID, returning nil when absent
func (s *TrainingStore) Get(ctx context.Context, id string) (*models.TrainingPair, error) {
	row := s.db.conn.QueryRowContext(ctx, `
		SELECT id, question, answer, intent, question_embedding, embedding_status, status, created_at, updated_at
		FROM training_pairs
		WHERE id = ?
	`, id)

	pair, err := scanTrainingPair(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return pair, nil
}

// ListAll returns every training pair
func (s *TrainingStore) ListAll(ctx context.Context) ([]models.TrainingPair, error) {
	return s.list(ctx, `
		SELECT id, question, answer, intent, question_embedding, embedding_status, status, created_at, updated_at
		FROM training_pairs
		ORDER BY updated_at DESC
	`)
}

// ListActiveEmbedded returns active pairs ready for semantic matching
func (s *TrainingStore) ListActiveEmbedded(ctx context.Context) ([]models.TrainingPair, error) {
	return s.list(ctx, `
		SELECT id, question, answer, intent, question_embedding, embedding_status, status, created_at, updated_at
		FROM training_pairs
		WHERE status = 'active' AND embedding_status = 'completed' AND question_embedding IS NOT NULL
		ORDER BY updated_at DESC
	`)
}

// ClaimPending atomically moves up to limit pending pairs into processing
// and returns them
func (s *TrainingStore) ClaimPending(ctx context.Context, limit int) ([]models.TrainingPair, error) {
	candidates, err := s.list(ctx, `
		SELECT id, question, answer, intent, question_embedding, embedding_status, status, created_at, updated_at
		FROM training_pairs
		WHERE embedding_status = 'pending'
		ORDER BY updated_at ASC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}

	var claimed []models.TrainingPair
	for _, pair := range candidates {
		result, err := s.db.conn.ExecContext(ctx, `
			UPDATE training_pairs
			SET embedding_status = 'processing', updated_at = ?
			WHERE id = ? AND embedding_status = 'pending'
		`, time.Now(), pair.ID)
		if err != nil {
			return nil, err
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return nil, err
		}
		if affected == 0 {
			continue
		}
		pair.EmbeddingStatus = models.EmbeddingProcessing
		claimed = append(claimed, pair)
	}

	return claimed, nil
}

// SetEmbedding stores the question vector and completes the lifecycle
func (s *TrainingStore) SetEmbedding(ctx context.Context, id string, vector []float64) error {
	if len(vector) == 0 {
		return fmt.Errorf("empty embedding for training pair %s", id)
	}
	_, err := s.db.conn.ExecContext(ctx, `
		UPDATE training_pairs
		SET question_embedding = ?, embedding_status = 'completed', updated_at = ?
		WHERE id = ?
	`, vectorToBlob(vector), time.Now(), id)
	return err
}

// MarkError flags a failed embedding attempt
func (s *TrainingStore) MarkError(ctx context.Context, id string) error {
	_, err := s.db.conn.ExecContext(ctx, `
		UPDATE training_pairs
		SET embedding_status = 'error', updated_at = ?
		WHERE id = ?
	`, time.Now(), id)
	return err
}

// ResetAllEmbeddings clears every question vector and restarts the lifecycle
func (s *TrainingStore) ResetAllEmbeddings(ctx context.Context) error {
	_, err := s.db.conn.ExecContext(ctx, `
		UPDATE training_pairs
		SET question_embedding = NULL, embedding_status = 'pending', updated_at = ?
	`, time.Now())
	return err
}

// CountPending returns how many pairs still await embedding
func (s *TrainingStore) CountPending(ctx context.Context) (int, error) {
	var count int
	err := s.db.conn.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM training_pairs WHERE embedding_status = 'pending'
	`).Scan(&count)
	return count, err
}

// SetStatus toggles a pair between active and inactive
func (s *TrainingStore) SetStatus(ctx context.Context, id string, status models.TrainingStatus) error {
	_, err := s.db.conn.ExecContext(ctx, `
		UPDATE training_pairs
		SET status = ?, updated_at = ?
		WHERE id = ?
	`, string(status), time.Now(), id)
	return err
}

// Delete removes a training pair
func (s *TrainingStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.conn.ExecContext(ctx, "DELETE FROM training_pairs WHERE id = ?", id)
	return err
}

func (s *TrainingStore) list(ctx context.Context, query string, args ...interface{}) ([]models.TrainingPair, error) {
	rows, err := s.db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var pairs []models.TrainingPair
	for rows.Next() {
		var (
			pair            models.TrainingPair
			intent          sql.NullString
			blob            []byte
			embeddingStatus string
			status          string
		)
		if err := rows.Scan(&pair.ID, &pair.Question, &pair.Answer, &intent, &blob,
			&embeddingStatus, &status, &pair.CreatedAt, &pair.UpdatedAt); err != nil {
			return nil, err
		}
		if intent.Valid {
			pair.Intent = intent.String
		}
		pair.QuestionEmbedding = blobToVector(blob)
		pair.EmbeddingStatus = models.EmbeddingStatus(embeddingStatus)
		pair.Status = models.TrainingStatus(status)
		pairs = append(pairs, pair)
	}

	return pairs, rows.Err()
}

// scanTrainingPair scans a single row into a training pair
func scanTrainingPair(row *sql.Row) (*models.TrainingPair, error) {
	var (
		pair            models.TrainingPair
		intent          sql.NullString
		blob            []byte
		embeddingStatus string
		status          string
	)
	if err := row.Scan(&pair.ID, &pair.Question, &pair.Answer, &intent, &blob,
		&embeddingStatus, &status, &pair.CreatedAt, &pair.UpdatedAt); err != nil {
		return nil, err
	}
	if intent.Valid {
		pair.Intent = intent.String
	}
	pair.QuestionEmbedding = blobToVector(blob)
	pair.EmbeddingStatus = models.EmbeddingStatus(embeddingStatus)
	pair.Status = models.TrainingStatus(status)
	return &pair, nil
}
