// ABOUTME: Content item storage operations for SQLite
// ABOUTME: Implements CRUD plus the pending/processing embedding claim cycle
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/harper/sitechat/internal/models"
)

// ContentStore handles content item persistence
type ContentStore struct {
	db *DB
}

// NewContentStore creates a new ContentStore
func NewContentStore(db *DB) *ContentStore {
	return &ContentStore{db: db}
}

// Save inserts or updates a content item. Updating the text resets the
// embedding lifecycle so the item is re-embedded on the next batch run.
func (s *ContentStore) Save(ctx context.Context, item models.ContentItem) error {
	status := item.EmbeddingStatus
	if status == "" {
		status = models.EmbeddingPending
	}

	_, err := s.db.conn.ExecContext(ctx, `
		INSERT INTO content_items (id, title, body, url, embedding, embedding_status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			body = excluded.body,
			url = excluded.url,
			embedding = NULL,
			embedding_status = 'pending',
			updated_at = excluded.updated_at
	`, item.ID, item.Title, item.Body, item.URL, vectorToBlob(item.Embedding),
		string(status), time.Now(), time.Now())

	return err
}

// Get retrieves a content item by ID, returning nil when absent
func (s *ContentStore) Get(ctx context.Context, id string) (*models.ContentItem, error) {
	row := s.db.conn.QueryRowContext(ctx, `
		SELECT id, title, body, url, embedding, embedding_status, created_at, updated_at
		FROM content_items
		WHERE id = ?
	`, id)

	item, err := scanContentItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

// ListEmbedded returns items whose embedding lifecycle has completed
func (s *ContentStore) ListEmbedded(ctx context.Context) ([]models.ContentItem, error) {
	return s.list(ctx, `
		SELECT id, title, body, url, embedding, embedding_status, created_at, updated_at
		FROM content_items
		WHERE embedding_status = 'completed' AND embedding IS NOT NULL
		ORDER BY updated_at DESC
	`)
}

// ListAll returns every item regardless of embedding status
func (s *ContentStore) ListAll(ctx context.Context) ([]models.ContentItem, error) {
	return s.list(ctx, `
		SELECT id, title, body, url, embedding, embedding_status, created_at, updated_at
		FROM content_items
		ORDER BY updated_at DESC
	`)
}

// ClaimPending atomically moves up to limit pending items into processing
// and returns them. Items already claimed by another worker are skipped.
func (s *ContentStore) ClaimPending(ctx context.Context, limit int) ([]models.ContentItem, error) {
	candidates, err := s.list(ctx, `
		SELECT id, title, body, url, embedding, embedding_status, created_at, updated_at
		FROM content_items
		WHERE embedding_status = 'pending'
		ORDER BY updated_at ASC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}

	var claimed []models.ContentItem
	for _, item := range candidates {
		result, err := s.db.conn.ExecContext(ctx, `
			UPDATE content_items
			SET embedding_status = 'processing', updated_at = ?
			WHERE id = ? AND embedding_status = 'pending'
		`, time.Now(), item.ID)
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
		item.EmbeddingStatus = models.EmbeddingProcessing
		claimed = append(claimed, item)
	}

	return claimed, nil
}

// SetEmbedding stores the vector and completes the item's lifecycle
func (s *ContentStore) SetEmbedding(ctx context.Context, id string, vector []float64) error {
	if len(vector) == 0 {
		return fmt.Errorf("empty embedding for content item %s", id)
	}
	_, err := s.db.conn.ExecContext(ctx, `
		UPDATE content_items
		SET embedding = ?, embedding_status = 'completed', updated_at = ?
		WHERE id = ?
	`, vectorToBlob(vector), time.Now(), id)
	return err
}

// MarkError flags a failed embedding attempt
func (s *ContentStore) MarkError(ctx context.Context, id string) error {
	_, err := s.db.conn.ExecContext(ctx, `
		UPDATE content_items
		SET embedding_status = 'error', updated_at = ?
		WHERE id = ?
	`, time.Now(), id)
	return err
}

// ResetAllEmbeddings clears every vector and restarts the lifecycle
func (s *ContentStore) ResetAllEmbeddings(ctx context.Context) error {
	_, err := s.db.conn.ExecContext(ctx, `
		UPDATE content_items
		SET embedding = NULL, embedding_status = 'pending', updated_at = ?
	`, time.Now())
	return err
}

// CountPending returns how many items still await embedding
func (s *ContentStore) CountPending(ctx context.Context) (int, error) {
	var count int
	err := s.db.conn.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM content_items WHERE embedding_status = 'pending'
	`).Scan(&count)
	return count, err
}

// Delete removes a content item
func (s *ContentStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.conn.ExecContext(ctx, "DELETE FROM content_items WHERE id = ?", id)
	return err
}

func (s *ContentStore) list(ctx context.Context, query string, args ...interface{}) ([]models.ContentItem, error) {
	rows, err := s.db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []models.ContentItem
	for rows.Next() {
		var (
			item   models.ContentItem
			url    sql.NullString
			blob   []byte
			status string
		)
		if err := rows.Scan(&item.ID, &item.Title, &item.Body, &url, &blob,
			&status, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, err
		}
		if url.Valid {
			item.URL = url.String
		}
		item.Embedding = blobToVector(blob)
		item.EmbeddingStatus = models.EmbeddingStatus(status)
		items = append(items, item)
	}

	return items, rows.Err()
}

// scanContentItem scans a single row into a content item
func scanContentItem(row *sql.Row) (*models.ContentItem, error) {
	var (
		item   models.ContentItem
		url    sql.NullString
		blob   []byte
		status string
	)
	if err := row.Scan(&item.ID, &item.Title, &item.Body, &url, &blob,
		&status, &item.CreatedAt, &item.UpdatedAt); err != nil {
		return nil, err
	}
	if url.Valid {
		item.URL = url.String
	}
	item.Embedding = blobToVector(blob)
	item.EmbeddingStatus = models.EmbeddingStatus(status)
	return &item, nil
}
