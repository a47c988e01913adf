// ABOUTME: Conversation turn storage operations for SQLite
// ABOUTME: Persists processed exchanges keyed by visitor session
package sqlite

import (
	"context"
	"database/sql"

	"github.com/harper/sitechat/internal/models"
)

// TurnStore handles conversation turn persistence
type TurnStore struct {
	db *DB
}

// NewTurnStore creates a new TurnStore
func NewTurnStore(db *DB) *TurnStore {
	return &TurnStore{db: db}
}

// SaveTurn saves a processed exchange
func (s *TurnStore) SaveTurn(ctx context.Context, turn models.ConversationTurn) error {
	_, err := s.db.conn.ExecContext(ctx, `
		INSERT INTO conversation_turns (id, session_id, message, response, intent, confidence, source, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			response = excluded.response,
			intent = excluded.intent,
			confidence = excluded.confidence,
			source = excluded.source
	`, turn.ID, turn.SessionID, turn.Message, turn.Response, turn.Intent,
		turn.Confidence, string(turn.Source), turn.CreatedAt)

	return err
}

// ListBySession retrieves all turns for a session, oldest first
func (s *TurnStore) ListBySession(ctx context.Context, sessionID string) ([]models.ConversationTurn, error) {
	return s.list(ctx, `
		SELECT id, session_id, message, response, intent, confidence, source, created_at
		FROM conversation_turns
		WHERE session_id = ?
		ORDER BY created_at ASC
	`, sessionID)
}

// RecentBySession retrieves the latest limit turns for a session, oldest
// of the window first
func (s *TurnStore) RecentBySession(ctx context.Context, sessionID string, limit int) ([]models.ConversationTurn, error) {
	turns, err := s.list(ctx, `
		SELECT id, session_id, message, response, intent, confidence, source, created_at
		FROM conversation_turns
		WHERE session_id = ?
		ORDER BY created_at DESC
		LIMIT ?
	`, sessionID, limit)
	if err != nil {
		return nil, err
	}

	// Reverse into chronological order
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}
	return turns, nil
}

// DeleteSession removes every turn for a session
func (s *TurnStore) DeleteSession(ctx context.Context, sessionID string) error {
	_, err := s.db.conn.ExecContext(ctx, "DELETE FROM conversation_turns WHERE session_id = ?", sessionID)
	return err
}

func (s *TurnStore) list(ctx context.Context, query string, args ...interface{}) ([]models.ConversationTurn, error) {
	rows, err := s.db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var turns []models.ConversationTurn
	for rows.Next() {
		var (
			turn   models.ConversationTurn
			intent sql.NullString
			source sql.NullString
		)
		if err := rows.Scan(&turn.ID, &turn.SessionID, &turn.Message, &turn.Response,
			&intent, &turn.Confidence, &source, &turn.CreatedAt); err != nil {
			return nil, err
		}
		if intent.Valid {
			turn.Intent = intent.String
		}
		if source.Valid {
			turn.Source = models.ResponseSource(source.String)
		}
		turns = append(turns, turn)
	}

	return turns, rows.Err()
}
