// ABOUTME: Storage bundles the SQLite-backed stores behind a single handle
// ABOUTME: Owns the database lifecycle for the CLI, server, and MCP entrypoints
package storage

import (
	"github.com/harper/sitechat/internal/storage/sqlite"
)

// Storage aggregates the chatbot's persistent stores
type Storage struct {
	db *sqlite.DB

	Content  *sqlite.ContentStore
	Training *sqlite.TrainingStore
	Turns    *sqlite.TurnStore
}

// Open opens or creates the database at path and wires all stores
func Open(path string) (*Storage, error) {
	db, err := sqlite.Open(path)
	if err != nil {
		return nil, err
	}
	return newStorage(db), nil
}

// OpenDefault opens the database at the XDG default location
func OpenDefault() (*Storage, error) {
	return Open(sqlite.DefaultDBPath())
}

// OpenInMemory creates an in-memory database (for testing)
func OpenInMemory() (*Storage, error) {
	db, err := sqlite.OpenInMemory()
	if err != nil {
		return nil, err
	}
	return newStorage(db), nil
}

func newStorage(db *sqlite.DB) *Storage {
	return &Storage{
		db:       db,
		Content:  sqlite.NewContentStore(db),
		Training: sqlite.NewTrainingStore(db),
		Turns:    sqlite.NewTurnStore(db),
	}
}

// Path returns the database file path
func (s *Storage) Path() string {
	return s.db.Path()
}

// Close closes the underlying database
func (s *Storage) Close() error {
	return s.db.Close()
}
