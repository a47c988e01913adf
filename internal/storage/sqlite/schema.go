// ABOUTME: SQLite schema for chatbot storage
// ABOUTME: Creates content, training, and conversation tables with indexes
package sqlite

// Schema contains all SQL statements for database initialization
const Schema = `
-- Indexed site content (pages, posts, products)
CREATE TABLE IF NOT EXISTS content_items (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    body TEXT NOT NULL,
    url TEXT,
    embedding BLOB,
    embedding_status TEXT NOT NULL DEFAULT 'pending',
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Admin-curated question/answer pairs
CREATE TABLE IF NOT EXISTS training_pairs (
    id TEXT PRIMARY KEY,
    question TEXT NOT NULL,
    answer TEXT NOT NULL,
    intent TEXT,
    question_embedding BLOB,
    embedding_status TEXT NOT NULL DEFAULT 'pending',
    status TEXT NOT NULL DEFAULT 'active',
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Processed visitor exchanges
CREATE TABLE IF NOT EXISTS conversation_turns (
    id TEXT PRIMARY KEY,
    session_id TEXT NOT NULL,
    message TEXT NOT NULL,
    response TEXT NOT NULL,
    intent TEXT,
    confidence REAL DEFAULT 0,
    source TEXT,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Indexes for efficient querying
CREATE INDEX IF NOT EXISTS idx_content_status ON content_items(embedding_status);
CREATE INDEX IF NOT EXISTS idx_training_status ON training_pairs(status, embedding_status);
CREATE INDEX IF NOT EXISTS idx_turns_session ON conversation_turns(session_id, created_at);
`

// SchemaVersion is the current schema version for migrations
const SchemaVersion = 1
