// ABOUTME: Content models for indexed website pages and posts
// ABOUTME: Defines ContentItem, embedding status lifecycle, and search results
package models

import "time"

// EmbeddingStatus tracks the embedding lifecycle of an item
type EmbeddingStatus string

const (
	EmbeddingPending    EmbeddingStatus = "pending"
	EmbeddingProcessing EmbeddingStatus = "processing"
	EmbeddingCompleted  EmbeddingStatus = "completed"
	EmbeddingError      EmbeddingStatus = "error"
)

// ContentItem represents a piece of indexed site content (page, post, product)
type ContentItem struct {
	ID              string          `json:"id"`
	Title           string          `json:"title"`
	Body            string          `json:"body"`
	URL             string          `json:"url"`
	Embedding       []float64       `json:"embedding,omitempty"`
	EmbeddingStatus EmbeddingStatus `json:"embedding_status"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// ScoredContent is a content item annotated with similarity scores
type ScoredContent struct {
	Item           ContentItem `json:"item"`
	Similarity     float64     `json:"similarity"`
	RelevanceScore float64     `json:"relevance_score"` // 0-100, rounded to 1 decimal
	Excerpt        string      `json:"excerpt,omitempty"`
}
