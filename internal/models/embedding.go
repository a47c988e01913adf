// ABOUTME: Embedding record model for the content-addressed cache
// ABOUTME: Maps a normalized-text hash to its vector and creation time
package models

import "time"

// EmbeddingRecord is a cached embedding keyed by the hash of its source text
type EmbeddingRecord struct {
	TextHash  string    `json:"text_hash"`
	Vector    []float64 `json:"vector"`
	CreatedAt time.Time `json:"created_at"`
}
