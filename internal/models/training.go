// ABOUTME: Training data models for admin-curated Q&A pairs
// ABOUTME: Defines TrainingPair and the semantic match result returned to the pipeline
package models

import "time"

// TrainingStatus marks whether a pair participates in matching
type TrainingStatus string

const (
	TrainingActive   TrainingStatus = "active"
	TrainingInactive TrainingStatus = "inactive"
)

// TrainingPair is an admin-curated question/answer pair
type TrainingPair struct {
	ID                string          `json:"id"`
	Question          string          `json:"question"`
	Answer            string          `json:"answer"`
	Intent            string          `json:"intent,omitempty"`
	QuestionEmbedding []float64       `json:"question_embedding,omitempty"`
	EmbeddingStatus   EmbeddingStatus `json:"embedding_status"`
	Status            TrainingStatus  `json:"status"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// TrainingMatch is the best semantic match from the training corpus
type TrainingMatch struct {
	Pair        TrainingPair `json:"pair"`
	Answer      string       `json:"answer"`
	Confidence  float64      `json:"confidence"`
	Explanation string       `json:"explanation"`
}
