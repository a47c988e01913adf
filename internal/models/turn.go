// ABOUTME: Conversation turn models for chat history persistence
// ABOUTME: Records message, response, intent, confidence, and which stage answered
package models

import "time"

// ResponseSource identifies which pipeline stage produced a response
type ResponseSource string

const (
	SourceSemanticTraining   ResponseSource = "semantic_training"
	SourceSemanticContent    ResponseSource = "semantic_content"
	SourceProviderEnhanced   ResponseSource = "ai_provider_enhanced"
	SourceFallbackError      ResponseSource = "fallback_error"
)

// ConversationTurn is one message/response exchange within a session
type ConversationTurn struct {
	ID         string         `json:"id"`
	SessionID  string         `json:"session_id"`
	Message    string         `json:"message"`
	Response   string         `json:"response"`
	Intent     string         `json:"intent"`
	Confidence float64        `json:"confidence"`
	Source     ResponseSource `json:"source"`
	CreatedAt  time.Time      `json:"created_at"`
}

// ChatResult is the final output of the message pipeline
type ChatResult struct {
	Response      string         `json:"response"`
	Intent        string         `json:"intent"`
	Confidence    float64        `json:"confidence"`
	Source        ResponseSource `json:"source"`
	RequiresHuman bool           `json:"requires_human"`
	Suggestions   []string       `json:"suggestions,omitempty"`
}
