// ABOUTME: Intent analysis models produced by the classifier
// ABOUTME: Covers intent scores, emotional state, urgency, and extracted entities
package models

// EmotionalState summarizes the emotional tone of a message
type EmotionalState struct {
	Dominant  string  `json:"dominant"` // positive, negative, neutral, urgent
	Intensity float64 `json:"intensity"`
}

// Entities holds structured data extracted from a message
type Entities struct {
	Emails   []string `json:"emails,omitempty"`
	Phones   []string `json:"phones,omitempty"`
	URLs     []string `json:"urls,omitempty"`
	Dates    []string `json:"dates,omitempty"`
	Names    []string `json:"names,omitempty"`
	Products []string `json:"products,omitempty"`
}

// IntentAnalysis is the full classification result for one message
type IntentAnalysis struct {
	PrimaryIntent    string             `json:"primary_intent"`
	Confidence       float64            `json:"confidence"`
	AllIntents       map[string]float64 `json:"all_intents"`
	EmotionalState   EmotionalState     `json:"emotional_state"`
	UrgencyLevel     string             `json:"urgency_level"` // high, medium, low
	Entities         Entities           `json:"entities"`
	RequiresHuman    bool               `json:"requires_human"`
	SuggestedActions []string           `json:"suggested_actions,omitempty"`
}
