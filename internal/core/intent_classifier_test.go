// ABOUTME: Tests for intent scoring, emotion, urgency, entities, and escalation
// ABOUTME: Includes the semantic augmentation path with a stub embedder
package core

import (
	"context"
	"errors"
	"testing"
)

// vectorEmbedder maps texts to vectors for semantic augmentation tests
type vectorEmbedder struct {
	vectors map[string][]float64
	fail    bool
}

func (e *vectorEmbedder) GetOrCreate(_ context.Context, text string) ([]float64, error) {
	if e.fail {
		return nil, errors.New("provider down")
	}
	if v, ok := e.vectors[text]; ok {
		return v, nil
	}
	return []float64{0, 0, 1}, nil
}

func newTestClassifier(sensitivity string) *IntentClassifier {
	return NewIntentClassifier(nil, ClassifierConfig{Sensitivity: sensitivity})
}

func TestClassify_PricingIntent(t *testing.T) {
	c := newTestClassifier("medium")

	analysis := c.Classify(context.Background(), "How much does this cost?", "")

	if analysis.PrimaryIntent != "pricing" {
		t.Errorf("intent = %s, want pricing", analysis.PrimaryIntent)
	}
	if analysis.Confidence < 0.6 {
		t.Errorf("confidence = %f, want >= 0.6", analysis.Confidence)
	}
	if analysis.RequiresHuman {
		t.Error("pricing question should not require a human")
	}
}

func TestClassify_EmptyMessageDefaultsToGeneral(t *testing.T) {
	c := newTestClassifier("medium")

	for _, message := range []string{"", "zzz qqq xyzzy", "lorem ipsum dolor"} {
		analysis := c.Classify(context.Background(), message, "")
		if analysis.PrimaryIntent != IntentGeneral {
			t.Errorf("Classify(%q) intent = %s, want general", message, analysis.PrimaryIntent)
		}
		if analysis.Confidence != GeneralConfidence {
			t.Errorf("Classify(%q) confidence = %f, want 0.5", message, analysis.Confidence)
		}
	}
}

func TestClassify_UrgencyFromExclamations(t *testing.T) {
	c := newTestClassifier("medium")

	analysis := c.Classify(context.Background(), "Help!!! I need this now!!!", "")

	if analysis.UrgencyLevel != "high" {
		t.Errorf("urgency = %s, want high", analysis.UrgencyLevel)
	}
	if !analysis.RequiresHuman {
		t.Error("high urgency must set requires_human")
	}
}

func TestClassify_UrgencyLevels(t *testing.T) {
	tests := []struct {
		message string
		want    string
	}{
		{"I need this urgent please", "high"},
		{"PLEASE LOOK AT THIS", "high"},
		{"can you get back to me today", "medium"},
		{"just wondering about your plans", "low"},
		{"one thing!", "medium"},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			if got := classifyUrgency(tt.message, lowerOf(tt.message)); got != tt.want {
				t.Errorf("urgency(%q) = %s, want %s", tt.message, got, tt.want)
			}
		})
	}
}

func TestClassify_FrustratedMessage(t *testing.T) {
	c := newTestClassifier("medium")

	analysis := c.Classify(context.Background(), "This is broken and I'm really frustrated!!!", "")

	if analysis.UrgencyLevel != "high" {
		t.Errorf("urgency = %s, want high", analysis.UrgencyLevel)
	}
	if analysis.EmotionalState.Dominant != "negative" {
		t.Errorf("dominant emotion = %s, want negative", analysis.EmotionalState.Dominant)
	}
	if !analysis.RequiresHuman {
		t.Error("frustrated high-urgency message must require a human")
	}
}

func TestClassify_ContextBoost(t *testing.T) {
	c := newTestClassifier("high")

	plain := c.Classify(context.Background(), "what does the premium cost", "")
	boosted := c.Classify(context.Background(), "what does the premium cost", "visitor came from the pricing page")

	if boosted.AllIntents["pricing"] <= plain.AllIntents["pricing"] {
		t.Errorf("context boost missing: plain=%f boosted=%f",
			plain.AllIntents["pricing"], boosted.AllIntents["pricing"])
	}
}

func TestClassify_SensitivityThresholds(t *testing.T) {
	// "hello" alone scores 1.9/3.7 ~ 0.51 for greeting: above the high
	// threshold (0.4), below medium (0.6)
	high := newTestClassifier("high").Classify(context.Background(), "hello", "")
	if high.PrimaryIntent != "greeting" {
		t.Errorf("high sensitivity intent = %s, want greeting", high.PrimaryIntent)
	}

	medium := newTestClassifier("medium").Classify(context.Background(), "hello", "")
	if medium.PrimaryIntent != IntentGeneral {
		t.Errorf("medium sensitivity intent = %s, want general", medium.PrimaryIntent)
	}
}

func TestClassify_SemanticAugmentation(t *testing.T) {
	// The message embeds near the contact examples even though no contact
	// keyword appears in the text.
	embedder := &vectorEmbedder{vectors: map[string][]float64{
		"is there a way to get in touch": {1, 0, 0},
		"how can I contact your team":    {0.99, 0.1, 0},
		"I want to talk to a person":     {0.9, 0.2, 0},
		"what is your phone number":      {0.8, 0.3, 0},
	}}

	c := NewIntentClassifier(embedder, ClassifierConfig{Sensitivity: "medium"})

	analysis := c.Classify(context.Background(), "is there a way to get in touch", "")

	if analysis.AllIntents["contact"] <= semanticMatchThreshold {
		t.Errorf("contact score = %f, want > %f from semantic match",
			analysis.AllIntents["contact"], semanticMatchThreshold)
	}
}

func TestClassify_SemanticFailureKeepsKeywordResult(t *testing.T) {
	c := NewIntentClassifier(&vectorEmbedder{fail: true}, ClassifierConfig{Sensitivity: "medium"})

	analysis := c.Classify(context.Background(), "How much does this cost?", "")

	if analysis.PrimaryIntent != "pricing" {
		t.Errorf("intent = %s, want pricing despite embedder failure", analysis.PrimaryIntent)
	}
}

func TestExtractEntities(t *testing.T) {
	message := "My name is Alice Smith, email me at alice@example.com or call 555-123-4567 " +
		"before Friday, see https://example.com/docs about the premium plan"

	entities := ExtractEntities(message, nil)

	if len(entities.Emails) != 1 || entities.Emails[0] != "alice@example.com" {
		t.Errorf("emails = %v, want [alice@example.com]", entities.Emails)
	}
	if len(entities.Phones) != 1 || entities.Phones[0] != "555-123-4567" {
		t.Errorf("phones = %v, want [555-123-4567]", entities.Phones)
	}
	if len(entities.URLs) != 1 {
		t.Errorf("urls = %v, want one url", entities.URLs)
	}
	foundFriday := false
	for _, d := range entities.Dates {
		if d == "Friday" {
			foundFriday = true
		}
	}
	if !foundFriday {
		t.Errorf("dates = %v, want Friday", entities.Dates)
	}
	foundAlice := false
	for _, n := range entities.Names {
		if n == "Alice Smith" {
			foundAlice = true
		}
	}
	if !foundAlice {
		t.Errorf("names = %v, want Alice Smith", entities.Names)
	}
	foundProducts := map[string]bool{}
	for _, p := range entities.Products {
		foundProducts[p] = true
	}
	if !foundProducts["premium"] || !foundProducts["plan"] {
		t.Errorf("products = %v, want premium and plan", entities.Products)
	}
}

func TestExtractEntities_PhoneFormats(t *testing.T) {
	tests := []struct {
		message string
		want    string
	}{
		{"call (555) 123-4567", "(555) 123-4567"},
		{"call 555-123-4567", "555-123-4567"},
		{"call 555.123.4567", "555.123.4567"},
		{"call +44 7911123456", "+44 7911123456"},
	}

	for _, tt := range tests {
		entities := ExtractEntities(tt.message, nil)
		if len(entities.Phones) != 1 || entities.Phones[0] != tt.want {
			t.Errorf("ExtractEntities(%q).Phones = %v, want [%s]", tt.message, entities.Phones, tt.want)
		}
	}
}

func lowerOf(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r >= 'A' && r <= 'Z' {
			r += 'a' - 'A'
		}
		out = append(out, r)
	}
	return string(out)
}
