// ABOUTME: IntentClassifier scores messages against weighted pattern tables
// ABOUTME: Adds emotion, urgency, entities, and optional embedding-based augmentation
package core

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/harper/sitechat/internal/models"
	"github.com/harper/sitechat/internal/search"
)

// semanticMatchThreshold is the minimum example similarity merged into scores
const semanticMatchThreshold = 0.7

// semanticBoostFactor multiplies an intent already scored by keywords
const semanticBoostFactor = 1.2

// ClassifierConfig tunes the intent classifier
type ClassifierConfig struct {
	// Sensitivity sets the confidence threshold: high=0.4, medium=0.6, low=0.8
	Sensitivity string
	// ProductVocabulary overrides the default product keyword list
	ProductVocabulary []string
	// SemanticTTL bounds how long canonical example embeddings are cached
	SemanticTTL time.Duration
}

// IntentClassifier is stateless per call; pattern tables are static config.
// An optional embedder enables semantic augmentation against canonical
// example phrases.
type IntentClassifier struct {
	patterns []IntentPattern
	cfg      ClassifierConfig
	embedder search.TextEmbedder

	mu             sync.Mutex
	exampleVectors map[string][][]float64 // intent -> example vectors
	examplesExpire time.Time
}

// NewIntentClassifier creates a classifier over the default pattern tables.
// Pass a nil embedder to disable semantic augmentation.
func NewIntentClassifier(embedder search.TextEmbedder, cfg ClassifierConfig) *IntentClassifier {
	if cfg.Sensitivity == "" {
		cfg.Sensitivity = "medium"
	}
	if cfg.SemanticTTL == 0 {
		cfg.SemanticTTL = time.Hour
	}
	return &IntentClassifier{
		patterns: DefaultIntentPatterns,
		cfg:      cfg,
		embedder: embedder,
	}
}

// confidenceThreshold maps sensitivity to the minimum accepted confidence
func (c *IntentClassifier) confidenceThreshold() float64 {
	switch c.cfg.Sensitivity {
	case "high":
		return 0.4
	case "low":
		return 0.8
	default:
		return 0.6
	}
}

// Classify analyzes a message's intent, emotion, urgency, and entities.
// contextStr is free-text conversation context used for score weighting.
func (c *IntentClassifier) Classify(ctx context.Context, message, contextStr string) models.IntentAnalysis {
	lower := strings.ToLower(message)

	rawScores := map[string]float64{}
	for _, pattern := range c.patterns {
		score := c.scorePattern(lower, pattern)
		if score > 0 {
			rawScores[pattern.Name] = score
		}
	}

	c.applyContextBoost(rawScores, contextStr)

	// Normalize to confidences against each intent's maximum possible score
	confidences := map[string]float64{}
	for _, pattern := range c.patterns {
		raw, ok := rawScores[pattern.Name]
		if !ok {
			continue
		}
		maxScore := pattern.MaxScore()
		if maxScore <= 0 {
			continue
		}
		confidence := raw / maxScore
		if confidence > 1.0 {
			confidence = 1.0
		}
		confidences[pattern.Name] = confidence
	}

	if c.embedder != nil {
		c.augmentSemantic(ctx, message, confidences)
	}

	primary, best := topIntent(confidences)
	if primary == "" || best < c.confidenceThreshold() {
		primary = IntentGeneral
		best = GeneralConfidence
	}

	emotion := classifyEmotion(lower)
	urgency := classifyUrgency(message, lower)
	entities := ExtractEntities(message, c.cfg.ProductVocabulary)

	analysis := models.IntentAnalysis{
		PrimaryIntent:    primary,
		Confidence:       best,
		AllIntents:       confidences,
		EmotionalState:   emotion,
		UrgencyLevel:     urgency,
		Entities:         entities,
		SuggestedActions: suggestedActions[primary],
	}
	analysis.RequiresHuman = requiresHuman(analysis)

	return analysis
}

// scorePattern sums matched keyword, phrase, and regex weights
func (c *IntentClassifier) scorePattern(lowerMessage string, pattern IntentPattern) float64 {
	var score float64

	words := map[string]bool{}
	for _, word := range strings.Fields(lowerMessage) {
		words[strings.Trim(word, ".,!?;:\"'()")] = true
	}

	for keyword, weight := range pattern.Keywords {
		if words[keyword] {
			score += weight
		}
	}
	for phrase, weight := range pattern.Phrases {
		if strings.Contains(lowerMessage, phrase) {
			score += weight
		}
	}
	for regex, weight := range pattern.Patterns {
		if regex.MatchString(lowerMessage) {
			score += weight
		}
	}

	return score
}

// applyContextBoost multiplies intent scores hinted at by the context
// string, only for intents that already scored
func (c *IntentClassifier) applyContextBoost(rawScores map[string]float64, contextStr string) {
	if contextStr == "" {
		return
	}
	lower := strings.ToLower(contextStr)
	for substring, intent := range contextBoostTargets {
		if !strings.Contains(lower, substring) {
			continue
		}
		if score, ok := rawScores[intent]; ok && score > 0 {
			rawScores[intent] = score * contextBoostFactor
		}
	}
}

// augmentSemantic merges embedding similarity to canonical examples into
// the confidence map. Failures leave the keyword result untouched.
func (c *IntentClassifier) augmentSemantic(ctx context.Context, message string, confidences map[string]float64) {
	messageVector, err := c.embedder.GetOrCreate(ctx, message)
	if err != nil {
		return
	}

	examples := c.exampleEmbeddings(ctx)
	for intent, vectors := range examples {
		var bestSim float64
		for _, vector := range vectors {
			if sim := search.Cosine(messageVector, vector); sim > bestSim {
				bestSim = sim
			}
		}
		if bestSim <= semanticMatchThreshold {
			continue
		}
		if existing, ok := confidences[intent]; ok && existing > 0 {
			boosted := existing * semanticBoostFactor
			if boosted > 1.0 {
				boosted = 1.0
			}
			confidences[intent] = boosted
		} else {
			confidences[intent] = bestSim
		}
	}
}

// exampleEmbeddings returns cached canonical example vectors, refreshing
// the cache when the TTL has lapsed
func (c *IntentClassifier) exampleEmbeddings(ctx context.Context) map[string][][]float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.exampleVectors != nil && time.Now().Before(c.examplesExpire) {
		return c.exampleVectors
	}

	vectors := map[string][][]float64{}
	for _, pattern := range c.patterns {
		for _, example := range pattern.Examples {
			vector, err := c.embedder.GetOrCreate(ctx, example)
			if err != nil {
				continue
			}
			vectors[pattern.Name] = append(vectors[pattern.Name], vector)
		}
	}

	c.exampleVectors = vectors
	c.examplesExpire = time.Now().Add(c.cfg.SemanticTTL)
	return vectors
}

// topIntent returns the highest-confidence intent, keeping map iteration
// out of the tie-break by sorting names
func topIntent(confidences map[string]float64) (string, float64) {
	names := make([]string, 0, len(confidences))
	for name := range confidences {
		names = append(names, name)
	}
	sort.Strings(names)

	var best string
	var bestScore float64
	for _, name := range names {
		if confidences[name] > bestScore {
			best = name
			bestScore = confidences[name]
		}
	}
	return best, bestScore
}

// classifyEmotion buckets keyword hits and derives dominant tone and intensity
func classifyEmotion(lowerMessage string) models.EmotionalState {
	counts := map[string]int{}
	for bucket, terms := range emotionBuckets {
		for _, term := range terms {
			if strings.Contains(lowerMessage, term) {
				counts[bucket]++
			}
		}
	}

	dominant := "neutral"
	maxCount := 0
	for _, bucket := range []string{"positive", "negative", "neutral", "urgent"} {
		if counts[bucket] > maxCount {
			maxCount = counts[bucket]
			dominant = bucket
		}
	}

	intensity := float64(maxCount) / 3.0
	if intensity > 1.0 {
		intensity = 1.0
	}

	return models.EmotionalState{Dominant: dominant, Intensity: intensity}
}

// classifyUrgency checks keyword indicators first, then falls back to
// punctuation and caps-ratio heuristics
func classifyUrgency(message, lowerMessage string) string {
	for _, indicator := range urgencyIndicators {
		for _, term := range indicator.terms {
			if strings.Contains(lowerMessage, term) {
				return indicator.level
			}
		}
	}

	exclamations := strings.Count(message, "!")

	letters, uppers := 0, 0
	for _, r := range message {
		if unicode.IsLetter(r) {
			letters++
			if unicode.IsUpper(r) {
				uppers++
			}
		}
	}
	capsRatio := 0.0
	if letters > 0 {
		capsRatio = float64(uppers) / float64(letters)
	}

	switch {
	case exclamations > 2 || capsRatio > 0.5:
		return "high"
	case exclamations > 0 || capsRatio > 0.2:
		return "medium"
	default:
		return "low"
	}
}

// requiresHuman applies the escalation rule over the full analysis
func requiresHuman(a models.IntentAnalysis) bool {
	if a.UrgencyLevel == "high" {
		return true
	}
	if a.EmotionalState.Dominant == "negative" && a.EmotionalState.Intensity > 0.7 {
		return true
	}
	if a.AllIntents["complaint"] > 0.7 {
		return true
	}
	if a.AllIntents["support"] > 0.8 && a.UrgencyLevel == "medium" {
		return true
	}
	return false
}
