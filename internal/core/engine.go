// ABOUTME: Engine runs the full message pipeline with an ordered fallback chain
// ABOUTME: Training match, then content search, then provider completion, then generic error
package core

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harper/sitechat/internal/llm"
	"github.com/harper/sitechat/internal/models"
	"github.com/harper/sitechat/internal/search"
)

// GenericErrorResponse is surfaced only when every pipeline stage fails
const GenericErrorResponse = "I'm sorry, I wasn't able to process that just now. Please try again in a moment."

// TrainingMatcher finds the best training answer for a message
type TrainingMatcher interface {
	BestTrainingMatch(ctx context.Context, message string, threshold float64) (*models.TrainingMatch, error)
}

// HistoryTurnLimit caps how many prior turns feed the context
const HistoryTurnLimit = 5

// TurnRecorder persists processed conversation turns and recalls recent
// ones for context assembly
type TurnRecorder interface {
	SaveTurn(ctx context.Context, turn models.ConversationTurn) error
	RecentBySession(ctx context.Context, sessionID string, limit int) ([]models.ConversationTurn, error)
}

// EngineConfig tunes the pipeline
type EngineConfig struct {
	TrainingThreshold float64
	SearchLimit       int
	// RequestTimeout bounds the whole pipeline; 0 disables the deadline
	RequestTimeout time.Duration
}

// Engine wires the classifier, context builder, searcher, provider, and
// reasoner into the end-to-end message flow
type Engine struct {
	classifier *IntentClassifier
	builder    *ContextBuilder
	matcher    TrainingMatcher
	content    ContentSearcher
	chat       llm.ChatProvider
	reasoner   *ResponseReasoner
	turns      TurnRecorder
	cfg        EngineConfig
}

// NewEngine creates an Engine. turns may be nil to skip persistence.
func NewEngine(classifier *IntentClassifier, builder *ContextBuilder, matcher TrainingMatcher, content ContentSearcher, chat llm.ChatProvider, turns TurnRecorder, cfg EngineConfig) *Engine {
	if cfg.SearchLimit <= 0 {
		cfg.SearchLimit = 3
	}
	return &Engine{
		classifier: classifier,
		builder:    builder,
		matcher:    matcher,
		content:    content,
		chat:       chat,
		reasoner:   NewResponseReasoner(),
		turns:      turns,
		cfg:        cfg,
	}
}

// ProcessMessage runs one visitor message through the pipeline and returns
// the final result. Provider and search failures degrade through the
// fallback chain; only when every stage fails does the generic error
// response come back, with the underlying cause logged.
func (e *Engine) ProcessMessage(ctx context.Context, sessionID, message string) (*models.ChatResult, error) {
	if e.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.RequestTimeout)
		defer cancel()
	}

	history := e.sessionHistory(ctx, sessionID)
	analysis := e.classifier.Classify(ctx, message, history)
	promptContext := e.builder.Build(ctx, message, history)

	result := e.answer(ctx, message, promptContext, analysis)
	result.Intent = analysis.PrimaryIntent
	result.RequiresHuman = analysis.RequiresHuman
	result.Suggestions = analysis.SuggestedActions

	e.recordTurn(ctx, sessionID, message, result)

	return result, nil
}

// answer walks the fallback chain and produces the response text
func (e *Engine) answer(ctx context.Context, message, promptContext string, analysis models.IntentAnalysis) *models.ChatResult {
	// 1. Direct training match: curated answers are returned verbatim
	if match, err := e.matcher.BestTrainingMatch(ctx, message, e.cfg.TrainingThreshold); err == nil {
		return &models.ChatResult{
			Response:   match.Answer,
			Confidence: match.Confidence,
			Source:     models.SourceSemanticTraining,
		}
	} else if !errors.Is(err, search.ErrNoMatch) {
		log.Printf("training match failed: %v", err)
	}

	// 2. Content search: semantic with built-in keyword degradation
	if results, err := e.content.SimilarContent(ctx, message, e.cfg.SearchLimit, ""); err == nil && len(results) > 0 {
		top := results[0]
		draft := "Here's what I found on our site about that: " + top.Excerpt + " You can read more at " + top.Item.URL + "."
		return &models.ChatResult{
			Response:   e.reasoner.Refine(draft, message, promptContext),
			Confidence: top.Similarity,
			Source:     models.SourceSemanticContent,
		}
	} else if err != nil {
		log.Printf("content search failed: %v", err)
	}

	// 3. Provider completion over the assembled context
	if draft, err := e.chat.Complete(ctx, promptContext, message); err == nil {
		return &models.ChatResult{
			Response:   e.reasoner.Refine(draft, message, promptContext),
			Confidence: analysis.Confidence,
			Source:     models.SourceProviderEnhanced,
		}
	} else {
		log.Printf("chat completion failed: %v", err)
	}

	// 4. Everything failed
	return &models.ChatResult{
		Response:   GenericErrorResponse,
		Confidence: 0,
		Source:     models.SourceFallbackError,
	}
}

// sessionHistory renders the session's recent turns as User:/AI: lines for
// the classifier's context boost and the context builder's history section.
// Lookup failures degrade to an empty history.
func (e *Engine) sessionHistory(ctx context.Context, sessionID string) string {
	if e.turns == nil || sessionID == "" {
		return ""
	}

	turns, err := e.turns.RecentBySession(ctx, sessionID, HistoryTurnLimit)
	if err != nil {
		log.Printf("loading session history: %v", err)
		return ""
	}

	var sb strings.Builder
	for _, turn := range turns {
		sb.WriteString("User: " + turn.Message + "\n")
		sb.WriteString("AI: " + turn.Response + "\n")
	}
	return strings.TrimSpace(sb.String())
}

// recordTurn persists the exchange; persistence failures never fail the request
func (e *Engine) recordTurn(ctx context.Context, sessionID, message string, result *models.ChatResult) {
	if e.turns == nil {
		return
	}
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	turn := models.ConversationTurn{
		ID:         uuid.New().String(),
		SessionID:  sessionID,
		Message:    message,
		Response:   result.Response,
		Intent:     result.Intent,
		Confidence: result.Confidence,
		Source:     result.Source,
		CreatedAt:  time.Now(),
	}

	if err := e.turns.SaveTurn(ctx, turn); err != nil {
		log.Printf("saving conversation turn: %v", err)
	}
}
