// ABOUTME: End-to-end tests for the message pipeline and its fallback chain
// ABOUTME: Uses in-memory fakes for training, content, provider, and persistence
package core

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/harper/sitechat/internal/models"
	"github.com/harper/sitechat/internal/search"
)

type stubMatcher struct {
	match *models.TrainingMatch
	err   error
}

func (m *stubMatcher) BestTrainingMatch(context.Context, string, float64) (*models.TrainingMatch, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.match, nil
}

type stubContent struct {
	results []models.ScoredContent
	err     error
}

func (c *stubContent) SimilarContent(context.Context, string, int, string) ([]models.ScoredContent, error) {
	return c.results, c.err
}

type stubChat struct {
	reply      string
	err        error
	gotContext string
}

func (c *stubChat) Complete(_ context.Context, promptContext, _ string) (string, error) {
	c.gotContext = promptContext
	return c.reply, c.err
}

type memRecorder struct {
	turns []models.ConversationTurn
	err   error
}

func (r *memRecorder) SaveTurn(_ context.Context, turn models.ConversationTurn) error {
	r.turns = append(r.turns, turn)
	return r.err
}

func (r *memRecorder) RecentBySession(_ context.Context, sessionID string, limit int) ([]models.ConversationTurn, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []models.ConversationTurn
	for _, turn := range r.turns {
		if turn.SessionID == sessionID {
			out = append(out, turn)
		}
	}
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func newTestEngine(matcher TrainingMatcher, content ContentSearcher, chat *stubChat, turns TurnRecorder) *Engine {
	classifier := NewIntentClassifier(nil, ClassifierConfig{Sensitivity: "medium"})
	builder := NewContextBuilder(content, BuilderConfig{
		SiteName: "Acme Store",
		SiteURL:  "https://acme.example",
	})
	return NewEngine(classifier, builder, matcher, content, chat, turns, EngineConfig{TrainingThreshold: 0.75})
}

func TestProcessMessage_TrainingMatchReturnedVerbatim(t *testing.T) {
	answer := "Our refund policy allows returns within 30 days."
	matcher := &stubMatcher{match: &models.TrainingMatch{Answer: answer, Confidence: 0.91}}
	// Later stages would all fail; a training match must short-circuit them
	engine := newTestEngine(matcher, &stubContent{err: errors.New("search down")}, &stubChat{err: errors.New("provider down")}, nil)

	result, err := engine.ProcessMessage(context.Background(), "session-1", "what is your refund policy")
	if err != nil {
		t.Fatalf("ProcessMessage: %v", err)
	}

	if result.Response != answer {
		t.Errorf("training answer must be returned verbatim, got %q", result.Response)
	}
	if result.Source != models.SourceSemanticTraining {
		t.Errorf("source = %s, want %s", result.Source, models.SourceSemanticTraining)
	}
	if result.Confidence != 0.91 {
		t.Errorf("confidence = %f, want 0.91", result.Confidence)
	}
}

func TestProcessMessage_ContentPathWhenNoTrainingMatch(t *testing.T) {
	content := &stubContent{results: []models.ScoredContent{{
		Item: models.ContentItem{
			Title: "Returns",
			Body:  "You can return any item within thirty days of delivery.",
			URL:   "https://acme.example/returns",
		},
		Similarity: 0.82,
		Excerpt:    "You can return any item within thirty days of delivery.",
	}}}
	engine := newTestEngine(&stubMatcher{err: search.ErrNoMatch}, content, &stubChat{err: errors.New("provider down")}, nil)

	result, err := engine.ProcessMessage(context.Background(), "session-1", "What is your returns policy?")
	if err != nil {
		t.Fatalf("ProcessMessage: %v", err)
	}

	if result.Source != models.SourceSemanticContent {
		t.Errorf("source = %s, want %s", result.Source, models.SourceSemanticContent)
	}
	if !strings.Contains(result.Response, "https://acme.example/returns") {
		t.Errorf("response should link the matched page, got %q", result.Response)
	}
	if result.Confidence != 0.82 {
		t.Errorf("confidence = %f, want the content similarity 0.82", result.Confidence)
	}
}

func TestProcessMessage_ProviderPathForPricingQuestion(t *testing.T) {
	chat := &stubChat{reply: "We offer three plans to fit different needs."}
	engine := newTestEngine(&stubMatcher{err: search.ErrNoMatch}, &stubContent{}, chat, nil)

	result, err := engine.ProcessMessage(context.Background(), "session-1", "How much does this cost?")
	if err != nil {
		t.Fatalf("ProcessMessage: %v", err)
	}

	if result.Source != models.SourceProviderEnhanced {
		t.Errorf("source = %s, want %s", result.Source, models.SourceProviderEnhanced)
	}
	if result.Intent != "pricing" {
		t.Errorf("intent = %s, want pricing", result.Intent)
	}
	if result.Confidence < 0.6 {
		t.Errorf("confidence = %f, want >= 0.6", result.Confidence)
	}
	if result.RequiresHuman {
		t.Error("pricing question should not require a human")
	}
	// Draft carries no price terms, so the refinement appends the quote line
	if !strings.Contains(result.Response, "quote") {
		t.Errorf("response should offer a quote when the draft has no price, got %q", result.Response)
	}
	last := result.Response[len(result.Response)-1]
	if last != '.' && last != '!' && last != '?' {
		t.Errorf("response missing terminal punctuation: %q", result.Response)
	}
	found := false
	for _, s := range result.Suggestions {
		if s == "show_pricing" {
			found = true
		}
	}
	if !found {
		t.Errorf("suggestions = %v, want show_pricing", result.Suggestions)
	}
}

func TestProcessMessage_GenericErrorWhenEverythingFails(t *testing.T) {
	engine := newTestEngine(
		&stubMatcher{err: errors.New("training store down")},
		&stubContent{err: errors.New("search down")},
		&stubChat{err: errors.New("provider down")},
		nil,
	)

	result, err := engine.ProcessMessage(context.Background(), "session-1", "hello?")
	if err != nil {
		t.Fatalf("ProcessMessage: %v", err)
	}

	if result.Response != GenericErrorResponse {
		t.Errorf("response = %q, want the generic error", result.Response)
	}
	if result.Source != models.SourceFallbackError {
		t.Errorf("source = %s, want %s", result.Source, models.SourceFallbackError)
	}
	if result.Confidence != 0 {
		t.Errorf("confidence = %f, want 0", result.Confidence)
	}
}

func TestProcessMessage_EscalatesFrustratedMessage(t *testing.T) {
	engine := newTestEngine(
		&stubMatcher{err: search.ErrNoMatch},
		&stubContent{},
		&stubChat{reply: "Let me look into your account and sort this out for you."},
		nil,
	)

	result, err := engine.ProcessMessage(context.Background(), "session-1", "This is broken and I'm really frustrated!!!")
	if err != nil {
		t.Fatalf("ProcessMessage: %v", err)
	}

	if !result.RequiresHuman {
		t.Error("frustrated high-urgency message must require a human")
	}
}

func TestProcessMessage_RecordsTurn(t *testing.T) {
	recorder := &memRecorder{}
	engine := newTestEngine(
		&stubMatcher{match: &models.TrainingMatch{Answer: "Yes, we ship worldwide.", Confidence: 0.88}},
		&stubContent{},
		&stubChat{},
		recorder,
	)

	if _, err := engine.ProcessMessage(context.Background(), "session-42", "do you ship abroad"); err != nil {
		t.Fatalf("ProcessMessage: %v", err)
	}

	if len(recorder.turns) != 1 {
		t.Fatalf("recorded %d turns, want 1", len(recorder.turns))
	}
	turn := recorder.turns[0]
	if turn.SessionID != "session-42" {
		t.Errorf("session = %s, want session-42", turn.SessionID)
	}
	if turn.ID == "" {
		t.Error("turn ID must be generated")
	}
	if turn.Source != models.SourceSemanticTraining {
		t.Errorf("turn source = %s, want %s", turn.Source, models.SourceSemanticTraining)
	}
}

func TestProcessMessage_GeneratesSessionID(t *testing.T) {
	recorder := &memRecorder{}
	engine := newTestEngine(
		&stubMatcher{match: &models.TrainingMatch{Answer: "Yes, we ship worldwide.", Confidence: 0.88}},
		&stubContent{},
		&stubChat{},
		recorder,
	)

	if _, err := engine.ProcessMessage(context.Background(), "", "do you ship abroad"); err != nil {
		t.Fatalf("ProcessMessage: %v", err)
	}

	if len(recorder.turns) != 1 || recorder.turns[0].SessionID == "" {
		t.Errorf("turns = %+v, want one turn with a generated session id", recorder.turns)
	}
}

func TestProcessMessage_HistoryFeedsFollowUpTurn(t *testing.T) {
	recorder := &memRecorder{turns: []models.ConversationTurn{{
		ID:        "t1",
		SessionID: "session-7",
		Message:   "How much does the pro plan cost?",
		Response:  "The pro plan starts at $29 per month.",
	}}}
	chat := &stubChat{reply: "The annual plan costs less per month than paying monthly."}
	engine := newTestEngine(&stubMatcher{err: search.ErrNoMatch}, &stubContent{}, chat, recorder)

	if _, err := engine.ProcessMessage(context.Background(), "session-7", "And annually?"); err != nil {
		t.Fatalf("ProcessMessage: %v", err)
	}

	if !strings.Contains(chat.gotContext, "CONVERSATION HISTORY:") {
		t.Errorf("provider context missing the history section:\n%s", chat.gotContext)
	}
	if !strings.Contains(chat.gotContext, "User: How much does the pro plan cost?") {
		t.Errorf("provider context missing the prior user line:\n%s", chat.gotContext)
	}
	if !strings.Contains(chat.gotContext, "AI: The pro plan starts at $29 per month.") {
		t.Errorf("provider context missing the prior answer line:\n%s", chat.gotContext)
	}
}

func TestProcessMessage_HistoryBoostsIntentOnVagueFollowUp(t *testing.T) {
	recorder := &memRecorder{turns: []models.ConversationTurn{{
		ID:        "t1",
		SessionID: "session-8",
		Message:   "What does the subscription cost?",
		Response:  "Plans start at $29 per month.",
	}}}
	engine := newTestEngine(&stubMatcher{err: search.ErrNoMatch}, &stubContent{}, &stubChat{reply: "Happy to go over the pricing options."}, recorder)

	result, err := engine.ProcessMessage(context.Background(), "session-8", "how much does the bigger plan cost")
	if err != nil {
		t.Fatalf("ProcessMessage: %v", err)
	}
	if result.Intent != "pricing" {
		t.Errorf("intent = %s, want pricing for a price follow-up", result.Intent)
	}

	// The same message in a fresh session must score lower without the boost
	fresh := newTestEngine(&stubMatcher{err: search.ErrNoMatch}, &stubContent{}, &stubChat{reply: "Happy to go over the pricing options."}, &memRecorder{})
	freshResult, err := fresh.ProcessMessage(context.Background(), "session-9", "how much does the bigger plan cost")
	if err != nil {
		t.Fatalf("ProcessMessage: %v", err)
	}
	if freshResult.Confidence >= result.Confidence {
		t.Errorf("boosted confidence %f should exceed fresh-session confidence %f", result.Confidence, freshResult.Confidence)
	}
}

func TestProcessMessage_SaveFailureDoesNotFailRequest(t *testing.T) {
	recorder := &memRecorder{err: errors.New("disk full")}
	engine := newTestEngine(
		&stubMatcher{match: &models.TrainingMatch{Answer: "Yes, we ship worldwide.", Confidence: 0.88}},
		&stubContent{},
		&stubChat{},
		recorder,
	)

	result, err := engine.ProcessMessage(context.Background(), "session-1", "do you ship abroad")
	if err != nil {
		t.Fatalf("ProcessMessage: %v", err)
	}
	if result.Response != "Yes, we ship worldwide." {
		t.Errorf("response = %q", result.Response)
	}
}
