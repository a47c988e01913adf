// ABOUTME: OpenAI adapter implementing the embedding and chat provider contracts
// ABOUTME: Uses text-embedding-3-small for embeddings and gpt-4o-mini for completions
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/harper/sitechat/internal/config"
	"github.com/harper/sitechat/internal/util"
	openai "github.com/sashabaranov/go-openai"
)

// MaxEmbeddingInputChars caps text sent to the embeddings endpoint.
// Roughly 2000 tokens at 4 chars/token, well under the model limit.
const MaxEmbeddingInputChars = 8000

// OpenAIProvider implements EmbeddingProvider and ChatProvider against the OpenAI API
type OpenAIProvider struct {
	client         *openai.Client
	apiKey         string
	chatModel      string
	embeddingModel openai.EmbeddingModel
	dimension      int
	embedTimeout   time.Duration
	maxRetries     int
	retryDelay     time.Duration
}

// NewOpenAIProvider creates an OpenAI-backed provider from configuration.
// Credential validation is deferred to call time so a missing key degrades
// to the keyword fallback instead of failing startup.
func NewOpenAIProvider(cfg *config.Config) *OpenAIProvider {
	return &OpenAIProvider{
		client:         openai.NewClient(cfg.OpenAIKey),
		apiKey:         cfg.OpenAIKey,
		chatModel:      cfg.ChatModel,
		embeddingModel: openai.EmbeddingModel(cfg.EmbeddingModel),
		dimension:      cfg.VectorDimension,
		embedTimeout:   cfg.EmbedTimeout,
		maxRetries:     cfg.MaxRetries,
		retryDelay:     cfg.RetryDelay,
	}
}

// Dimension returns the expected embedding vector dimension
func (p *OpenAIProvider) Dimension() int {
	return p.dimension
}

// checkCredential validates key presence and shape before any network call
func (p *OpenAIProvider) checkCredential() error {
	if p.apiKey == "" {
		return ErrMissingCredential
	}
	if !strings.HasPrefix(p.apiKey, "sk-") || len(p.apiKey) < 20 {
		return ErrInvalidCredential
	}
	return nil
}

// Embed generates an embedding vector for text. One attempt, no internal
// retries; the caller decides whether to fall back or back off.
func (p *OpenAIProvider) Embed(ctx context.Context, text string) ([]float64, error) {
	if err := p.checkCredential(); err != nil {
		return nil, err
	}

	if runes := []rune(text); len(runes) > MaxEmbeddingInputChars {
		text = string(runes[:MaxEmbeddingInputChars])
	}

	ctx, cancel := context.WithTimeout(ctx, p.embedTimeout)
	defer cancel()

	resp, err := p.client.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
		Input: []string{text},
		Model: p.embeddingModel,
	})
	if err != nil {
		return nil, classifyAPIError(err)
	}

	if len(resp.Data) == 0 {
		return nil, &MalformedResponseError{Reason: "no embeddings returned"}
	}

	embedding32 := resp.Data[0].Embedding
	if len(embedding32) != p.dimension {
		return nil, &MalformedResponseError{
			Reason: fmt.Sprintf("expected %d dimensions, got %d", p.dimension, len(embedding32)),
		}
	}

	// Convert []float32 to []float64
	vector := make([]float64, len(embedding32))
	for i, v := range embedding32 {
		vector[i] = float64(v)
	}

	return vector, nil
}

// Complete generates a single-turn chat completion with retry and backoff
func (p *OpenAIProvider) Complete(ctx context.Context, promptContext, message string) (string, error) {
	if err := p.checkCredential(); err != nil {
		return "", err
	}

	systemPrompt := "You are a helpful website assistant. Use the provided context to answer the visitor's question accurately and concisely. If the context does not contain the answer, say so honestly."
	userPrompt := fmt.Sprintf("CONTEXT:\n%s\n\nVISITOR MESSAGE:\n%s", promptContext, message)

	var lastErr error

	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", &TransportError{Err: ctx.Err()}
			case <-time.After(util.CalculateBackoff(p.retryDelay, attempt)):
			}
		}

		callCtx, cancel := context.WithTimeout(ctx, p.embedTimeout)
		resp, err := p.client.CreateChatCompletion(callCtx, openai.ChatCompletionRequest{
			Model: p.chatModel,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
				{Role: openai.ChatMessageRoleUser, Content: userPrompt},
			},
			Temperature: 0.7,
		})
		cancel()

		if err != nil {
			lastErr = classifyAPIError(err)
			continue
		}

		if len(resp.Choices) == 0 {
			lastErr = &MalformedResponseError{Reason: "no completion choices returned"}
			continue
		}

		return resp.Choices[0].Message.Content, nil
	}

	return "", fmt.Errorf("chat completion failed after %d attempts: %w", p.maxRetries+1, lastErr)
}

// classifyAPIError maps go-openai errors onto the provider error taxonomy
func classifyAPIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &UpstreamError{Message: apiErr.Message}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &UpstreamError{Message: reqErr.Error()}
	}
	return &TransportError{Err: err}
}
