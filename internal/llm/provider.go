// ABOUTME: Provider contracts and name-keyed registry for embedding and chat backends
// ABOUTME: Replaces dynamic class lookup with explicit constructors per provider name
package llm

import (
	"context"
	"fmt"

	"github.com/harper/sitechat/internal/config"
)

// EmbeddingProvider produces a fixed-dimension vector for a piece of text.
// Implementations validate credentials before any network call and must not
// retry internally; backoff is the caller's concern.
type EmbeddingProvider interface {
	Embed(ctx context.Context, text string) ([]float64, error)
	Dimension() int
}

// ChatProvider produces a single-turn completion for a prompt context and message
type ChatProvider interface {
	Complete(ctx context.Context, promptContext, message string) (string, error)
}

// NewEmbeddingProvider returns the embedding provider registered under name
func NewEmbeddingProvider(name string, cfg *config.Config) (EmbeddingProvider, error) {
	switch name {
	case "openai":
		return NewOpenAIProvider(cfg), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider: %q", name)
	}
}

// NewChatProvider returns the chat provider registered under name
func NewChatProvider(name string, cfg *config.Config) (ChatProvider, error) {
	switch name {
	case "openai":
		return NewOpenAIProvider(cfg), nil
	default:
		return nil, fmt.Errorf("unknown chat provider: %q", name)
	}
}
