// ABOUTME: Shared wiring helpers that assemble the engine from config
// ABOUTME: Consolidates storage, cache, searcher, and pipeline construction
package commands

import (
	"fmt"

	"github.com/joho/godotenv"

	"github.com/harper/sitechat/internal/batch"
	"github.com/harper/sitechat/internal/config"
	"github.com/harper/sitechat/internal/core"
	"github.com/harper/sitechat/internal/embedding"
	"github.com/harper/sitechat/internal/llm"
	"github.com/harper/sitechat/internal/search"
	"github.com/harper/sitechat/internal/storage"
)

// loadConfig loads .env (when present) and the environment configuration
func loadConfig() (*config.Config, error) {
	_ = godotenv.Load()
	return config.Load()
}

// openStore opens the configured database, defaulting to the XDG data path
func openStore(cfg *config.Config) (*storage.Storage, error) {
	if cfg.DBPath != "" {
		return storage.Open(cfg.DBPath)
	}
	return storage.OpenDefault()
}

// newEmbedder builds the caching embedder over the configured provider
func newEmbedder(cfg *config.Config, provider llm.EmbeddingProvider) *embedding.Embedder {
	var cache embedding.Cache
	if cfg.CacheBackend == "redis" {
		cache = embedding.NewRedisCache(cfg.RedisAddr, cfg.RedisDB, cfg.CacheTTL)
	} else {
		cache = embedding.NewMemoryCache(cfg.CacheSize, cfg.CacheTTL)
	}
	return embedding.NewEmbedder(provider, cache)
}

// newSearcher builds the semantic searcher over the store
func newSearcher(cfg *config.Config, store *storage.Storage, embedder *embedding.Embedder) *search.Searcher {
	return search.NewSearcher(embedder, store.Content, store.Training, search.Config{
		ContentThreshold:  cfg.ContentThreshold,
		TrainingThreshold: cfg.TrainingThreshold,
	})
}

// buildSearcher builds the searcher with its own provider and cache
func buildSearcher(cfg *config.Config, store *storage.Storage) (*search.Searcher, error) {
	provider, err := llm.NewEmbeddingProvider(cfg.Provider, cfg)
	if err != nil {
		return nil, err
	}
	return newSearcher(cfg, store, newEmbedder(cfg, provider)), nil
}

// buildEngine assembles the full message pipeline
func buildEngine(cfg *config.Config, store *storage.Storage) (*core.Engine, error) {
	if cfg.SiteName == "" {
		return nil, fmt.Errorf("SITECHAT_SITE_NAME is required for chat")
	}

	embedProvider, err := llm.NewEmbeddingProvider(cfg.Provider, cfg)
	if err != nil {
		return nil, err
	}
	chatProvider, err := llm.NewChatProvider(cfg.Provider, cfg)
	if err != nil {
		return nil, err
	}
	embedder := newEmbedder(cfg, embedProvider)
	searcher := newSearcher(cfg, store, embedder)

	classifier := core.NewIntentClassifier(embedder, core.ClassifierConfig{
		Sensitivity: cfg.IntentSensitivity,
		SemanticTTL: cfg.SemanticIntentTTL,
	})
	builder := core.NewContextBuilder(searcher, core.BuilderConfig{
		SiteName:        cfg.SiteName,
		SiteURL:         cfg.SiteURL,
		SiteDescription: cfg.SiteDescription,
		SiteContact:     cfg.SiteContact,
		SiteLanguage:    cfg.SiteLanguage,
		MaxLength:       cfg.MaxContextLength,
	})

	return core.NewEngine(classifier, builder, searcher, searcher, chatProvider, store.Turns, core.EngineConfig{
		TrainingThreshold: cfg.TrainingThreshold,
		SearchLimit:       cfg.SearchLimit,
		RequestTimeout:    cfg.RequestTimeout,
	}), nil
}

// newBatchEmbedder builds the batch embedding worker over the store
func newBatchEmbedder(cfg *config.Config, store *storage.Storage) (*batch.Embedder, error) {
	provider, err := llm.NewEmbeddingProvider(cfg.Provider, cfg)
	if err != nil {
		return nil, err
	}
	embedder := newEmbedder(cfg, provider)
	return batch.NewEmbedder(embedder, store.Content, store.Training, cfg.BatchDelay), nil
}
