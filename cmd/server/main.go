// ABOUTME: Standalone HTTP server entrypoint for container deployments
// ABOUTME: Wires config, storage, and the engine, then serves the gin router
package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/harper/sitechat/internal/batch"
	"github.com/harper/sitechat/internal/config"
	"github.com/harper/sitechat/internal/core"
	"github.com/harper/sitechat/internal/embedding"
	"github.com/harper/sitechat/internal/httpapi"
	"github.com/harper/sitechat/internal/llm"
	"github.com/harper/sitechat/internal/search"
	"github.com/harper/sitechat/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if cfg.SiteName == "" {
		log.Fatalf("SITECHAT_SITE_NAME is required")
	}
	if cfg.OpenAIKey == "" {
		log.Println("Warning: OPENAI_API_KEY not set - embeddings and AI responses will not work")
	}

	var store *storage.Storage
	if cfg.DBPath != "" {
		store, err = storage.Open(cfg.DBPath)
	} else {
		store, err = storage.OpenDefault()
	}
	if err != nil {
		log.Fatalf("initializing storage: %v", err)
	}
	defer func() { _ = store.Close() }()

	embedProvider, err := llm.NewEmbeddingProvider(cfg.Provider, cfg)
	if err != nil {
		log.Fatalf("initializing embedding provider: %v", err)
	}
	chatProvider, err := llm.NewChatProvider(cfg.Provider, cfg)
	if err != nil {
		log.Fatalf("initializing chat provider: %v", err)
	}

	var cache embedding.Cache
	if cfg.CacheBackend == "redis" {
		cache = embedding.NewRedisCache(cfg.RedisAddr, cfg.RedisDB, cfg.CacheTTL)
	} else {
		cache = embedding.NewMemoryCache(cfg.CacheSize, cfg.CacheTTL)
	}
	embedder := embedding.NewEmbedder(embedProvider, cache)

	searcher := search.NewSearcher(embedder, store.Content, store.Training, search.Config{
		ContentThreshold:  cfg.ContentThreshold,
		TrainingThreshold: cfg.TrainingThreshold,
	})

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
	engine := core.NewEngine(classifier, builder, searcher, searcher, chatProvider, store.Turns, core.EngineConfig{
		TrainingThreshold: cfg.TrainingThreshold,
		SearchLimit:       cfg.SearchLimit,
		RequestTimeout:    cfg.RequestTimeout,
	})

	worker := batch.NewEmbedder(embedder, store.Content, store.Training, cfg.BatchDelay)

	api := httpapi.NewServer(engine, searcher, worker)
	log.Printf("sitechat HTTP server listening on %s", cfg.ListenAddr)
	if err := api.Router().Run(cfg.ListenAddr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
