// ABOUTME: HTTP API for the chat pipeline, batch embedding, and search testing
// ABOUTME: Gin router with JSON endpoints consumed by the site widget and admin
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/harper/sitechat/internal/batch"
	"github.com/harper/sitechat/internal/models"
)

// ChatService runs a visitor message through the pipeline
type ChatService interface {
	ProcessMessage(ctx context.Context, sessionID, message string) (*models.ChatResult, error)
}

// Searcher exposes content search for the admin test endpoint
type Searcher interface {
	SimilarContent(ctx context.Context, queryText string, limit int, contextText string) ([]models.ScoredContent, error)
}

// BatchRunner triggers one embedding batch run
type BatchRunner interface {
	ProcessBatch(ctx context.Context, scope batch.Scope, batchSize int) (*batch.Result, error)
}

// Server holds the API dependencies
type Server struct {
	chat     ChatService
	searcher Searcher
	batch    BatchRunner
}

// NewServer creates a Server
func NewServer(chat ChatService, searcher Searcher, batchRunner BatchRunner) *Server {
	return &Server{
		chat:     chat,
		searcher: searcher,
		batch:    batchRunner,
	}
}

// Router builds the gin router with all routes registered
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/healthz", s.handleHealth)

	api := router.Group("/api")
	{
		api.POST("/chat", s.handleChat)
		api.POST("/embeddings/batch", s.handleEmbeddingBatch)
		api.POST("/search/test", s.handleSearchTest)
	}

	return router
}

// chatRequest is the widget's message payload
type chatRequest struct {
	Message   string `json:"message" binding:"required"`
	SessionID string `json:"session_id"`
}

func (s *Server) handleChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := s.chat.ProcessMessage(c.Request.Context(), req.SessionID, req.Message)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process message"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// batchRequest selects the scope and size of an embedding run
type batchRequest struct {
	Type      string `json:"type"`
	BatchSize int    `json:"batch_size"`
}

func (s *Server) handleEmbeddingBatch(c *gin.Context) {
	var req batchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	scope := batch.ScopeMissing
	switch req.Type {
	case "", string(batch.ScopeMissing):
	case string(batch.ScopeAll):
		scope = batch.ScopeAll
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "type must be missing or all"})
		return
	}

	result, err := s.batch.ProcessBatch(c.Request.Context(), scope, req.BatchSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// searchTestRequest is the admin search-tester payload
type searchTestRequest struct {
	Query string `json:"query" binding:"required"`
	Limit int    `json:"limit"`
}

// searchTestResult is one scored row of the search-tester response
type searchTestResult struct {
	Title          string  `json:"title"`
	Content        string  `json:"content"`
	URL            string  `json:"url"`
	RelevanceScore float64 `json:"relevance_score"`
}

func (s *Server) handleSearchTest(c *gin.Context) {
	var req searchTestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Limit <= 0 {
		req.Limit = 5
	}

	results, err := s.searcher.SimilarContent(c.Request.Context(), req.Query, req.Limit, "")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	out := make([]searchTestResult, 0, len(results))
	for _, r := range results {
		out = append(out, searchTestResult{
			Title:          r.Item.Title,
			Content:        r.Excerpt,
			URL:            r.Item.URL,
			RelevanceScore: r.RelevanceScore,
		})
	}

	c.JSON(http.StatusOK, gin.H{"results": out})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().UTC().Format(time.RFC3339)})
}
