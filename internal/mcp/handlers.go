// ABOUTME: MCP tool handlers bridging tool calls to the chat pipeline
// ABOUTME: Extracts arguments, invokes services, and marshals JSON responses
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/harper/sitechat/internal/batch"
	"github.com/harper/sitechat/internal/models"
)

// Handlers holds the services the MCP tools delegate to
type Handlers struct {
	chat     ChatService
	searcher ContentSearcher
	batch    BatchRunner
	training TrainingSaver
}

// ChatMessage runs a visitor message through the pipeline and returns the result
func (h *Handlers) ChatMessage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	message, err := request.RequireString("message")
	if err != nil {
		return mcp.NewToolResultError("message parameter is required"), nil
	}
	sessionID := request.GetString("session_id", "")

	result, err := h.chat.ProcessMessage(ctx, sessionID, message)
	if err != nil {
		return nil, fmt.Errorf("failed to process message: %w", err)
	}

	response := map[string]interface{}{
		"response":       result.Response,
		"intent":         result.Intent,
		"confidence":     result.Confidence,
		"source":         result.Source,
		"requires_human": result.RequiresHuman,
	}
	if len(result.Suggestions) > 0 {
		response["suggestions"] = result.Suggestions
	}

	responseJSON, err := json.Marshal(response)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}

	return mcp.NewToolResultText(string(responseJSON)), nil
}

// SearchContent performs semantic search over indexed site content
func (h *Handlers) SearchContent(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query parameter is required"), nil
	}
	maxResults := request.GetInt("max_results", 5)
	if maxResults < 1 {
		return mcp.NewToolResultError("max_results must be positive"), nil
	}

	results, err := h.searcher.SimilarContent(ctx, query, maxResults, "")
	if err != nil {
		return nil, fmt.Errorf("failed to search content: %w", err)
	}

	items := make([]map[string]interface{}, 0, len(results))
	for _, result := range results {
		items = append(items, map[string]interface{}{
			"id":              result.Item.ID,
			"title":           result.Item.Title,
			"url":             result.Item.URL,
			"excerpt":         result.Excerpt,
			"relevance_score": result.RelevanceScore,
		})
	}

	response := map[string]interface{}{
		"query":   query,
		"count":   len(items),
		"results": items,
	}

	responseJSON, err := json.Marshal(response)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}

	return mcp.NewToolResultText(string(responseJSON)), nil
}

// GenerateEmbeddings runs one embedding batch over the backlog
func (h *Handlers) GenerateEmbeddings(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	scopeArg := request.GetString("type", string(batch.ScopeMissing))
	var scope batch.Scope
	switch scopeArg {
	case string(batch.ScopeMissing):
		scope = batch.ScopeMissing
	case string(batch.ScopeAll):
		scope = batch.ScopeAll
	default:
		return mcp.NewToolResultError("type must be 'missing' or 'all'"), nil
	}
	batchSize := request.GetInt("batch_size", batch.DefaultBatchSize)
	if batchSize < 1 {
		return mcp.NewToolResultError("batch_size must be positive"), nil
	}

	result, err := h.batch.ProcessBatch(ctx, scope, batchSize)
	if err != nil {
		return nil, fmt.Errorf("failed to process embedding batch: %w", err)
	}

	response := map[string]interface{}{
		"type":      scopeArg,
		"processed": result.Processed,
		"errors":    result.Errors,
		"remaining": result.Remaining,
	}

	responseJSON, err := json.Marshal(response)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}

	return mcp.NewToolResultText(string(responseJSON)), nil
}

// AddTrainingPair stores a curated question/answer pair for later embedding
func (h *Handlers) AddTrainingPair(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question, err := request.RequireString("question")
	if err != nil {
		return mcp.NewToolResultError("question parameter is required"), nil
	}
	answer, err := request.RequireString("answer")
	if err != nil {
		return mcp.NewToolResultError("answer parameter is required"), nil
	}
	intent := request.GetString("intent", "")

	pair := models.TrainingPair{
		ID:       uuid.New().String(),
		Question: question,
		Answer:   answer,
		Intent:   intent,
	}
	if err := h.training.Save(ctx, pair); err != nil {
		return nil, fmt.Errorf("failed to save training pair: %w", err)
	}

	response := map[string]interface{}{
		"id":       pair.ID,
		"question": pair.Question,
		"intent":   pair.Intent,
		"status":   "pending_embedding",
	}

	responseJSON, err := json.Marshal(response)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}

	return mcp.NewToolResultText(string(responseJSON)), nil
}
