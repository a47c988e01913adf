// ABOUTME: MCP tool definitions and registration for the chatbot server
// ABOUTME: Defines JSON schemas for the chat, search, embedding, and training tools
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/harper/sitechat/internal/batch"
	"github.com/harper/sitechat/internal/models"
)

// ChatService runs a visitor message through the pipeline
type ChatService interface {
	ProcessMessage(ctx context.Context, sessionID, message string) (*models.ChatResult, error)
}

// ContentSearcher exposes semantic content search
type ContentSearcher interface {
	SimilarContent(ctx context.Context, queryText string, limit int, contextText string) ([]models.ScoredContent, error)
}

// BatchRunner triggers one embedding batch run
type BatchRunner interface {
	ProcessBatch(ctx context.Context, scope batch.Scope, batchSize int) (*batch.Result, error)
}

// TrainingSaver persists curated Q&A pairs
type TrainingSaver interface {
	Save(ctx context.Context, pair models.TrainingPair) error
}

// RegisterTools registers all MCP tools with the server
func RegisterTools(server *mcpserver.MCPServer, chat ChatService, searcher ContentSearcher, batchRunner BatchRunner, training TrainingSaver) *Handlers {
	handlers := &Handlers{
		chat:     chat,
		searcher: searcher,
		batch:    batchRunner,
		training: training,
	}

	// 1. chat_message - run a visitor message through the full pipeline
	server.AddTool(mcp.Tool{
		Name:        "chat_message",
		Description: "Send a visitor message through the chatbot pipeline and get the final response with intent analysis.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"message": map[string]interface{}{
					"type":        "string",
					"description": "Visitor message to process",
				},
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Conversation session ID (generated when omitted)",
				},
			},
			Required: []string{"message"},
		},
	}, handlers.ChatMessage)

	// 2. search_content - semantic search over indexed site content
	server.AddTool(mcp.Tool{
		Name:        "search_content",
		Description: "Search indexed site content semantically and return scored matches with excerpts.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Search query",
				},
				"max_results": map[string]interface{}{
					"type":        "number",
					"description": "Maximum number of results to return (default: 5)",
					"default":     5,
				},
			},
			Required: []string{"query"},
		},
	}, handlers.SearchContent)

	// 3. generate_embeddings - run one embedding batch over the backlog
	server.AddTool(mcp.Tool{
		Name:        "generate_embeddings",
		Description: "Process one batch of pending embeddings for content and training data. Use type 'all' to re-embed everything.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"type": map[string]interface{}{
					"type":        "string",
					"description": "Scope of the run: 'missing' (default) or 'all'",
				},
				"batch_size": map[string]interface{}{
					"type":        "number",
					"description": "Rows to process in this run (default: 10)",
					"default":     10,
				},
			},
		},
	}, handlers.GenerateEmbeddings)

	// 4. add_training_pair - store a curated question/answer pair
	server.AddTool(mcp.Tool{
		Name:        "add_training_pair",
		Description: "Add a curated question/answer pair. The question is embedded on the next generate_embeddings run.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"question": map[string]interface{}{
					"type":        "string",
					"description": "Visitor question to match against",
				},
				"answer": map[string]interface{}{
					"type":        "string",
					"description": "Curated answer returned verbatim on a match",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Optional intent label",
				},
			},
			Required: []string{"question", "answer"},
		},
	}, handlers.AddTrainingPair)

	return handlers
}
