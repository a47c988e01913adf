// ABOUTME: MCP command starts the Model Context Protocol server on stdio
// ABOUTME: Exposes chat, search, embedding, and training tools to LLM agents
package commands

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/harper/sitechat/internal/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for LLM agents",
		Long: `Start MCP server for LLM agents

Runs sitechat as an MCP (Model Context Protocol) server on stdio,
exposing chat_message, search_content, generate_embeddings, and
add_training_pair tools.`,
		RunE: runMCP,
		Example: `  # Start MCP server (typically launched by the agent host)
  sitechat mcp

  # Configure in claude_desktop_config.json:
  # {
  #   "mcpServers": {
  #     "sitechat": {
  #       "command": "sitechat",
  #       "args": ["mcp"]
  #     }
  #   }
  # }`,
	}

	return cmd
}

func runMCP(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if cfg.OpenAIKey == "" {
		log.Println("Warning: OPENAI_API_KEY not set - embeddings and AI responses will not work")
	}

	store, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	engine, err := buildEngine(cfg, store)
	if err != nil {
		return err
	}
	searcher, err := buildSearcher(cfg, store)
	if err != nil {
		return err
	}
	worker, err := newBatchEmbedder(cfg, store)
	if err != nil {
		return err
	}

	server := mcpserver.NewMCPServer(
		"Sitechat",
		"0.1.0",
	)

	mcp.RegisterTools(server, engine, searcher, worker, store.Training)

	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !quiet {
		log.Println("sitechat MCP server starting on stdio...")
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- mcpserver.ServeStdio(server)
	}()

	select {
	case <-ctx.Done():
		if !quiet {
			log.Println("Shutdown signal received, gracefully shutting down...")
		}
		if err := store.Close(); err != nil {
			log.Printf("Warning: Error closing storage: %v", err)
		}
		if !quiet {
			log.Println("Shutdown complete")
		}
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	return nil
}
