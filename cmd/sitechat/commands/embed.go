// ABOUTME: CLI command to run the embedding backlog to completion
// ABOUTME: Processes batches in a loop until nothing is left pending
package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/harper/sitechat/internal/batch"
)

var (
	embedType      string
	embedBatchSize int
)

// NewEmbedCmd creates the embed command
func NewEmbedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "embed",
		Short: "Generate embeddings for content and training data",
		Long: `Generate embeddings for everything waiting in the backlog.

Processes one batch at a time until nothing is left pending. Use
--type all to discard existing vectors and re-embed everything,
for example after changing the embedding model.

Examples:
  sitechat embed
  sitechat embed --type all
  sitechat embed --batch-size 25`,
		RunE: runEmbed,
	}

	cmd.Flags().StringVar(&embedType, "type", "missing", "Scope: 'missing' or 'all'")
	cmd.Flags().IntVar(&embedBatchSize, "batch-size", batch.DefaultBatchSize, "Rows to embed per batch")

	return cmd
}

func runEmbed(cmd *cobra.Command, args []string) error {
	if err := validatePositiveInt(embedBatchSize, "batch-size"); err != nil {
		return err
	}

	var scope batch.Scope
	switch embedType {
	case string(batch.ScopeMissing):
		scope = batch.ScopeMissing
	case string(batch.ScopeAll):
		scope = batch.ScopeAll
	default:
		return fmt.Errorf("type must be 'missing' or 'all', got %q", embedType)
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if cfg.OpenAIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required to generate embeddings")
	}

	store, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	worker, err := newBatchEmbedder(cfg, store)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	totalProcessed := 0
	totalErrors := 0
	for {
		result, err := worker.ProcessBatch(ctx, scope, embedBatchSize)
		if err != nil {
			return fmt.Errorf("processing batch: %w", err)
		}
		// A reset must only happen once per run
		scope = batch.ScopeMissing

		totalProcessed += result.Processed
		totalErrors += result.Errors

		if verbose {
			fmt.Fprintf(cmd.OutOrStdout(), "batch done: processed=%d errors=%d remaining=%d\n",
				result.Processed, result.Errors, result.Remaining)
		}

		if result.Remaining == 0 {
			break
		}
		// A batch that made no progress would loop forever on the same rows
		if result.Processed == 0 && result.Errors == 0 {
			return fmt.Errorf("no progress with %d item(s) remaining; are rows stuck in 'processing'?", result.Remaining)
		}
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Embedded %d item(s)", totalProcessed)
		if totalErrors > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), " (%d failed; rerun to retry)", totalErrors)
		}
		fmt.Fprintln(cmd.OutOrStdout())
	}
	return nil
}
