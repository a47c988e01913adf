// ABOUTME: CLI command to search indexed site content semantically
// ABOUTME: Supports table and JSON output with scored excerpts
package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var (
	searchLimit int
)

// NewSearchCmd creates the search command
func NewSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search indexed site content",
		Long: `Search indexed site content using semantic similarity.

Falls back to keyword matching when embeddings are unavailable.

Examples:
  sitechat search "return policy"
  sitechat search --limit 10 "shipping times"
  sitechat search --format json "pricing tiers"`,
		Args: cobra.ExactArgs(1),
		RunE: runSearch,
	}

	cmd.Flags().IntVar(&searchLimit, "limit", 5, "Maximum results to return")

	return cmd
}

func runSearch(cmd *cobra.Command, args []string) error {
	if err := validatePositiveInt(searchLimit, "limit"); err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	store, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	searcher, err := buildSearcher(cfg, store)
	if err != nil {
		return err
	}

	query := args[0]
	results, err := searcher.SimilarContent(context.Background(), query, searchLimit, "")
	if err != nil {
		return fmt.Errorf("searching content: %w", err)
	}

	if len(results) == 0 {
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "No content found for query: %s\n", query)
		}
		return nil
	}

	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "SCORE\tTITLE\tURL\tEXCERPT\n")
	fmt.Fprintf(w, "-----\t-----\t---\t-------\n")

	for _, result := range results {
		fmt.Fprintf(w, "%.1f\t%s\t%s\t%s\n",
			result.RelevanceScore,
			truncate(result.Item.Title, 30),
			truncate(result.Item.URL, 35),
			truncate(result.Excerpt, 60))
	}
	w.Flush()

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "\nFound %d result(s)\n", len(results))
	}

	return nil
}
