// ABOUTME: CLI commands to manage curated training pairs
// ABOUTME: Supports add, list, and remove with embedding lifecycle awareness
package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/harper/sitechat/internal/models"
)

var (
	trainIntent string
)

// NewTrainCmd creates the train command with its subcommands
func NewTrainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Manage curated training pairs",
		Long: `Manage curated question/answer training pairs.

Matched pairs are returned verbatim to visitors before any content
search or AI provider call. New and edited questions are embedded on
the next 'sitechat embed' run.

Examples:
  sitechat train add "Do you ship abroad?" "Yes, we ship worldwide."
  sitechat train add --intent pricing "What does it cost?" "Plans start at $10/month."
  sitechat train list
  sitechat train remove 4f8a...`,
	}

	addCmd := &cobra.Command{
		Use:   "add <question> <answer>",
		Short: "Add a training pair",
		Args:  cobra.ExactArgs(2),
		RunE:  runTrainAdd,
	}
	addCmd.Flags().StringVar(&trainIntent, "intent", "", "Intent label for the pair")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List training pairs",
		RunE:  runTrainList,
	}

	removeCmd := &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a training pair",
		Args:  cobra.ExactArgs(1),
		RunE:  runTrainRemove,
	}

	cmd.AddCommand(addCmd)
	cmd.AddCommand(listCmd)
	cmd.AddCommand(removeCmd)

	return cmd
}

func runTrainAdd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	store, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	pair := models.TrainingPair{
		ID:       uuid.New().String(),
		Question: args[0],
		Answer:   args[1],
		Intent:   trainIntent,
	}
	if err := store.Training.Save(context.Background(), pair); err != nil {
		return fmt.Errorf("saving training pair: %w", err)
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Added training pair %s (run 'sitechat embed' to index it)\n", pair.ID)
	}
	return nil
}

func runTrainList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	store, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	pairs, err := store.Training.ListAll(context.Background())
	if err != nil {
		return fmt.Errorf("listing training pairs: %w", err)
	}

	if len(pairs) == 0 {
		if !quiet {
			fmt.Fprintln(cmd.OutOrStdout(), "No training pairs yet. Add one with 'sitechat train add'.")
		}
		return nil
	}

	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(pairs, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID\tINTENT\tEMBEDDING\tQUESTION\tANSWER\n")
	fmt.Fprintf(w, "--\t------\t---------\t--------\t------\n")

	for _, pair := range pairs {
		intent := pair.Intent
		if intent == "" {
			intent = "(none)"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			truncate(pair.ID, 12),
			intent,
			pair.EmbeddingStatus,
			truncate(pair.Question, 40),
			truncate(pair.Answer, 40))
	}
	w.Flush()

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "\n%d pair(s)\n", len(pairs))
	}
	return nil
}

func runTrainRemove(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	store, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	if err := store.Training.Delete(context.Background(), args[0]); err != nil {
		return fmt.Errorf("removing training pair: %w", err)
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Removed training pair %s\n", args[0])
	}
	return nil
}
