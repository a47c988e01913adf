// ABOUTME: CLI commands to manage indexed site content
// ABOUTME: Supports add, list, and remove with embedding lifecycle awareness
package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/harper/sitechat/internal/models"
)

var (
	contentURL  string
	contentFile string
)

// NewContentCmd creates the content command with its subcommands
func NewContentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "content",
		Short: "Manage indexed site content",
		Long: `Manage the site content the chatbot searches over.

Added and edited items are embedded on the next 'sitechat embed' run.

Examples:
  sitechat content add "Shipping policy" "We ship worldwide within 5 days."
  sitechat content add --url https://example.com/faq --file faq.txt "FAQ"
  sitechat content list
  sitechat content remove 4f8a...`,
	}

	addCmd := &cobra.Command{
		Use:   "add <title> [body]",
		Short: "Add a content item",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  runContentAdd,
	}
	addCmd.Flags().StringVar(&contentURL, "url", "", "Canonical URL for the item")
	addCmd.Flags().StringVar(&contentFile, "file", "", "Read the body from file instead of the argument")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List content items",
		RunE:  runContentList,
	}

	removeCmd := &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a content item",
		Args:  cobra.ExactArgs(1),
		RunE:  runContentRemove,
	}

	cmd.AddCommand(addCmd)
	cmd.AddCommand(listCmd)
	cmd.AddCommand(removeCmd)

	return cmd
}

func runContentAdd(cmd *cobra.Command, args []string) error {
	var body string
	if contentFile != "" {
		data, err := os.ReadFile(contentFile)
		if err != nil {
			return fmt.Errorf("reading file: %w", err)
		}
		body = string(data)
	} else if len(args) > 1 {
		body = args[1]
	} else {
		// Read from stdin
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		body = string(data)
	}

	body = strings.TrimSpace(body)
	if body == "" {
		return fmt.Errorf("no body provided")
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

	item := models.ContentItem{
		ID:    uuid.New().String(),
		Title: args[0],
		Body:  body,
		URL:   contentURL,
	}
	if err := store.Content.Save(context.Background(), item); err != nil {
		return fmt.Errorf("saving content item: %w", err)
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Added content item %s (run 'sitechat embed' to index it)\n", item.ID)
	}
	return nil
}

func runContentList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	store, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	items, err := store.Content.ListAll(context.Background())
	if err != nil {
		return fmt.Errorf("listing content: %w", err)
	}

	if len(items) == 0 {
		if !quiet {
			fmt.Fprintln(cmd.OutOrStdout(), "No content yet. Add some with 'sitechat content add'.")
		}
		return nil
	}

	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(items, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID\tEMBEDDING\tTITLE\tURL\n")
	fmt.Fprintf(w, "--\t---------\t-----\t---\n")

	for _, item := range items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			truncate(item.ID, 12),
			item.EmbeddingStatus,
			truncate(item.Title, 40),
			truncate(item.URL, 40))
	}
	w.Flush()

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "\n%d item(s)\n", len(items))
	}
	return nil
}

func runContentRemove(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	store, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	if err := store.Content.Delete(context.Background(), args[0]); err != nil {
		return fmt.Errorf("removing content item: %w", err)
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Removed content item %s\n", args[0])
	}
	return nil
}
