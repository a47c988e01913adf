// ABOUTME: CLI command to send a message through the chat pipeline
// ABOUTME: Prints the final response with intent, confidence, and source
package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	chatSession string
)

// NewChatCmd creates the chat command
func NewChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat <message>",
		Short: "Send a message through the pipeline",
		Long: `Send a visitor message through the full chat pipeline and
print the response.

Examples:
  sitechat chat "How much does shipping cost?"
  sitechat chat --session abc123 "What about to Canada?"
  sitechat chat --format json "Do you offer refunds?"`,
		Args: cobra.ExactArgs(1),
		RunE: runChat,
	}

	cmd.Flags().StringVar(&chatSession, "session", "", "Conversation session ID (generated when omitted)")

	return cmd
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	store, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	engine, err := buildEngine(cfg, store)
	if err != nil {
		return err
	}

	result, err := engine.ProcessMessage(context.Background(), chatSession, args[0])
	if err != nil {
		return fmt.Errorf("processing message: %w", err)
	}

	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), result.Response)
	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "\n[intent=%s confidence=%.2f source=%s]\n",
			result.Intent, result.Confidence, result.Source)
		if result.RequiresHuman {
			fmt.Fprintln(cmd.OutOrStdout(), "[escalation suggested: connect a human agent]")
		}
		for _, suggestion := range result.Suggestions {
			fmt.Fprintf(cmd.OutOrStdout(), "[suggested action: %s]\n", suggestion)
		}
	}

	return nil
}
