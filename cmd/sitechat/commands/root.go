// ABOUTME: Root CLI command with global flags and subcommand registration
// ABOUTME: Defines verbose/quiet/format persistent flags shared by all commands
package commands

import (
	"github.com/spf13/cobra"
)

var (
	verbose      bool
	quiet        bool
	outputFormat string
)

const banner = `
███████╗██╗████████╗███████╗ ██████╗██╗  ██╗ █████╗ ████████╗
██╔════╝██║╚══██╔══╝██╔════╝██╔════╝██║  ██║██╔══██╗╚══██╔══╝
███████╗██║   ██║   █████╗  ██║     ███████║███████║   ██║
╚════██║██║   ██║   ██╔══╝  ██║     ██╔══██║██╔══██║   ██║
███████║██║   ██║   ███████╗╚██████╗██║  ██║██║  ██║   ██║
╚══════╝╚═╝   ╚═╝   ╚══════╝ ╚═════╝╚═╝  ╚═╝╚═╝  ╚═╝   ╚═╝
`

// NewRootCmd creates the root command with all subcommands attached
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sitechat",
		Short: "AI chatbot engine for website support",
		Long: banner + `
Sitechat answers visitor questions from curated training pairs,
semantic search over indexed site content, and an AI provider,
in that order of preference.

Run 'sitechat serve' for the HTTP API or 'sitechat mcp' for the
MCP stdio server.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")
	cmd.PersistentFlags().StringVar(&outputFormat, "format", "auto", "Output format (auto, table, json)")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	cmd.AddCommand(NewChatCmd())
	cmd.AddCommand(NewSearchCmd())
	cmd.AddCommand(NewContentCmd())
	cmd.AddCommand(NewTrainCmd())
	cmd.AddCommand(NewEmbedCmd())
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMCPCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}
