// ABOUTME: Tests for train command and its subcommands
// ABOUTME: Verifies command structure, flags, and argument validation

package commands

import (
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestNewTrainCmd(t *testing.T) {
	cmd := NewTrainCmd()

	if cmd.Use != "train" {
		t.Errorf("Use = %q, want %q", cmd.Use, "train")
	}

	if cmd.Short == "" {
		t.Error("Short description should not be empty")
	}
}

func TestTrainCmd_Subcommands(t *testing.T) {
	cmd := NewTrainCmd()

	expectedSubcommands := []string{
		"add",
		"list",
		"remove",
	}

	for _, subCmdName := range expectedSubcommands {
		t.Run(subCmdName, func(t *testing.T) {
			if findSubcommand(cmd, subCmdName) == nil {
				t.Errorf("Subcommand %q not found", subCmdName)
			}
		})
	}
}

func TestTrainAddCmd_IntentFlag(t *testing.T) {
	addCmd := findSubcommand(NewTrainCmd(), "add")
	if addCmd == nil {
		t.Fatal("add subcommand not found")
	}

	intentFlag := addCmd.Flags().Lookup("intent")
	if intentFlag == nil {
		t.Fatal("--intent flag not found")
	}

	if intentFlag.DefValue != "" {
		t.Errorf("--intent default = %q, want empty", intentFlag.DefValue)
	}
}

func TestTrainAddCmd_RequiresTwoArgs(t *testing.T) {
	addCmd := findSubcommand(NewTrainCmd(), "add")
	if addCmd == nil {
		t.Fatal("add subcommand not found")
	}

	if err := addCmd.Args(addCmd, []string{"only question"}); err == nil {
		t.Error("add should reject a single argument")
	}
	if err := addCmd.Args(addCmd, []string{"question", "answer"}); err != nil {
		t.Errorf("add should accept two arguments, got error: %v", err)
	}
}

func findSubcommand(cmd *cobra.Command, name string) *cobra.Command {
	for _, sub := range cmd.Commands() {
		if sub.Use == name || strings.HasPrefix(sub.Use, name+" ") {
			return sub
		}
	}
	return nil
}
