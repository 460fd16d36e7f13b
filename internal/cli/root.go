// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jeranaias/routerchat/internal/ui/styles"
)

// Version is set by main.
var Version = "dev"

// NewRootCommand builds the command tree. Running it without a subcommand
// starts the TUI.
func NewRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "routerchat",
		Short:         "Chat with OpenRouter models from the terminal",
		Long:          "routerchat sends a prompt, an optional image and an optional text file to an OpenRouter model and shows the markdown reply.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, a)
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "path to config.toml (default: ~/.routerchat/config.toml)")
	root.PersistentFlags().StringVarP(&a.model, "model", "m", "", "model id to start with")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error, off")

	root.AddCommand(tuiCmd(a))
	root.AddCommand(askCmd(a))
	root.AddCommand(replCmd(a))
	root.AddCommand(modelsCmd(a))
	root.AddCommand(configCmd(a))
	return root
}

func tuiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Start the full-screen chat (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, a)
		},
	}
}

// exitCode maps a command error to the process status.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	return 1
}

// Execute runs the root command and returns the process exit status.
func Execute(ctx context.Context) int {
	root := NewRootCommand()
	err := root.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, styles.RenderError(err.Error()))
	}
	return exitCode(err)
}
