// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/jeranaias/routerchat/internal/registry"
	"github.com/jeranaias/routerchat/internal/ui/styles"
)

func modelsCmd(a *app) *cobra.Command {
	var idsOnly bool
	cmd := &cobra.Command{
		Use:   "models",
		Short: "List the available models and their capabilities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(); err != nil {
				return err
			}
			defer a.close()

			if idsOnly {
				for _, m := range a.catalog.Models() {
					fmt.Fprintln(cmd.OutOrStdout(), m.ID)
				}
				return nil
			}
			writeModelTable(cmd.OutOrStdout(), a.catalog, a.newController().State().Model.ID)
			return nil
		},
	}
	cmd.Flags().BoolVar(&idsOnly, "ids", false, "print only model ids")
	return cmd
}

// capabilityText lists what a model accepts besides text.
func capabilityText(caps registry.Capabilities) string {
	var parts []string
	if caps.Vision {
		parts = append(parts, "image")
	}
	if caps.FileAttach {
		parts = append(parts, "file")
	}
	if len(parts) == 0 {
		return "text"
	}
	return "text+" + strings.Join(parts, "+")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "-"
}

// writeModelTable prints the catalog, marking current with "*".
func writeModelTable(w io.Writer, cat *registry.Catalog, current string) {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(styles.Overlay)).
		Headers("", "ID", "LABEL", "SHORT", "VISION", "FILES").
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return s.Bold(true).Foreground(styles.Cyan)
			}
			return s
		})

	for _, m := range cat.Models() {
		mark := ""
		if m.ID == current {
			mark = "*"
		}
		caps := cat.Capabilities(m.ID)
		t.Row(mark, m.ID, m.Label, m.ShortLabel, yesNo(caps.Vision), yesNo(caps.FileAttach))
	}
	fmt.Fprintln(w, t.Render())
}
