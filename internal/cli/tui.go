// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jeranaias/routerchat/internal/config"
	"github.com/jeranaias/routerchat/internal/markdown"
	"github.com/jeranaias/routerchat/internal/ui/chat"
	"github.com/jeranaias/routerchat/internal/ui/styles"
)

// runTUI starts the Bubble Tea program and the config watcher.
func runTUI(cmd *cobra.Command, a *app) error {
	if !IsTTY() || !IsStdoutTTY() {
		return fmt.Errorf("the chat screen needs a terminal; use `routerchat ask` for pipes")
	}
	if err := a.load(); err != nil {
		return err
	}
	defer a.close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := config.Global()
	m := chat.New(ctx, chat.Options{
		Catalog:        a.catalog,
		Client:         a.client,
		Logger:         a.logger,
		Theme:          styles.NewTheme(),
		Renderer:       markdown.NewRenderer(cfg.UI.GlamourStyle, cfg.UI.WordWrap),
		Limits:         cfg.Limits(),
		RevealInterval: cfg.RevealInterval(),
		DefaultModel:   cfg.UI.DefaultModel,
		WordWrap:       cfg.UI.WordWrap,
	})

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	path, err := a.resolveConfigPath()
	if err == nil {
		w, werr := config.NewWatcher(path, func(next *config.Config) {
			p.Send(chat.CredentialsChangedMsg{Configured: a.reloadCredentials(next)})
		}, a.logger)
		if werr != nil {
			a.logger.Warn("config watch disabled", "error", werr)
		} else if werr = w.Watch(); werr != nil {
			a.logger.Warn("config watch disabled", "error", werr)
		} else {
			defer w.Close()
		}
	}

	_, err = p.Run()
	return err
}
