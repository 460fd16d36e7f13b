// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/routerchat/internal/ui/styles"
)

// QuickAction is a preset that replaces the prompt text.
type QuickAction struct {
	Label  string
	Prompt string
}

// QuickActions are the built-in presets, bound to F1..F3.
var QuickActions = []QuickAction{
	{Label: "Write documentation", Prompt: "Help me write documentation for my project"},
	{Label: "Optimize code", Prompt: "Help me optimize this code for performance"},
	{Label: "Debug code", Prompt: "Help me find and fix bugs in my code"},
}

// QuickActionBar renders the presets with their function keys. selected
// is highlighted; pass -1 for none.
func QuickActionBar(theme *styles.Theme, selected int) string {
	items := make([]string, 0, len(QuickActions))
	for i, qa := range QuickActions {
		key := "F" + string(rune('1'+i))
		style := theme.QuickAction
		if i == selected {
			style = theme.QuickActionSelected
		}
		items = append(items, style.Render(key+" "+qa.Label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, items...)
}
