// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/jeranaias/routerchat/internal/ui/styles"
)

// =============================================================================
// STATUS BAR COMPONENT
// =============================================================================

// StatusBar is the bottom line of the screen.
type StatusBar struct {
	Tokens      int
	ExactTokens bool
	Loading     bool
	Revealed    int
	Total       int
	Notice      string
	Width       int
	theme       *styles.Theme
}

// Shortcut is a key hint shown on the right of the bar.
type Shortcut struct {
	Key  string
	Desc string
}

// DefaultShortcuts are the hints shown when there is room.
var DefaultShortcuts = []Shortcut{
	{Key: "ctrl+s", Desc: "send"},
	{Key: "ctrl+t", Desc: "model"},
	{Key: "ctrl+f", Desc: "attach"},
	{Key: "ctrl+l", Desc: "clear"},
	{Key: "ctrl+c", Desc: "quit"},
}

// NewStatusBar creates an empty status bar.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{theme: theme, Width: 80}
}

// TokenLabel formats the prompt token count. Heuristic counts carry a "~".
func TokenLabel(n int, exact bool) string {
	if n == 0 {
		return "0 tokens"
	}
	prefix := "~"
	if exact {
		prefix = ""
	}
	unit := "tokens"
	if n == 1 {
		unit = "token"
	}
	return fmt.Sprintf("%s%s %s", prefix, humanize.Comma(int64(n)), unit)
}

// View renders the status bar.
func (s *StatusBar) View() string {
	t := s.theme
	var left []string
	left = append(left, t.StatusAccent.Render(TokenLabel(s.Tokens, s.ExactTokens)))
	if s.Loading {
		left = append(left, t.StatusAccent.Render("waiting for reply"))
	} else if s.Total > 0 && s.Revealed < s.Total {
		left = append(left, fmt.Sprintf("%d%%", s.Revealed*100/s.Total))
	}
	if s.Notice != "" {
		left = append(left, t.Notice.Render(s.Notice))
	}
	leftStr := strings.Join(left, "  ")

	var hints []string
	for _, sc := range DefaultShortcuts {
		hints = append(hints, t.ShortcutKey.Render(sc.Key)+" "+t.ShortcutDesc.Render(sc.Desc))
	}
	right := strings.Join(hints, "  ")

	width := maxInt(s.Width, 20)
	gap := width - 2 - lipgloss.Width(leftStr) - lipgloss.Width(right)
	if gap < 2 {
		// Not enough room for the hints.
		return t.StatusBar.Width(width).Render(leftStr)
	}
	return t.StatusBar.Width(width).Render(leftStr + strings.Repeat(" ", gap) + right)
}
