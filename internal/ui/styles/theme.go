// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds the styles used across the chat screen.
type Theme struct {
	IsDark       bool
	ColorProfile termenv.Profile

	// Header
	Header      lipgloss.Style
	HeaderBrand lipgloss.Style
	HeaderModel lipgloss.Style
	HeaderCaps  lipgloss.Style

	// Answer panel
	AnswerPanel lipgloss.Style
	AnswerBadge lipgloss.Style
	Placeholder lipgloss.Style
	Cursor      lipgloss.Style

	// Error banner
	ErrorBanner lipgloss.Style

	// Prompt area
	PromptBox        lipgloss.Style
	PromptBoxFocused lipgloss.Style
	Chip             lipgloss.Style
	ChipLabel        lipgloss.Style

	// Quick actions
	QuickAction         lipgloss.Style
	QuickActionSelected lipgloss.Style

	// Model picker
	PickerBox      lipgloss.Style
	PickerItem     lipgloss.Style
	PickerSelected lipgloss.Style
	PickerCaps     lipgloss.Style

	// Status bar
	StatusBar    lipgloss.Style
	StatusAccent lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style
	Notice       lipgloss.Style
}

// NewTheme detects the terminal and builds the styles.
func NewTheme() *Theme {
	t := &Theme{
		IsDark:       termenv.HasDarkBackground(),
		ColorProfile: termenv.ColorProfile(),
	}
	t.initStyles()
	return t
}

func (t *Theme) initStyles() {
	t.Header = lipgloss.NewStyle().
		Padding(0, 1).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(Overlay)
	t.HeaderBrand = lipgloss.NewStyle().Bold(true).Foreground(Cyan)
	t.HeaderModel = lipgloss.NewStyle().Foreground(TextPrimary)
	t.HeaderCaps = lipgloss.NewStyle().Foreground(Amber)

	t.AnswerPanel = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Violet).
		Padding(0, 1)
	t.AnswerBadge = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Violet).
		Bold(true).
		Padding(0, 1)
	t.Placeholder = lipgloss.NewStyle().Foreground(TextMuted).Italic(true)
	t.Cursor = lipgloss.NewStyle().Foreground(Cyan).Bold(true)

	t.ErrorBanner = lipgloss.NewStyle().
		Foreground(Rose).
		Background(RoseDeep).
		Bold(true).
		Padding(0, 1).
		BorderStyle(lipgloss.ThickBorder()).
		BorderLeft(true).
		BorderForeground(Rose)

	t.PromptBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(OverlayBright).
		Padding(0, 1)
	t.PromptBoxFocused = t.PromptBox.BorderForeground(Cyan)
	t.Chip = lipgloss.NewStyle().
		Foreground(Emerald).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Emerald).
		Padding(0, 1)
	t.ChipLabel = lipgloss.NewStyle().Foreground(TextSecondary)

	t.QuickAction = lipgloss.NewStyle().
		Foreground(TextSecondary).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)
	t.QuickActionSelected = t.QuickAction.
		Foreground(Cyan).
		BorderForeground(Cyan)

	t.PickerBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Cyan).
		Padding(0, 1)
	t.PickerItem = lipgloss.NewStyle().Foreground(TextSecondary)
	t.PickerSelected = lipgloss.NewStyle().Foreground(Cyan).Bold(true)
	t.PickerCaps = lipgloss.NewStyle().Foreground(Amber)

	t.StatusBar = lipgloss.NewStyle().Foreground(TextMuted).Padding(0, 1)
	t.StatusAccent = lipgloss.NewStyle().Foreground(Amber)
	t.ShortcutKey = lipgloss.NewStyle().Foreground(Cyan).Bold(true)
	t.ShortcutDesc = lipgloss.NewStyle().Foreground(TextMuted)
	t.Notice = lipgloss.NewStyle().Foreground(Emerald)
}
