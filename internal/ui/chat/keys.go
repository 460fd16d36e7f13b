// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/bubbles/key"
)

// =============================================================================
// KEY MAP DEFINITION
// =============================================================================

// KeyMap defines the chat screen bindings.
type KeyMap struct {
	Submit     key.Binding
	PickModel  key.Binding
	Attach     key.Binding
	DropImage  key.Binding
	DropFile   key.Binding
	ClearAll   key.Binding
	CopyAnswer key.Binding
	CopyCode   key.Binding
	Quick1     key.Binding
	Quick2     key.Binding
	Quick3     key.Binding
	ScrollUp   key.Binding
	ScrollDown key.Binding
	Help       key.Binding
	Cancel     key.Binding
	Quit       key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Submit: key.NewBinding(
			key.WithKeys("ctrl+s", "alt+enter"),
			key.WithHelp("C-s", "send"),
		),
		PickModel: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("C-t", "model"),
		),
		Attach: key.NewBinding(
			key.WithKeys("ctrl+f"),
			key.WithHelp("C-f", "attach"),
		),
		DropImage: key.NewBinding(
			key.WithKeys("alt+i"),
			key.WithHelp("M-i", "drop image"),
		),
		DropFile: key.NewBinding(
			key.WithKeys("alt+f"),
			key.WithHelp("M-f", "drop file"),
		),
		ClearAll: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("C-l", "clear"),
		),
		CopyAnswer: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("C-o", "copy answer"),
		),
		CopyCode: key.NewBinding(
			key.WithKeys("ctrl+y"),
			key.WithHelp("C-y", "copy code"),
		),
		Quick1: key.NewBinding(key.WithKeys("f1"), key.WithHelp("F1", "docs")),
		Quick2: key.NewBinding(key.WithKeys("f2"), key.WithHelp("F2", "optimize")),
		Quick3: key.NewBinding(key.WithKeys("f3"), key.WithHelp("F3", "debug")),
		ScrollUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("PgUp", "scroll up"),
		),
		ScrollDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("PgDn", "scroll down"),
		),
		Help: key.NewBinding(
			key.WithKeys("ctrl+g"),
			key.WithHelp("C-g", "help"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("Esc", "close"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("C-c", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.PickModel, k.Attach, k.ClearAll, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Submit, k.PickModel, k.Attach, k.DropImage, k.DropFile},
		{k.ClearAll, k.CopyAnswer, k.CopyCode, k.ScrollUp, k.ScrollDown},
		{k.Quick1, k.Quick2, k.Quick3, k.Help, k.Quit},
	}
}
