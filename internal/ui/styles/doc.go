// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling for the routerchat TUI.

All colors are Lip Gloss AdaptiveColor values so light and dark terminals
both read well.

# Color System (colors.go)

  - Cyan: brand, focus, the selected model
  - Violet: the answer panel and model badge
  - Emerald: attachment chips and success notices
  - Amber: loading and capability hints
  - Rose: the error banner

Surface and text tokens follow a zinc scale.

# Theme (theme.go)

Theme groups the lipgloss styles used by components and the chat view.
Build one with NewTheme at start-up.
*/
package styles
