// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/jeranaias/routerchat/internal/ui/styles"
)

// ErrorBanner renders the current error, or "" when there is none.
func ErrorBanner(theme *styles.Theme, message string, width int) string {
	if message == "" {
		return ""
	}
	text := styles.StatusIndicators.Error + " " + message
	return theme.ErrorBanner.Width(maxInt(width, 10)).Render(text)
}
