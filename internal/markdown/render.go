// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package markdown renders answers for the terminal and pulls fenced code
// blocks out of them for copying.
package markdown

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
)

// Style names accepted besides a JSON style file path.
const (
	StyleAuto  = "auto"
	StyleDark  = "dark"
	StyleLight = "light"
	StyleNoTTY = "notty"
)

// =============================================================================
// RENDERER
// =============================================================================

// Renderer wraps a glamour renderer that is rebuilt when the width changes.
// Render never fails; on error it returns the input unchanged.
type Renderer struct {
	mu    sync.Mutex
	style string
	width int
	term  *glamour.TermRenderer
}

// NewRenderer creates a renderer. "auto" resolves to dark or light once,
// from the terminal background, so rendering inside the UI never queries
// the terminal.
func NewRenderer(style string, width int) *Renderer {
	return &Renderer{style: ResolveStyle(style), width: width}
}

// ResolveStyle maps "auto" and "" to a concrete style.
func ResolveStyle(style string) string {
	switch strings.ToLower(strings.TrimSpace(style)) {
	case "", StyleAuto:
		if termenv.EnvColorProfile() == termenv.Ascii {
			return StyleNoTTY
		}
		if termenv.HasDarkBackground() {
			return StyleDark
		}
		return StyleLight
	default:
		return style
	}
}

// Style returns the resolved style.
func (r *Renderer) Style() string {
	return r.style
}

// SetWidth changes the wrap width, dropping the cached renderer.
func (r *Renderer) SetWidth(width int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if width != r.width {
		r.width = width
		r.term = nil
	}
}

// Render renders md, returning md itself if glamour fails.
func (r *Renderer) Render(md string) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.term == nil {
		term, err := r.build()
		if err != nil {
			return md
		}
		r.term = term
	}

	out, err := r.term.Render(md)
	if err != nil {
		return md
	}
	return out
}

func (r *Renderer) build() (*glamour.TermRenderer, error) {
	opts := []glamour.TermRendererOption{glamour.WithEmoji()}
	if r.width > 0 {
		opts = append(opts, glamour.WithWordWrap(r.width))
	}
	switch r.style {
	case StyleDark, StyleLight, StyleNoTTY, "dracula", "pink", "ascii", "tokyo-night":
		opts = append(opts, glamour.WithStandardStyle(r.style))
	default:
		opts = append(opts, glamour.WithStylePath(r.style))
	}
	return glamour.NewTermRenderer(opts...)
}
