// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/routerchat/internal/registry"
	"github.com/jeranaias/routerchat/internal/ui/styles"
)

// =============================================================================
// HEADER COMPONENT
// =============================================================================

// Header is the one-line title bar.
type Header struct {
	Title string
	Model registry.Model
	Caps  registry.Capabilities
	Width int
	theme *styles.Theme
}

// NewHeader creates a header with the default title.
func NewHeader(theme *styles.Theme) *Header {
	return &Header{
		Title: "routerchat",
		Width: 80,
		theme: theme,
	}
}

// SetWidth updates the available width.
func (h *Header) SetWidth(width int) {
	h.Width = width
}

// SetModel updates the selected model and its capabilities.
func (h *Header) SetModel(m registry.Model, caps registry.Capabilities) {
	h.Model = m
	h.Caps = caps
}

// CapabilityTags returns the short capability markers for caps.
func CapabilityTags(caps registry.Capabilities) []string {
	var tags []string
	if caps.Vision {
		tags = append(tags, "vision")
	}
	if caps.FileAttach {
		tags = append(tags, "files")
	}
	return tags
}

// View renders the header.
func (h *Header) View() string {
	width := maxInt(h.Width, 20)
	inner := width - 2

	brand := h.theme.HeaderBrand.Render(h.Title)
	right := ""
	if tags := CapabilityTags(h.Caps); len(tags) > 0 {
		right = h.theme.HeaderCaps.Render("[" + strings.Join(tags, " ") + "]")
	}

	room := inner - lipgloss.Width(brand) - lipgloss.Width(right) - 2
	label := h.Model.ShortLabel
	if label == "" {
		label = h.Model.Label
	}
	model := h.theme.HeaderModel.Render(truncate(label, room))

	gap := inner - lipgloss.Width(brand) - lipgloss.Width(model) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	left := brand + " " + model
	line := left + strings.Repeat(" ", maxInt(gap-1, 0)) + right
	return h.theme.Header.Width(width).Render(line)
}
