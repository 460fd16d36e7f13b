// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/routerchat/internal/attachment"
	"github.com/jeranaias/routerchat/internal/registry"
	"github.com/jeranaias/routerchat/internal/ui/styles"
)

// maxChipName bounds the file name shown inside a chip.
const maxChipName = 28

// ChipState is what the chip row needs to know about the attachments.
type ChipState struct {
	Slots        attachment.Slots
	Caps         registry.Capabilities
	ImageLoading bool
	FileLoading  bool
}

// Chips returns one label per pending or loading attachment. An image held
// while the model lacks vision is marked as ignored.
func Chips(cs ChipState) []string {
	var out []string
	switch {
	case cs.ImageLoading:
		out = append(out, "image: reading…")
	case cs.Slots.Image != nil:
		img := cs.Slots.Image
		label := "image: " + truncate(img.Name, maxChipName) + " (" + img.SizeLabel() + ")"
		if !cs.Caps.Vision {
			label += " ignored"
		}
		out = append(out, label)
	}
	switch {
	case cs.FileLoading:
		out = append(out, "file: reading…")
	case cs.Slots.File != nil:
		f := cs.Slots.File
		label := "file: " + truncate(f.Name, maxChipName) + " (" + f.SizeLabel() + ")"
		if f.Truncated {
			label += " truncated"
		}
		out = append(out, label)
	}
	return out
}

// AttachmentChips renders the chip row, or "" when nothing is attached.
func AttachmentChips(theme *styles.Theme, cs ChipState) string {
	labels := Chips(cs)
	if len(labels) == 0 {
		return ""
	}
	rendered := make([]string, 0, len(labels))
	for _, l := range labels {
		rendered = append(rendered, theme.Chip.Render(l))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}
