// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/jeranaias/routerchat/internal/registry"
	"github.com/jeranaias/routerchat/internal/ui/styles"
)

// ModelPicker is the model selection overlay.
type ModelPicker struct {
	catalog *registry.Catalog
	cursor  int
	Width   int
	theme   *styles.Theme
}

// NewModelPicker creates a picker over cat.
func NewModelPicker(theme *styles.Theme, cat *registry.Catalog) *ModelPicker {
	return &ModelPicker{catalog: cat, theme: theme, Width: 60}
}

// Focus places the cursor on id.
func (p *ModelPicker) Focus(id string) {
	if i := p.catalog.IndexOf(id); i >= 0 {
		p.cursor = i
	}
}

// Up moves the cursor up, wrapping around.
func (p *ModelPicker) Up() {
	n := p.catalog.Len()
	p.cursor = (p.cursor - 1 + n) % n
}

// Down moves the cursor down, wrapping around.
func (p *ModelPicker) Down() {
	p.cursor = (p.cursor + 1) % p.catalog.Len()
}

// Selected returns the model under the cursor.
func (p *ModelPicker) Selected() registry.Model {
	return p.catalog.Models()[p.cursor]
}

// View renders the list.
func (p *ModelPicker) View() string {
	width := maxInt(p.Width, 30)
	var b strings.Builder
	b.WriteString(p.theme.HeaderBrand.Render("Select a model"))
	b.WriteString("\n\n")
	for i, m := range p.catalog.Models() {
		prefix := "  "
		style := p.theme.PickerItem
		if i == p.cursor {
			prefix = "> "
			style = p.theme.PickerSelected
		}
		caps := ""
		if tags := CapabilityTags(p.catalog.Capabilities(m.ID)); len(tags) > 0 {
			caps = " " + p.theme.PickerCaps.Render("["+strings.Join(tags, " ")+"]")
		}
		b.WriteString(style.Render(prefix + truncate(m.Label, width-20)))
		b.WriteString(caps)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(p.theme.ShortcutDesc.Render("enter select  esc cancel"))
	return p.theme.PickerBox.Width(width).Render(b.String())
}
