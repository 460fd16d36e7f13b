// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package registry

import (
	"errors"
	"fmt"
	"strings"
)

// =============================================================================
// TYPES
// =============================================================================

// Model identifies one selectable model on the inference endpoint.
type Model struct {
	ID         string // provider-qualified identifier, e.g. "amazon/nova-2-lite-v1:free"
	Label      string
	ShortLabel string
}

// Capabilities describes which optional inputs a model accepts.
type Capabilities struct {
	Vision     bool
	FileAttach bool
}

// Entry is a model plus its capabilities, used to build a Catalog.
type Entry struct {
	Model
	Capabilities
}

// ErrEmptyCatalog is returned when a catalog would contain no models.
var ErrEmptyCatalog = errors.New("model catalog is empty")

// ErrDuplicateModel is returned when two entries share an identifier.
var ErrDuplicateModel = errors.New("duplicate model id")

// =============================================================================
// CATALOG
// =============================================================================

// Catalog is an ordered, read-only model list with capability lookups.
// The zero value is not usable; build one with New or Default.
type Catalog struct {
	models []Model
	index  map[string]int
	vision map[string]bool
	files  map[string]bool
}

// New builds a catalog from entries, preserving their order.
func New(entries []Entry) (*Catalog, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyCatalog
	}

	c := &Catalog{
		models: make([]Model, 0, len(entries)),
		index:  make(map[string]int, len(entries)),
		vision: make(map[string]bool),
		files:  make(map[string]bool),
	}

	for i, e := range entries {
		id := strings.TrimSpace(e.ID)
		if id == "" {
			return nil, fmt.Errorf("model %d: empty id", i)
		}
		if _, dup := c.index[id]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateModel, id)
		}

		m := e.Model
		m.ID = id
		if m.Label == "" {
			m.Label = id
		}
		if m.ShortLabel == "" {
			m.ShortLabel = m.Label
		}

		c.index[id] = len(c.models)
		c.models = append(c.models, m)
		if e.Vision {
			c.vision[id] = true
		}
		if e.FileAttach {
			c.files[id] = true
		}
	}

	return c, nil
}

// Models returns a copy of the ordered model list.
func (c *Catalog) Models() []Model {
	out := make([]Model, len(c.models))
	copy(out, c.models)
	return out
}

// Len returns the number of models.
func (c *Catalog) Len() int {
	return len(c.models)
}

// First returns the default selection.
func (c *Catalog) First() Model {
	return c.models[0]
}

// Lookup finds a model by identifier.
func (c *Catalog) Lookup(id string) (Model, bool) {
	i, ok := c.index[id]
	if !ok {
		return Model{}, false
	}
	return c.models[i], true
}

// IndexOf returns the position of id in the list, or -1.
func (c *Catalog) IndexOf(id string) int {
	if i, ok := c.index[id]; ok {
		return i
	}
	return -1
}

// Capabilities reports the optional inputs accepted by id.
// Unknown identifiers have no capabilities.
func (c *Catalog) Capabilities(id string) Capabilities {
	return Capabilities{
		Vision:     c.vision[id],
		FileAttach: c.files[id],
	}
}

// VisionIDs returns the vision-capable identifiers in catalog order.
func (c *Catalog) VisionIDs() []string {
	return c.filter(c.vision)
}

// FileIDs returns the file-capable identifiers in catalog order.
func (c *Catalog) FileIDs() []string {
	return c.filter(c.files)
}

func (c *Catalog) filter(set map[string]bool) []string {
	var ids []string
	for _, m := range c.models {
		if set[m.ID] {
			ids = append(ids, m.ID)
		}
	}
	return ids
}
