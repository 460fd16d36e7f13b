// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package registry holds the static catalog of selectable models.
//
// A model is an immutable {ID, Label, ShortLabel} triple. Optional
// capabilities (vision input, text-file attachment) are not stored on the
// model itself; they are derived from set membership and exposed through
// Catalog.Capabilities so callers consult one lookup instead of scattering
// per-model conditionals.
//
// The catalog is built once at start-up, either from the built-in list or
// from [[models]] entries in the config file, and never mutated afterwards.
package registry
