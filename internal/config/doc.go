// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for routerchat.
//
// Configuration is TOML with defaults, environment overrides and validation.
//
// # Key Types
//
//   - Config: top-level settings
//   - CloudConfig: endpoint, credential and identification headers
//   - AttachmentConfig: file and image size limits
//   - UIConfig: reveal cadence, wrapping, markdown style, default model
//   - LogConfig: log level and destination
//   - ModelConfig: optional [[models]] entries replacing the built-in roster
//   - Watcher: reloads the file when it changes on disk
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (ROUTERCHAT_*, OPENROUTER_API_KEY)
//   - ~/.routerchat/config.toml
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	catalog, err := cfg.Catalog()
package config
