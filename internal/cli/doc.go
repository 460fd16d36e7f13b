// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli wires routerchat's commands.
//
// # Commands
//
//   - (none) / tui: the full-screen chat
//   - ask: one submission, answer on stdout
//   - repl: line-mode chat with history
//   - models: list the model catalog
//   - config: show, path, get, set
//
// Every command goes through the same session.Controller, so validation,
// error text and attachment rules match the TUI.
package cli
