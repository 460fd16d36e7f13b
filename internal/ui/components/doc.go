// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides the building blocks of the routerchat chat screen.

Each component is a small value with a View method (or a plain render
function) styled through a *styles.Theme.

  - Header (header.go) - brand, selected model short label, capabilities
  - ErrorBanner (error.go) - the single current error
  - AttachmentChips (chips.go) - pending image and file with sizes
  - QuickActions (quickactions.go) - preset prompts
  - ModelPicker (picker.go) - model selection overlay
  - StatusBar (statusbar.go) - token estimate, notices, shortcuts
*/
package components
