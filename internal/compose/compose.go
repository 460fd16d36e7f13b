// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package compose builds the outbound chat message from the prompt, the
// pending attachments and the selected model's capabilities.
//
// Parts are always ordered text, then image, then file. When only
// attachments are usable a fixed instruction stands in for the prompt.
package compose

import (
	"errors"
	"strings"

	"github.com/jeranaias/routerchat/internal/attachment"
	"github.com/jeranaias/routerchat/internal/cloud"
	"github.com/jeranaias/routerchat/internal/registry"
)

// FallbackText replaces an empty prompt when attachments are sent.
const FallbackText = "Please analyze the attached item(s)."

// ErrEmpty means there is nothing to send. Callers treat it as a silent
// no-op rather than a user-visible error.
var ErrEmpty = errors.New("nothing to submit")

// Input is everything the composer looks at.
type Input struct {
	Prompt       string
	Image        *attachment.Image
	File         *attachment.File
	Capabilities registry.Capabilities
}

// Usable reports which inputs would contribute parts.
func (in Input) Usable() (hasText, hasImage, hasFile bool) {
	hasText = strings.TrimSpace(in.Prompt) != ""
	hasImage = in.Capabilities.Vision && in.Image != nil && in.Image.DataURI != ""
	hasFile = in.Capabilities.FileAttach && in.File != nil && in.File.Content != ""
	return
}

// Empty reports whether Compose would return ErrEmpty.
func (in Input) Empty() bool {
	t, i, f := in.Usable()
	return !t && !i && !f
}

// Compose returns the single user message to send, or ErrEmpty.
func Compose(in Input) (cloud.ChatMessage, error) {
	hasText, hasImage, hasFile := in.Usable()
	if !hasText && !hasImage && !hasFile {
		return cloud.ChatMessage{}, ErrEmpty
	}

	prompt := strings.TrimSpace(in.Prompt)
	parts := make([]cloud.ContentPart, 0, 3)

	switch {
	case hasText:
		parts = append(parts, cloud.TextPart(prompt))
	case hasImage || hasFile:
		parts = append(parts, cloud.TextPart(FallbackText))
	}
	if hasImage {
		parts = append(parts, cloud.ImagePart(in.Image.DataURI))
	}
	if hasFile {
		parts = append(parts, cloud.TextPart(FileBlock(*in.File)))
	}

	if len(parts) == 0 {
		parts = append(parts, cloud.TextPart(prompt))
	}
	return cloud.NewUserMessage(parts...), nil
}

// FileBlock formats a file attachment as a labeled text block.
func FileBlock(f attachment.File) string {
	return "File: " + f.Name + "\n\n" + f.Content
}
