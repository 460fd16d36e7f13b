// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package compose

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/routerchat/internal/attachment"
	"github.com/jeranaias/routerchat/internal/cloud"
	"github.com/jeranaias/routerchat/internal/registry"
)

var (
	vision = registry.Capabilities{Vision: true}
	full   = registry.Capabilities{Vision: true, FileAttach: true}
	none   = registry.Capabilities{}

	img  = &attachment.Image{Name: "a.png", DataURI: "data:image/png;base64,AAAA"}
	file = &attachment.File{Name: "notes.md", Content: "# Notes"}
)

func TestCompose_EmptyRejected(t *testing.T) {
	tests := []struct {
		name string
		in   Input
	}{
		{"nothing", Input{Capabilities: full}},
		{"whitespace prompt", Input{Prompt: "  \n\t", Capabilities: full}},
		{"image on text model", Input{Image: img, Capabilities: none}},
		{"file on vision-only model", Input{File: file, Capabilities: vision}},
		{"empty file content", Input{File: &attachment.File{Name: "e.txt"}, Capabilities: full}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.in.Empty())
			_, err := Compose(tt.in)
			assert.ErrorIs(t, err, ErrEmpty)
		})
	}
}

func TestCompose_ImageOnlyUsesFallback(t *testing.T) {
	msg, err := Compose(Input{Image: img, Capabilities: vision})
	require.NoError(t, err)

	assert.Equal(t, "user", msg.Role)
	require.Len(t, msg.Content, 2)
	assert.Equal(t, cloud.TextPart("Please analyze the attached item(s)."), msg.Content[0])
	assert.Equal(t, cloud.PartImage, msg.Content[1].Type)
	assert.Equal(t, img.DataURI, msg.Content[1].ImageURL.URL)
}

func TestCompose_OrderTextImageFile(t *testing.T) {
	msg, err := Compose(Input{Prompt: "  describe  ", Image: img, File: file, Capabilities: full})
	require.NoError(t, err)

	require.Len(t, msg.Content, 3)
	assert.Equal(t, "describe", msg.Content[0].Text)
	assert.Equal(t, cloud.PartImage, msg.Content[1].Type)
	assert.Equal(t, "File: notes.md\n\n# Notes", msg.Content[2].Text)
}

func TestCompose_FileOnly(t *testing.T) {
	msg, err := Compose(Input{File: file, Capabilities: full})
	require.NoError(t, err)
	require.Len(t, msg.Content, 2)
	assert.Equal(t, FallbackText, msg.Content[0].Text)
	assert.Equal(t, cloud.PartText, msg.Content[1].Type)
}

func TestCompose_IgnoresUnsupportedAttachments(t *testing.T) {
	msg, err := Compose(Input{Prompt: "hi", Image: img, File: file, Capabilities: none})
	require.NoError(t, err)
	require.Len(t, msg.Content, 1)
	assert.Equal(t, "hi", msg.Content[0].Text)
}

func TestCompose_TextOnly(t *testing.T) {
	msg, err := Compose(Input{Prompt: "hello", Capabilities: vision})
	require.NoError(t, err)
	assert.Equal(t, []cloud.ContentPart{cloud.TextPart("hello")}, msg.Content)
}
