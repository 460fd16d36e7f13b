// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package attachment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlots_StaleImageReadDiscarded(t *testing.T) {
	var s Slots
	s, gen := s.BeginImage()

	// User clears before the read lands.
	s = s.ClearImage()

	s, ok := s.CompleteImage(gen, Image{Name: "late.png"})
	assert.False(t, ok)
	assert.Nil(t, s.Image)
}

func TestSlots_ReplacedReadOnlyLatestWins(t *testing.T) {
	var s Slots
	s, first := s.BeginFile()
	s, second := s.BeginFile()

	s, ok := s.CompleteFile(second, File{Name: "b.txt"})
	require.True(t, ok)
	s, ok = s.CompleteFile(first, File{Name: "a.txt"})
	require.False(t, ok)

	assert.Equal(t, "b.txt", s.File.Name)
}

func TestSlots_ValueSemantics(t *testing.T) {
	var s Slots
	s2, gen := s.BeginImage()
	s3, _ := s2.CompleteImage(gen, Image{Name: "x"})

	assert.Nil(t, s.Image)
	assert.Nil(t, s2.Image)
	assert.NotNil(t, s3.Image)
	assert.Equal(t, Gen(0), s.ImageGen())
}

func TestSlots_ClearIsIdempotent(t *testing.T) {
	var s Slots
	s = s.ClearFile().ClearFile().Clear()
	assert.True(t, s.Empty())
}

func TestSlots_SlotsIndependent(t *testing.T) {
	var s Slots
	s, ig := s.BeginImage()
	s, fg := s.BeginFile()
	s = s.ClearFile()

	s, ok := s.CompleteImage(ig, Image{Name: "keep.png"})
	assert.True(t, ok)
	assert.False(t, s.FileCurrent(fg))
	assert.True(t, s.ImageCurrent(ig))
	assert.NotNil(t, s.Image)
}
