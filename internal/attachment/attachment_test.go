// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package attachment

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestNewFile_TruncatesLongContent(t *testing.T) {
	data := []byte(strings.Repeat("a", 130000))

	f, err := NewFile("notes.txt", data, DefaultLimits())
	require.NoError(t, err)

	notice := TruncationNotice(120000)
	assert.True(t, f.Truncated)
	assert.Equal(t, 120000+len(notice), len(f.Content))
	assert.True(t, strings.HasSuffix(f.Content, notice))
	assert.Contains(t, notice, "120000")
	assert.Equal(t, "notes.txt", f.Name)
}

func TestNewFile_ShortContentUntouched(t *testing.T) {
	f, err := NewFile("/tmp/a.md", []byte("# hi"), DefaultLimits())
	require.NoError(t, err)
	assert.False(t, f.Truncated)
	assert.Equal(t, "# hi", f.Content)
	assert.Equal(t, "a.md", f.Name)
}

func TestNewFile_RejectsOversize(t *testing.T) {
	data := make([]byte, DefaultMaxFileBytes+1)

	_, err := NewFile("big.log", data, DefaultLimits())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFileTooLarge))
	assert.Equal(t, "File size exceeds 2MB limit.", err.Error())
}

func TestNewFile_ExactlyAtLimitAccepted(t *testing.T) {
	data := make([]byte, DefaultMaxFileBytes)
	for i := range data {
		data[i] = 'x'
	}
	f, err := NewFile("edge.txt", data, DefaultLimits())
	require.NoError(t, err)
	assert.True(t, f.Truncated)
}

func TestReadFile_PrecheckUsesStat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "huge.txt")
	require.NoError(t, os.WriteFile(path, make([]byte, 100), 0o600))

	_, err := ReadFile(path, Limits{MaxFileBytes: 50})
	var se *SizeError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, int64(100), se.Size)
	assert.Equal(t, "File size exceeds 50 B limit.", err.Error())

	f, err := ReadFile(path, DefaultLimits())
	require.NoError(t, err)
	assert.Equal(t, int64(100), f.Size)
}

func TestReadFile_Missing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.txt"), DefaultLimits())
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrFileTooLarge))
}

func TestTruncate_RuneAware(t *testing.T) {
	s := strings.Repeat("é", 10)
	out, cut := Truncate(s, 4)
	require.True(t, cut)
	head := strings.TrimSuffix(out, TruncationNotice(4))
	assert.Equal(t, 4, utf8.RuneCountInString(head))
	assert.True(t, utf8.ValidString(out))

	out, cut = Truncate("abc", 3)
	assert.False(t, cut)
	assert.Equal(t, "abc", out)
}

func TestTruncate_AstralCountsOnce(t *testing.T) {
	s := strings.Repeat("😀", 5)
	out, cut := Truncate(s, 5)
	assert.False(t, cut)
	assert.Equal(t, s, out)

	out, cut = Truncate(s, 3)
	require.True(t, cut)
	assert.Equal(t, "😀😀😀"+TruncationNotice(3), out)
}

func TestNewImage_DataURI(t *testing.T) {
	img, err := NewImage("shot.png", pngHeader, DefaultLimits())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(img.DataURI, "data:image/png;base64,"))
	assert.Equal(t, int64(len(pngHeader)), img.Size)
}

func TestNewImage_NoLimitByDefault(t *testing.T) {
	data := append([]byte{}, pngHeader...)
	data = append(data, make([]byte, 3*DefaultMaxFileBytes)...)
	_, err := NewImage("big.png", data, DefaultLimits())
	assert.NoError(t, err)
}

func TestNewImage_OptionalLimit(t *testing.T) {
	_, err := NewImage("a.png", pngHeader, Limits{MaxImageBytes: 4})
	assert.True(t, errors.Is(err, ErrImageTooLarge))
	assert.False(t, errors.Is(err, ErrFileTooLarge))
}

func TestNewImage_RejectsText(t *testing.T) {
	_, err := NewImage("readme.txt", []byte("hello"), DefaultLimits())
	assert.True(t, errors.Is(err, ErrNotImage))
}

func TestExtensionFilters(t *testing.T) {
	assert.True(t, IsTextFile("a.YAML"))
	assert.True(t, IsTextFile("x.markdown"))
	assert.False(t, IsTextFile("x.go"))
	assert.True(t, IsImageFile("p.JPG"))
	assert.False(t, IsImageFile("p.txt"))
}

func TestFormatLimit(t *testing.T) {
	assert.Equal(t, "2MB", FormatLimit(2*1024*1024))
	assert.Equal(t, "1.5 KiB", FormatLimit(1536))
}

func TestDecodeText(t *testing.T) {
	assert.Equal(t, "plain", DecodeText([]byte("plain")))
	assert.Equal(t, "bom", DecodeText([]byte("\xef\xbb\xbfbom")))

	// "hi" in UTF-16LE with a byte order mark.
	assert.Equal(t, "hi", DecodeText([]byte{0xff, 0xfe, 'h', 0, 'i', 0}))

	bad := DecodeText([]byte("ok\xffok"))
	assert.True(t, utf8.ValidString(bad))
	assert.Contains(t, bad, "�")
}
