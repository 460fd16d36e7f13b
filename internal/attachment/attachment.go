// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package attachment

import (
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Default limits.
const (
	// DefaultMaxFileBytes is the size precheck for text files (2 MiB).
	DefaultMaxFileBytes int64 = 2 * 1024 * 1024

	// DefaultMaxFileChars is the character cap applied after reading.
	DefaultMaxFileChars = 120000
)

// TextExtensions are the file types offered for text attachment.
var TextExtensions = []string{".txt", ".md", ".markdown", ".json", ".js", ".csv", ".log", ".yaml", ".yml", ".xml"}

// ImageExtensions are the file types offered for image attachment.
var ImageExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".webp"}

// ErrFileTooLarge is matched by every size rejection of a text file.
var ErrFileTooLarge = errors.New("file too large")

// ErrImageTooLarge is matched by size rejections of an image when an
// image limit is configured.
var ErrImageTooLarge = errors.New("image too large")

// ErrNotImage is returned when image bytes are not a recognised image type.
var ErrNotImage = errors.New("not an image")

// SizeError reports an attachment rejected by the size precheck.
type SizeError struct {
	Kind  error // ErrFileTooLarge or ErrImageTooLarge
	Size  int64
	Limit int64
}

// Error returns the user-facing message, e.g. "File size exceeds 2MB limit."
func (e *SizeError) Error() string {
	noun := "File"
	if e.Kind == ErrImageTooLarge {
		noun = "Image"
	}
	return fmt.Sprintf("%s size exceeds %s limit.", noun, FormatLimit(e.Limit))
}

// Is lets errors.Is match the kind sentinel.
func (e *SizeError) Is(target error) bool {
	return target == e.Kind
}

// FormatLimit renders whole mebibyte limits as "NMB" and anything else with
// humanize.
func FormatLimit(n int64) string {
	const mib = 1024 * 1024
	if n > 0 && n%mib == 0 {
		return fmt.Sprintf("%dMB", n/mib)
	}
	return humanize.IBytes(uint64(n))
}

// TruncationNotice returns the text appended to truncated file content.
func TruncationNotice(limit int) string {
	return fmt.Sprintf("\n\n[Truncated file content to %d characters to avoid exceeding model limits.]", limit)
}

// Limits bounds attachment sizes. A zero MaxImageBytes means no image limit.
type Limits struct {
	MaxFileBytes  int64
	MaxFileChars  int
	MaxImageBytes int64
}

// DefaultLimits returns the stock limits.
func DefaultLimits() Limits {
	return Limits{
		MaxFileBytes: DefaultMaxFileBytes,
		MaxFileChars: DefaultMaxFileChars,
	}
}

func (l Limits) withDefaults() Limits {
	d := DefaultLimits()
	if l.MaxFileBytes <= 0 {
		l.MaxFileBytes = d.MaxFileBytes
	}
	if l.MaxFileChars <= 0 {
		l.MaxFileChars = d.MaxFileChars
	}
	return l
}

// =============================================================================
// IMAGE
// =============================================================================

// Image is an image encoded as a data URI.
type Image struct {
	Name    string
	DataURI string
	Size    int64
}

// SizeLabel returns the original byte size in human form.
func (i Image) SizeLabel() string {
	return humanize.IBytes(uint64(i.Size))
}

// NewImage encodes raw image bytes. The MIME type is sniffed from the data,
// falling back to the file extension.
func NewImage(name string, data []byte, lim Limits) (Image, error) {
	if lim.MaxImageBytes > 0 && int64(len(data)) > lim.MaxImageBytes {
		return Image{}, &SizeError{Kind: ErrImageTooLarge, Size: int64(len(data)), Limit: lim.MaxImageBytes}
	}

	mt := http.DetectContentType(data)
	if !strings.HasPrefix(mt, "image/") {
		mt = mime.TypeByExtension(strings.ToLower(filepath.Ext(name)))
	}
	if !strings.HasPrefix(mt, "image/") {
		return Image{}, fmt.Errorf("%w: %s", ErrNotImage, filepath.Base(name))
	}
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = mt[:i]
	}

	return Image{
		Name:    filepath.Base(name),
		DataURI: "data:" + mt + ";base64," + base64.StdEncoding.EncodeToString(data),
		Size:    int64(len(data)),
	}, nil
}

// ReadImage loads and encodes the image at path.
func ReadImage(path string, lim Limits) (Image, error) {
	if lim.MaxImageBytes > 0 {
		if info, err := os.Stat(path); err == nil && info.Size() > lim.MaxImageBytes {
			return Image{}, &SizeError{Kind: ErrImageTooLarge, Size: info.Size(), Limit: lim.MaxImageBytes}
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Image{}, fmt.Errorf("read image: %w", err)
	}
	return NewImage(path, data, lim)
}

// =============================================================================
// TEXT FILE
// =============================================================================

// File is a text attachment. Content already includes any truncation notice.
type File struct {
	Name      string
	Content   string
	Size      int64
	Truncated bool
}

// SizeLabel returns the original byte size in human form.
func (f File) SizeLabel() string {
	return humanize.IBytes(uint64(f.Size))
}

// NewFile builds a text attachment from raw bytes, enforcing the byte
// precheck and character cap.
func NewFile(name string, data []byte, lim Limits) (File, error) {
	lim = lim.withDefaults()
	if int64(len(data)) > lim.MaxFileBytes {
		return File{}, &SizeError{Kind: ErrFileTooLarge, Size: int64(len(data)), Limit: lim.MaxFileBytes}
	}

	text := DecodeText(data)
	content, truncated := Truncate(text, lim.MaxFileChars)

	return File{
		Name:      filepath.Base(name),
		Content:   content,
		Size:      int64(len(data)),
		Truncated: truncated,
	}, nil
}

// DecodeText decodes file bytes as UTF-8, switching to UTF-16 when a byte
// order mark says so. The BOM is dropped and invalid sequences become U+FFFD.
func DecodeText(data []byte) string {
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	out, _, err := transform.Bytes(dec, data)
	if err != nil {
		out = data
	}
	text := string(out)
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, "\uFFFD")
	}
	return text
}

// ReadFile stats the file first so oversized files are rejected without
// being read.
func ReadFile(path string, lim Limits) (File, error) {
	lim = lim.withDefaults()
	info, err := os.Stat(path)
	if err != nil {
		return File{}, fmt.Errorf("read file: %w", err)
	}
	if info.IsDir() {
		return File{}, fmt.Errorf("read file: %s is a directory", path)
	}
	if info.Size() > lim.MaxFileBytes {
		return File{}, &SizeError{Kind: ErrFileTooLarge, Size: info.Size(), Limit: lim.MaxFileBytes}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("read file: %w", err)
	}
	return NewFile(path, data, lim)
}

// Truncate caps s at limit runes and appends the notice when it cuts. A
// character outside the BMP counts once.
func Truncate(s string, limit int) (string, bool) {
	if utf8.RuneCountInString(s) <= limit {
		return s, false
	}
	n := 0
	for i := range s {
		if n == limit {
			return s[:i] + TruncationNotice(limit), true
		}
		n++
	}
	return s, false
}

// =============================================================================
// EXTENSION FILTERS
// =============================================================================

// IsTextFile reports whether name has an accepted text extension.
func IsTextFile(name string) bool {
	return hasExt(name, TextExtensions)
}

// IsImageFile reports whether name has an accepted image extension.
func IsImageFile(name string) bool {
	return hasExt(name, ImageExtensions)
}

func hasExt(name string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range exts {
		if e == ext {
			return true
		}
	}
	return false
}
