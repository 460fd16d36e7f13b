// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package attachment

// Gen tags an in-progress read with the slot generation it started under.
type Gen uint64

// Slots is the pending image and file. It is a value type: every method
// returns the updated copy and never mutates the receiver.
type Slots struct {
	Image *Image
	File  *File

	imageGen Gen
	fileGen  Gen
}

// ImageGen returns the current image slot generation.
func (s Slots) ImageGen() Gen { return s.imageGen }

// FileGen returns the current file slot generation.
func (s Slots) FileGen() Gen { return s.fileGen }

// BeginImage invalidates any read in progress and returns the generation
// the new read must present on completion.
func (s Slots) BeginImage() (Slots, Gen) {
	s.imageGen++
	return s, s.imageGen
}

// BeginFile is BeginImage for the file slot.
func (s Slots) BeginFile() (Slots, Gen) {
	s.fileGen++
	return s, s.fileGen
}

// CompleteImage stores img if gen is current. ok is false for stale reads.
func (s Slots) CompleteImage(gen Gen, img Image) (Slots, bool) {
	if gen != s.imageGen {
		return s, false
	}
	s.Image = &img
	return s, true
}

// CompleteFile stores f if gen is current. ok is false for stale reads.
func (s Slots) CompleteFile(gen Gen, f File) (Slots, bool) {
	if gen != s.fileGen {
		return s, false
	}
	s.File = &f
	return s, true
}

// ImageCurrent reports whether a read started at gen is still wanted.
func (s Slots) ImageCurrent(gen Gen) bool { return gen == s.imageGen }

// FileCurrent reports whether a read started at gen is still wanted.
func (s Slots) FileCurrent(gen Gen) bool { return gen == s.fileGen }

// ClearImage drops the image and invalidates reads in flight.
func (s Slots) ClearImage() Slots {
	s.Image = nil
	s.imageGen++
	return s
}

// ClearFile drops the file and invalidates reads in flight.
func (s Slots) ClearFile() Slots {
	s.File = nil
	s.fileGen++
	return s
}

// Clear drops both attachments.
func (s Slots) Clear() Slots {
	return s.ClearImage().ClearFile()
}

// Empty reports whether nothing is attached.
func (s Slots) Empty() bool {
	return s.Image == nil && s.File == nil
}
