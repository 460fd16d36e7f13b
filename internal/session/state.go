// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"github.com/jeranaias/routerchat/internal/attachment"
	"github.com/jeranaias/routerchat/internal/cloud"
	"github.com/jeranaias/routerchat/internal/compose"
	"github.com/jeranaias/routerchat/internal/registry"
)

// =============================================================================
// STATE
// =============================================================================

// Phase is the request lifecycle position derived from State.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseInFlight
	PhaseAnswered
	PhaseFailed
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseInFlight:
		return "in-flight"
	case PhaseAnswered:
		return "answered"
	case PhaseFailed:
		return "failed"
	default:
		return "idle"
	}
}

// State is the session aggregate. Treat it as a value: Apply returns a new
// State and never mutates its argument.
type State struct {
	Model       registry.Model
	Prompt      string
	Attachments attachment.Slots
	Loading     bool
	Err         string
	Answer      string

	// RequestID identifies the in-flight or last settled submission.
	RequestID string

	catalog *registry.Catalog
}

// NewState returns the initial state with the first catalog model selected.
func NewState(cat *registry.Catalog) State {
	return State{Model: cat.First(), catalog: cat}
}

// Catalog returns the model catalog the state was built with.
func (s State) Catalog() *registry.Catalog {
	return s.catalog
}

// Capabilities returns the selected model's capabilities.
func (s State) Capabilities() registry.Capabilities {
	if s.catalog == nil {
		return registry.Capabilities{}
	}
	return s.catalog.Capabilities(s.Model.ID)
}

// ComposeInput gathers what the composer needs.
func (s State) ComposeInput() compose.Input {
	return compose.Input{
		Prompt:       s.Prompt,
		Image:        s.Attachments.Image,
		File:         s.Attachments.File,
		Capabilities: s.Capabilities(),
	}
}

// CanSubmit reports whether a submit event would do anything.
func (s State) CanSubmit() bool {
	return !s.Loading && !s.ComposeInput().Empty()
}

// Phase derives the lifecycle position.
func (s State) Phase() Phase {
	switch {
	case s.Loading:
		return PhaseInFlight
	case s.Err != "":
		return PhaseFailed
	case s.Answer != "":
		return PhaseAnswered
	default:
		return PhaseIdle
	}
}

// =============================================================================
// EVENTS
// =============================================================================

// Event is a discrete session input.
type Event interface {
	apply(State) State
}

// Apply returns the state after ev.
func Apply(s State, ev Event) State {
	return ev.apply(s)
}

// SelectModel switches models. Unknown identifiers are ignored. Losing
// file-attachment capability drops the pending file.
type SelectModel struct{ ID string }

func (e SelectModel) apply(s State) State {
	if s.catalog == nil {
		return s
	}
	m, ok := s.catalog.Lookup(e.ID)
	if !ok {
		return s
	}
	s.Model = m
	if !s.catalog.Capabilities(m.ID).FileAttach {
		s.Attachments = s.Attachments.ClearFile()
	}
	return s
}

// SetPrompt replaces the prompt text. Quick actions use it too.
type SetPrompt struct{ Text string }

func (e SetPrompt) apply(s State) State {
	s.Prompt = e.Text
	return s
}

// ImageReadStarted invalidates earlier image reads. The read must be tagged
// with Attachments.ImageGen() of the resulting state.
type ImageReadStarted struct{}

func (ImageReadStarted) apply(s State) State {
	s.Attachments, _ = s.Attachments.BeginImage()
	return s
}

// ImageRead delivers a finished image read.
type ImageRead struct {
	Gen   attachment.Gen
	Image attachment.Image
	Err   error
}

func (e ImageRead) apply(s State) State {
	if !s.Attachments.ImageCurrent(e.Gen) {
		return s
	}
	if e.Err != nil {
		s.Err = e.Err.Error()
		return s
	}
	s.Attachments, _ = s.Attachments.CompleteImage(e.Gen, e.Image)
	return s
}

// FileReadStarted invalidates earlier file reads.
type FileReadStarted struct{}

func (FileReadStarted) apply(s State) State {
	s.Attachments, _ = s.Attachments.BeginFile()
	return s
}

// FileRead delivers a finished file read. A rejection keeps any file
// already attached; success clears the current error.
type FileRead struct {
	Gen  attachment.Gen
	File attachment.File
	Err  error
}

func (e FileRead) apply(s State) State {
	if !s.Attachments.FileCurrent(e.Gen) {
		return s
	}
	if e.Err != nil {
		s.Err = e.Err.Error()
		return s
	}
	s.Attachments, _ = s.Attachments.CompleteFile(e.Gen, e.File)
	s.Err = ""
	return s
}

// ClearImage drops the pending image.
type ClearImage struct{}

func (ClearImage) apply(s State) State {
	s.Attachments = s.Attachments.ClearImage()
	return s
}

// ClearFile drops the pending file.
type ClearFile struct{}

func (ClearFile) apply(s State) State {
	s.Attachments = s.Attachments.ClearFile()
	return s
}

// ClearAll empties the prompt and attachments. Answer and error stay.
type ClearAll struct{}

func (ClearAll) apply(s State) State {
	s.Prompt = ""
	s.Attachments = s.Attachments.Clear()
	return s
}

// SubmitRequested starts a submission if one is allowed.
type SubmitRequested struct {
	HasCredential bool
	RequestID     string
}

func (e SubmitRequested) apply(s State) State {
	if !s.CanSubmit() {
		return s
	}
	s.Answer = ""
	s.Err = ""
	if !e.HasCredential {
		s.Err = cloud.ErrNotConfigured.Error()
		return s
	}
	s.Loading = true
	s.RequestID = e.RequestID
	return s
}

// Settled ends the in-flight submission. Results for any other request are
// ignored.
type Settled struct {
	RequestID string
	Answer    string
	Err       error
}

func (e Settled) apply(s State) State {
	if !s.Loading || e.RequestID != s.RequestID {
		return s
	}
	s.Loading = false
	if e.Err != nil {
		s.Err = e.Err.Error()
		return s
	}
	s.Answer = e.Answer
	s.Attachments = s.Attachments.Clear()
	return s
}
