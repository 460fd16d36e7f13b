// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package reveal exposes a finished answer as a growing prefix over time.
//
// The Scheduler is a plain state machine driven by ticks; Cmd and Update
// wrap it for Bubble Tea. Every Start bumps a generation number carried by
// the tick messages, so ticks from a replaced answer are dropped and at
// most one timer is ever live.
package reveal

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// DefaultInterval is one character every 12ms (about 83 chars/second).
const DefaultInterval = 12 * time.Millisecond

// TickMsg advances the reveal started under Gen.
type TickMsg struct {
	Gen uint64
}

// Scheduler holds the answer and how much of it is visible.
type Scheduler struct {
	interval time.Duration
	answer   []rune
	pos      int
	gen      uint64
}

// New returns an idle scheduler. A non-positive interval uses
// DefaultInterval.
func New(interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler{interval: interval}
}

// Start resets the visible prefix to "" and begins revealing answer. It
// reports whether a timer should run; an empty answer leaves the
// scheduler idle.
func (s *Scheduler) Start(answer string) bool {
	s.gen++
	s.answer = []rune(answer)
	s.pos = 0
	return len(s.answer) > 0
}

// Advance reveals one more character. It returns false once the answer is
// fully visible.
func (s *Scheduler) Advance() bool {
	if s.pos < len(s.answer) {
		s.pos++
	}
	return s.pos < len(s.answer)
}

// Revealing reports whether characters remain hidden.
func (s *Scheduler) Revealing() bool {
	return s.pos < len(s.answer)
}

// Visible returns the currently revealed prefix.
func (s *Scheduler) Visible() string {
	return string(s.answer[:s.pos])
}

// Answer returns the full answer being revealed.
func (s *Scheduler) Answer() string {
	return string(s.answer)
}

// Progress returns revealed and total character counts.
func (s *Scheduler) Progress() (int, int) {
	return s.pos, len(s.answer)
}

// Gen returns the current generation.
func (s *Scheduler) Gen() uint64 {
	return s.gen
}

// Interval returns the tick cadence.
func (s *Scheduler) Interval() time.Duration {
	return s.interval
}

// =============================================================================
// BUBBLE TEA GLUE
// =============================================================================

// Play starts answer and returns the first tick command, or nil when there
// is nothing to reveal.
func (s *Scheduler) Play(answer string) tea.Cmd {
	if !s.Start(answer) {
		return nil
	}
	return s.tick()
}

// Update handles a TickMsg. Stale generations are ignored and return nil.
func (s *Scheduler) Update(msg TickMsg) tea.Cmd {
	if msg.Gen != s.gen {
		return nil
	}
	if s.Advance() {
		return s.tick()
	}
	return nil
}

func (s *Scheduler) tick() tea.Cmd {
	gen := s.gen
	return tea.Tick(s.interval, func(time.Time) tea.Msg {
		return TickMsg{Gen: gen}
	})
}
