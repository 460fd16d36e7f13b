// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/routerchat/internal/attachment"
	"github.com/jeranaias/routerchat/internal/session"
)

// noticeDuration is how long a transient status notice stays up.
const noticeDuration = time.Second

// settledMsg carries the result of the in-flight request.
type settledMsg struct {
	session.Settled
}

// imageReadMsg carries a finished image read.
type imageReadMsg struct {
	Gen   attachment.Gen
	Image attachment.Image
	Err   error
}

// fileReadMsg carries a finished file read.
type fileReadMsg struct {
	Gen  attachment.Gen
	File attachment.File
	Err  error
}

// noticeExpiredMsg clears notice id if it is still shown.
type noticeExpiredMsg struct {
	ID int
}

// CredentialsChangedMsg tells the screen the config file was reloaded.
// Configured reports whether a key is now present.
type CredentialsChangedMsg struct {
	Configured bool
}

func expireNotice(id int) tea.Cmd {
	return tea.Tick(noticeDuration, func(time.Time) tea.Msg {
		return noticeExpiredMsg{ID: id}
	})
}

func readImageCmd(path string, gen attachment.Gen, lim attachment.Limits) tea.Cmd {
	return func() tea.Msg {
		img, err := attachment.ReadImage(path, lim)
		return imageReadMsg{Gen: gen, Image: img, Err: err}
	}
}

func readFileCmd(path string, gen attachment.Gen, lim attachment.Limits) tea.Cmd {
	return func() tea.Msg {
		f, err := attachment.ReadFile(path, lim)
		return fileReadMsg{Gen: gen, File: f, Err: err}
	}
}
