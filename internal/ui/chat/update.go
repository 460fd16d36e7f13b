// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/routerchat/internal/attachment"
	"github.com/jeranaias/routerchat/internal/markdown"
	"github.com/jeranaias/routerchat/internal/reveal"
	"github.com/jeranaias/routerchat/internal/session"
	"github.com/jeranaias/routerchat/internal/tokens"
	"github.com/jeranaias/routerchat/internal/ui/components"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		m.refreshAnswer(true)
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case ModeModelPicker:
			return m.handleModelPickerKey(msg)
		case ModeFilePicker:
			return m.handleFilePicker(msg)
		}
		return m.handleKey(msg)

	case settledMsg:
		return m.handleSettled(msg)

	case imageReadMsg:
		if m.state.Attachments.ImageCurrent(msg.Gen) {
			m.imageLoading = false
		}
		m.dispatch(session.ImageRead{Gen: msg.Gen, Image: msg.Image, Err: msg.Err})
		if msg.Err != nil {
			m.logger.Warn("image read failed", "error", msg.Err)
		}
		m.layout()
		return m, nil

	case fileReadMsg:
		if m.state.Attachments.FileCurrent(msg.Gen) {
			m.fileLoading = false
		}
		m.dispatch(session.FileRead{Gen: msg.Gen, File: msg.File, Err: msg.Err})
		if msg.Err != nil {
			m.logger.Warn("file read failed", "error", msg.Err)
		}
		m.layout()
		return m, nil

	case reveal.TickMsg:
		cmd := m.reveal.Update(msg)
		m.refreshAnswer(cmd == nil)
		return m, cmd

	case spinner.TickMsg:
		if !m.state.Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case noticeExpiredMsg:
		if msg.ID == m.noticeID {
			m.notice = ""
		}
		return m, nil

	case tokensReadyMsg:
		m.promptTokens = tokens.Estimate(m.input.Value())
		return m, nil

	case CredentialsChangedMsg:
		if msg.Configured {
			return m, m.setNotice("API key loaded")
		}
		return m, m.setNotice("API key removed")
	}

	// Everything else (cursor blink, directory listings) goes to whichever
	// widget is active.
	if m.mode == ModeFilePicker {
		var cmd tea.Cmd
		m.files, cmd = m.files.Update(msg)
		return m, cmd
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// =============================================================================
// COMPOSE MODE
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Submit):
		return m.submit()

	case key.Matches(msg, m.keys.PickModel):
		m.modelPicker.Focus(m.state.Model.ID)
		m.mode = ModeModelPicker
		return m, nil

	case key.Matches(msg, m.keys.Attach):
		m.mode = ModeFilePicker
		return m, m.files.Init()

	case key.Matches(msg, m.keys.DropImage):
		m.imageLoading = false
		m.dispatch(session.ClearImage{})
		m.layout()
		return m, nil

	case key.Matches(msg, m.keys.DropFile):
		m.fileLoading = false
		m.dispatch(session.ClearFile{})
		m.layout()
		return m, nil

	case key.Matches(msg, m.keys.ClearAll):
		m.imageLoading, m.fileLoading = false, false
		m.dispatch(session.ClearAll{})
		m.input.Reset()
		m.promptTokens = 0
		m.layout()
		return m, nil

	case key.Matches(msg, m.keys.CopyAnswer):
		return m, m.copyAnswer()

	case key.Matches(msg, m.keys.CopyCode):
		return m, m.copyLastCodeBlock()

	case key.Matches(msg, m.keys.Quick1):
		m.setPrompt(components.QuickActions[0].Prompt)
		return m, nil
	case key.Matches(msg, m.keys.Quick2):
		m.setPrompt(components.QuickActions[1].Prompt)
		return m, nil
	case key.Matches(msg, m.keys.Quick3):
		m.setPrompt(components.QuickActions[2].Prompt)
		return m, nil

	case key.Matches(msg, m.keys.ScrollUp):
		m.answer.HalfViewUp()
		return m, nil
	case key.Matches(msg, m.keys.ScrollDown):
		m.answer.HalfViewDown()
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
		m.layout()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != m.state.Prompt {
		m.setPrompt(m.input.Value())
	}
	return m, cmd
}

// submit starts a request when the session allows one.
func (m Model) submit() (tea.Model, tea.Cmd) {
	m.setPrompt(m.input.Value())

	p, st := m.ctrl.BeginSubmit()
	m.state = st
	if st.Answer == "" {
		// A cleared answer stops any reveal still running.
		m.reveal.Start("")
		m.refreshAnswer(true)
	}
	if p == nil {
		m.layout()
		return m, nil
	}

	m.received.Store(0)
	m.layout()

	ctx, ctrl, received := m.ctx, m.ctrl, m.received
	run := func() tea.Msg {
		return settledMsg{ctrl.Execute(ctx, p, func(delta string) {
			received.Add(int64(len(delta)))
		})}
	}
	return m, tea.Batch(m.spinner.Tick, run)
}

func (m Model) handleSettled(msg settledMsg) (tea.Model, tea.Cmd) {
	m.dispatch(msg.Settled)
	m.layout()
	if m.state.Err != "" || m.state.Loading {
		m.refreshAnswer(true)
		return m, nil
	}
	cmd := m.reveal.Play(m.state.Answer)
	m.refreshAnswer(true)
	return m, cmd
}

func (m *Model) copyAnswer() tea.Cmd {
	if m.state.Answer == "" {
		return m.setNotice("No answer to copy")
	}
	if !markdown.ClipboardAvailable() {
		return m.setNotice("No clipboard available")
	}
	if err := markdown.Copy(m.state.Answer); err != nil {
		m.logger.Warn("clipboard write failed", "error", err)
		return m.setNotice("Failed to copy")
	}
	return m.setNotice("Copied!")
}

func (m *Model) copyLastCodeBlock() tea.Cmd {
	blocks := markdown.ExtractCodeBlocks(m.state.Answer)
	if len(blocks) == 0 {
		return m.setNotice("No code block to copy")
	}
	last := blocks[len(blocks)-1]
	if err := markdown.Copy(last.Code); err != nil {
		m.logger.Warn("clipboard write failed", "error", err)
		return m.setNotice("Failed to copy")
	}
	return m.setNotice("Copied " + last.Label() + " block!")
}

// =============================================================================
// MODEL PICKER
// =============================================================================

func (m Model) handleModelPickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k", "shift+tab":
		m.modelPicker.Up()
	case "down", "j", "tab":
		m.modelPicker.Down()
	case "enter":
		hadFile := m.state.Attachments.File != nil || m.fileLoading
		m.dispatch(session.SelectModel{ID: m.modelPicker.Selected().ID})
		m.mode = ModeCompose
		var cmd tea.Cmd
		if !m.state.Capabilities().FileAttach {
			m.fileLoading = false
			if hadFile {
				cmd = m.setNotice("File removed: model cannot read files")
			}
		}
		m.layout()
		return m, cmd
	case "esc", "ctrl+t":
		m.mode = ModeCompose
	case "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

// =============================================================================
// FILE PICKER
// =============================================================================

func (m Model) handleFilePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Cancel):
		m.mode = ModeCompose
		return m, nil
	}

	var cmd tea.Cmd
	m.files, cmd = m.files.Update(msg)
	if ok, path := m.files.DidSelectFile(msg); ok {
		m.mode = ModeCompose
		attachCmd := m.attach(path)
		m.layout()
		return m, tea.Batch(cmd, attachCmd)
	}
	return m, cmd
}

// attach starts an asynchronous read of path into the matching slot.
func (m *Model) attach(path string) tea.Cmd {
	caps := m.state.Capabilities()
	switch {
	case attachment.IsImageFile(path):
		if !caps.Vision {
			return m.setNotice(m.state.Model.ShortLabel + " does not accept images")
		}
		m.dispatch(session.ImageReadStarted{})
		m.imageLoading = true
		return readImageCmd(path, m.state.Attachments.ImageGen(), m.limits)

	case attachment.IsTextFile(path):
		if !caps.FileAttach {
			return m.setNotice(m.state.Model.ShortLabel + " does not accept files")
		}
		m.dispatch(session.FileReadStarted{})
		m.fileLoading = true
		return readFileCmd(path, m.state.Attachments.FileGen(), m.limits)
	}
	return m.setNotice("Unsupported file type")
}
