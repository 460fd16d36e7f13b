// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/jeranaias/routerchat/internal/tokens"
	"github.com/jeranaias/routerchat/internal/ui/components"
)

// View implements tea.Model.
func (m Model) View() string {
	parts := []string{m.header.View()}
	if banner := components.ErrorBanner(m.theme, m.state.Err, m.width); banner != "" {
		parts = append(parts, banner)
	}

	switch m.mode {
	case ModeModelPicker:
		parts = append(parts, m.modelPicker.View())
	case ModeFilePicker:
		title := m.theme.HeaderBrand.Render("Attach a file") + "  " +
			m.theme.ShortcutDesc.Render(m.files.CurrentDirectory)
		parts = append(parts, m.theme.PickerBox.Render(title+"\n\n"+m.files.View()))
	default:
		parts = append(parts, m.answerView())
	}

	parts = append(parts, m.bottomViews()...)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// answerView renders the answer panel or the idle placeholder.
func (m Model) answerView() string {
	width := m.panelWidth()
	badge := m.theme.AnswerBadge.Render(m.state.Model.ShortLabel)

	var body string
	switch {
	case m.state.Loading:
		status := m.spinner.View() + " Waiting for " + m.state.Model.Label
		if n := m.received.Load(); n > 0 {
			status += " (" + humanize.Bytes(uint64(n)) + " received)"
		}
		body = m.theme.Placeholder.Render(status)
	case m.rendered == "":
		body = m.theme.Placeholder.Render("Ask a question, attach an image or a file, then press ctrl+s.")
	default:
		body = m.answer.View()
	}
	return m.theme.AnswerPanel.Width(width).Render(badge + "\n" + body)
}

// bottomViews are the chips, quick actions, prompt and status line.
func (m Model) bottomViews() []string {
	var out []string
	chips := components.AttachmentChips(m.theme, components.ChipState{
		Slots:        m.state.Attachments,
		Caps:         m.state.Capabilities(),
		ImageLoading: m.imageLoading,
		FileLoading:  m.fileLoading,
	})
	if chips != "" {
		out = append(out, chips)
	}
	out = append(out, components.QuickActionBar(m.theme, m.quickActionIndex()))

	box := m.theme.PromptBox
	if m.mode == ModeCompose {
		box = m.theme.PromptBoxFocused
	}
	out = append(out, box.Width(m.panelWidth()).Render(m.input.View()))

	if m.showHelp {
		out = append(out, m.help.View(m.keys))
	} else {
		sb := *m.status
		sb.Width = m.width
		sb.Tokens = m.promptTokens
		sb.ExactTokens = tokens.Exact()
		sb.Loading = m.state.Loading
		sb.Revealed, sb.Total = m.reveal.Progress()
		sb.Notice = m.notice
		out = append(out, sb.View())
	}
	return out
}

// quickActionIndex returns the preset matching the prompt, or -1.
func (m Model) quickActionIndex() int {
	for i, qa := range components.QuickActions {
		if strings.TrimSpace(m.state.Prompt) == qa.Prompt {
			return i
		}
	}
	return -1
}

func (m Model) panelWidth() int {
	if m.width < 24 {
		return 20
	}
	return m.width - 4
}

// layout sizes the widgets around the current chrome.
func (m *Model) layout() {
	width := m.panelWidth()
	m.header.SetWidth(m.width)
	m.modelPicker.Width = width
	m.input.SetWidth(width - 2)

	wrap := width - 4
	if wrap > m.wordWrap {
		wrap = m.wordWrap
	}
	m.renderer.SetWidth(wrap)

	chrome := lipgloss.Height(m.header.View())
	if banner := components.ErrorBanner(m.theme, m.state.Err, m.width); banner != "" {
		chrome += lipgloss.Height(banner)
	}
	for _, v := range m.bottomViews() {
		chrome += lipgloss.Height(v)
	}
	// Panel border plus the badge line.
	chrome += 3

	h := m.height - chrome
	if h < 3 {
		h = 3
	}
	m.answer.Width = width - 2
	m.answer.Height = h
	m.files.Height = h
}
