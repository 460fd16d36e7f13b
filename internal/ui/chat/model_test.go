// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/routerchat/internal/attachment"
	"github.com/jeranaias/routerchat/internal/cloud"
	"github.com/jeranaias/routerchat/internal/markdown"
	"github.com/jeranaias/routerchat/internal/registry"
	"github.com/jeranaias/routerchat/internal/reveal"
	"github.com/jeranaias/routerchat/internal/session"
)

type stubCompleter struct {
	configured bool
	reply      string
	err        error
	calls      int
}

func (s *stubCompleter) IsConfigured() bool { return s.configured }

func (s *stubCompleter) Complete(ctx context.Context, model string, msg cloud.ChatMessage, onChunk cloud.StreamCallback) (*cloud.Reply, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	if onChunk != nil {
		onChunk(s.reply)
	}
	return &cloud.Reply{Text: s.reply, Model: model}, nil
}

func newTestModel(t *testing.T, client *stubCompleter, defaultModel string) Model {
	t.Helper()
	m := New(context.Background(), Options{
		Catalog:      registry.Default(),
		Client:       client,
		Renderer:     markdown.NewRenderer(markdown.StyleNoTTY, 80),
		DefaultModel: defaultModel,
		StartDir:     t.TempDir(),
	})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return updated.(Model)
}

// send feeds msg to m and returns the new model.
func send(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

// collect runs cmd, flattening batches, and returns the messages produced.
// Timer commands are skipped by the caller choosing which to run.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func findSettled(t *testing.T, msgs []tea.Msg) settledMsg {
	t.Helper()
	for _, msg := range msgs {
		if s, ok := msg.(settledMsg); ok {
			return s
		}
	}
	t.Fatal("no settledMsg produced")
	return settledMsg{}
}

func ctrlS() tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyCtrlS} }

func TestSubmit_SettlesAndReveals(t *testing.T) {
	client := &stubCompleter{configured: true, reply: "**hi** there"}
	m := newTestModel(t, client, "")
	m.setPrompt("hello")

	m, cmd := send(t, m, ctrlS())
	require.True(t, m.State().Loading)
	require.NotNil(t, cmd)

	settled := findSettled(t, collect(cmd))
	assert.Equal(t, 1, client.calls)
	assert.Equal(t, int64(len("**hi** there")), m.received.Load())

	m, cmd = send(t, m, settled)
	assert.False(t, m.State().Loading)
	assert.Equal(t, "**hi** there", m.State().Answer)
	require.NotNil(t, cmd)
	assert.Equal(t, "", m.Visible())

	for i := 0; i < 100 && m.reveal.Revealing(); i++ {
		m, _ = send(t, m, reveal.TickMsg{Gen: m.reveal.Gen()})
	}
	assert.Equal(t, "**hi** there", m.Visible())
	assert.Contains(t, m.rendered, "hi")
}

func TestSubmit_EmptyIsNoop(t *testing.T) {
	client := &stubCompleter{configured: true, reply: "x"}
	m := newTestModel(t, client, "")

	m, cmd := send(t, m, ctrlS())
	assert.Nil(t, cmd)
	assert.False(t, m.State().Loading)
	assert.Empty(t, m.State().Err)
	assert.Zero(t, client.calls)
}

func TestSubmit_MissingCredential(t *testing.T) {
	client := &stubCompleter{configured: false}
	m := newTestModel(t, client, "")
	m.setPrompt("hello")

	m, cmd := send(t, m, ctrlS())
	assert.Nil(t, cmd)
	assert.Equal(t, cloud.ErrNotConfigured.Error(), m.State().Err)
	assert.Contains(t, m.View(), "API key is missing")
}

func TestSubmit_BlockedStopsRunningReveal(t *testing.T) {
	client := &stubCompleter{configured: true, reply: "first answer text"}
	m := newTestModel(t, client, "")
	m.setPrompt("hello")
	m, cmd := send(t, m, ctrlS())
	m, _ = send(t, m, findSettled(t, collect(cmd)))
	m, _ = send(t, m, reveal.TickMsg{Gen: m.reveal.Gen()})
	m, _ = send(t, m, reveal.TickMsg{Gen: m.reveal.Gen()})
	require.True(t, m.reveal.Revealing())
	require.Equal(t, "fi", m.Visible())
	staleGen := m.reveal.Gen()

	client.configured = false
	m, cmd = send(t, m, ctrlS())
	assert.Nil(t, cmd)
	assert.Equal(t, cloud.ErrNotConfigured.Error(), m.State().Err)
	assert.Empty(t, m.State().Answer)
	assert.False(t, m.reveal.Revealing())
	assert.Empty(t, m.Visible())
	assert.Empty(t, m.rendered)

	m, cmd = send(t, m, reveal.TickMsg{Gen: staleGen})
	assert.Nil(t, cmd)
	assert.Empty(t, m.Visible())
	assert.Empty(t, m.displayed())
}

func TestSubmit_ErrorSurfaces(t *testing.T) {
	client := &stubCompleter{configured: true, err: &cloud.ResponseError{Kind: cloud.KindProvider, Message: "rate limited"}}
	m := newTestModel(t, client, "")
	m.setPrompt("hello")

	m, cmd := send(t, m, ctrlS())
	m, cmd = send(t, m, findSettled(t, collect(cmd)))
	assert.Nil(t, cmd)
	assert.False(t, m.State().Loading)
	assert.Equal(t, "API Error: rate limited", m.State().Err)
	assert.Empty(t, m.State().Answer)
}

func TestQuickActions_ReplacePrompt(t *testing.T) {
	m := newTestModel(t, &stubCompleter{configured: true}, "")
	m.setPrompt("something else")

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyF2})
	assert.Equal(t, "Help me optimize this code for performance", m.State().Prompt)
	assert.Equal(t, m.State().Prompt, m.input.Value())
	assert.Equal(t, 1, m.quickActionIndex())
}

func TestStaleImageReadIgnored(t *testing.T) {
	m := newTestModel(t, &stubCompleter{configured: true}, registry.FileModelID)
	m.dispatch(session.ImageReadStarted{})
	m.imageLoading = true
	gen := m.state.Attachments.ImageGen()

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'i'}, Alt: true})
	assert.False(t, m.ImageLoading())

	m, _ = send(t, m, imageReadMsg{Gen: gen, Image: attachment.Image{Name: "late.png"}})
	assert.Nil(t, m.State().Attachments.Image)
}

func TestFileReadError_KeepsExistingFile(t *testing.T) {
	m := newTestModel(t, &stubCompleter{configured: true}, registry.FileModelID)

	m.dispatch(session.FileReadStarted{})
	m, _ = send(t, m, fileReadMsg{Gen: m.state.Attachments.FileGen(), File: attachment.File{Name: "a.txt", Content: "a"}})
	require.NotNil(t, m.State().Attachments.File)

	m.dispatch(session.FileReadStarted{})
	tooBig := &attachment.SizeError{Kind: attachment.ErrFileTooLarge, Size: 3 << 20, Limit: attachment.DefaultMaxFileBytes}
	m, _ = send(t, m, fileReadMsg{Gen: m.state.Attachments.FileGen(), Err: tooBig})
	assert.Equal(t, "File size exceeds 2MB limit.", m.State().Err)
	require.NotNil(t, m.State().Attachments.File)
	assert.Equal(t, "a.txt", m.State().Attachments.File.Name)
}

func TestModelSwitch_DropsFile(t *testing.T) {
	m := newTestModel(t, &stubCompleter{configured: true}, registry.FileModelID)
	m.dispatch(session.FileReadStarted{})
	m, _ = send(t, m, fileReadMsg{Gen: m.state.Attachments.FileGen(), File: attachment.File{Name: "a.txt", Content: "a"}})

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlT})
	require.Equal(t, ModeModelPicker, m.Mode())
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, ModeCompose, m.Mode())
	assert.NotEqual(t, registry.FileModelID, m.State().Model.ID)
	assert.Nil(t, m.State().Attachments.File)
	assert.NotNil(t, cmd)
	assert.Contains(t, m.Notice(), "File removed")
}

func TestAttach_RespectsCapabilities(t *testing.T) {
	m := newTestModel(t, &stubCompleter{configured: true}, "")
	require.False(t, m.State().Capabilities().FileAttach)

	cmd := m.attach("notes.md")
	assert.NotNil(t, cmd)
	assert.Contains(t, m.Notice(), "does not accept files")
	assert.False(t, m.FileLoading())

	cmd = m.attach("archive.zip")
	assert.NotNil(t, cmd)
	assert.Equal(t, "Unsupported file type", m.Notice())
}

func TestClearAll_KeepsAnswer(t *testing.T) {
	client := &stubCompleter{configured: true, reply: "kept"}
	m := newTestModel(t, client, "")
	m.setPrompt("hello")
	m, cmd := send(t, m, ctrlS())
	m, _ = send(t, m, findSettled(t, collect(cmd)))

	m.setPrompt("draft")
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlL})
	assert.Empty(t, m.State().Prompt)
	assert.Empty(t, m.input.Value())
	assert.Equal(t, "kept", m.State().Answer)
}

func TestNotices_Expire(t *testing.T) {
	m := newTestModel(t, &stubCompleter{configured: true}, "")
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlO})
	assert.Equal(t, "No answer to copy", m.Notice())

	m, _ = send(t, m, noticeExpiredMsg{ID: m.noticeID - 1})
	assert.Equal(t, "No answer to copy", m.Notice())
	m, _ = send(t, m, noticeExpiredMsg{ID: m.noticeID})
	assert.Empty(t, m.Notice())
}

func TestCredentialsChanged(t *testing.T) {
	m := newTestModel(t, &stubCompleter{configured: true}, "")
	m, _ = send(t, m, CredentialsChangedMsg{Configured: true})
	assert.Equal(t, "API key loaded", m.Notice())
}

func TestView_Sections(t *testing.T) {
	m := newTestModel(t, &stubCompleter{configured: true}, "")
	view := m.View()
	assert.Contains(t, view, "routerchat")
	assert.Contains(t, view, m.State().Model.ShortLabel)
	assert.Contains(t, view, "Write documentation")
	assert.Contains(t, view, "tokens")
}
