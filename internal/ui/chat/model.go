// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/time/rate"

	"github.com/jeranaias/routerchat/internal/attachment"
	"github.com/jeranaias/routerchat/internal/markdown"
	"github.com/jeranaias/routerchat/internal/registry"
	"github.com/jeranaias/routerchat/internal/reveal"
	"github.com/jeranaias/routerchat/internal/session"
	"github.com/jeranaias/routerchat/internal/tokens"
	"github.com/jeranaias/routerchat/internal/ui/components"
	"github.com/jeranaias/routerchat/internal/ui/styles"
)

// renderThrottle caps how often the markdown is re-rendered while an
// answer is being revealed.
const renderThrottle = 50 * time.Millisecond

// Mode is which surface has the keyboard.
type Mode int

const (
	ModeCompose Mode = iota
	ModeModelPicker
	ModeFilePicker
)

// Options configures a Model.
type Options struct {
	Catalog        *registry.Catalog
	Client         session.Completer
	Logger         *slog.Logger
	Theme          *styles.Theme
	Renderer       *markdown.Renderer
	Limits         attachment.Limits
	RevealInterval time.Duration
	DefaultModel   string
	StartDir       string
	WordWrap       int
}

// tokensReadyMsg reports that the tokenizer finished loading.
type tokensReadyMsg struct{}

// =============================================================================
// MODEL
// =============================================================================

// Model is the chat screen.
type Model struct {
	ctx    context.Context
	ctrl   *session.Controller
	state  session.State
	limits attachment.Limits
	logger *slog.Logger
	theme  *styles.Theme
	keys   KeyMap
	mode   Mode

	// Widgets
	input    textarea.Model
	answer   viewport.Model
	spinner  spinner.Model
	files    filepicker.Model
	help     help.Model
	showHelp bool

	// Components
	header      *components.Header
	status      *components.StatusBar
	modelPicker *components.ModelPicker

	// Answer rendering
	reveal     *reveal.Scheduler
	renderer   *markdown.Renderer
	rendered   string
	throttle   *rate.Sometimes
	wordWrap   int

	// Bytes of reply received so far; written by the request goroutine.
	received *atomic.Int64

	imageLoading bool
	fileLoading  bool
	promptTokens int

	notice   string
	noticeID int

	width  int
	height int
}

// New creates the chat screen.
func New(ctx context.Context, opts Options) Model {
	if opts.Catalog == nil {
		opts.Catalog = registry.Default()
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.Theme == nil {
		opts.Theme = styles.NewTheme()
	}
	if opts.WordWrap <= 0 {
		opts.WordWrap = 100
	}
	if opts.Renderer == nil {
		opts.Renderer = markdown.NewRenderer(markdown.StyleAuto, opts.WordWrap)
	}
	if opts.StartDir == "" {
		if wd, err := os.Getwd(); err == nil {
			opts.StartDir = wd
		}
	}

	ctrl := session.NewController(opts.Catalog, opts.Client, opts.Logger)
	if opts.DefaultModel != "" {
		ctrl.Dispatch(session.SelectModel{ID: opts.DefaultModel})
	}

	input := textarea.New()
	input.Placeholder = "Ask anything…"
	input.ShowLineNumbers = false
	input.CharLimit = 0
	input.SetHeight(3)
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = opts.Theme.StatusAccent

	fp := filepicker.New()
	fp.AllowedTypes = append(append([]string{}, attachment.ImageExtensions...), attachment.TextExtensions...)
	fp.CurrentDirectory = opts.StartDir
	fp.Height = 12

	m := Model{
		ctx:         ctx,
		ctrl:        ctrl,
		state:       ctrl.State(),
		limits:      opts.Limits,
		logger:      opts.Logger,
		theme:       opts.Theme,
		keys:        DefaultKeyMap(),
		input:       input,
		answer:      viewport.New(80, 10),
		spinner:     sp,
		files:       fp,
		help:        help.New(),
		header:      components.NewHeader(opts.Theme),
		status:      components.NewStatusBar(opts.Theme),
		modelPicker: components.NewModelPicker(opts.Theme, opts.Catalog),
		reveal:      reveal.New(opts.RevealInterval),
		renderer:    opts.Renderer,
		throttle:    &rate.Sometimes{Interval: renderThrottle},
		wordWrap:    opts.WordWrap,
		received:    new(atomic.Int64),
		width:       80,
		height:      24,
	}
	m.syncHeader()
	m.refreshAnswer(true)
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		func() tea.Msg {
			if err := tokens.Warm(); err != nil {
				m.logger.Warn("tokenizer unavailable, using heuristic", "error", err)
			}
			return tokensReadyMsg{}
		},
	)
}

// State returns the current session snapshot.
func (m Model) State() session.State {
	return m.state
}

// Mode returns which surface has focus.
func (m Model) Mode() Mode {
	return m.mode
}

// Visible returns the currently revealed answer prefix.
func (m Model) Visible() string {
	return m.reveal.Visible()
}

// Notice returns the transient status text.
func (m Model) Notice() string {
	return m.notice
}

// ImageLoading reports whether an image read is pending.
func (m Model) ImageLoading() bool {
	return m.imageLoading
}

// FileLoading reports whether a file read is pending.
func (m Model) FileLoading() bool {
	return m.fileLoading
}

// dispatch applies ev and refreshes derived view state.
func (m *Model) dispatch(ev session.Event) {
	m.state = m.ctrl.Dispatch(ev)
	m.syncHeader()
}

func (m *Model) syncHeader() {
	m.header.SetModel(m.state.Model, m.state.Capabilities())
}

// setPrompt keeps the textarea and session prompt in step.
func (m *Model) setPrompt(text string) {
	if m.input.Value() != text {
		m.input.SetValue(text)
	}
	m.dispatch(session.SetPrompt{Text: text})
	m.promptTokens = tokens.Estimate(text)
}

// setNotice shows text for noticeDuration.
func (m *Model) setNotice(text string) tea.Cmd {
	m.noticeID++
	m.notice = text
	return expireNotice(m.noticeID)
}

// displayed is what the answer panel shows: the revealed prefix while a
// reveal runs, otherwise the stored answer.
func (m Model) displayed() string {
	if m.reveal.Revealing() {
		return m.reveal.Visible()
	}
	return m.state.Answer
}

// refreshAnswer re-renders the answer panel. While a reveal runs, renders
// are limited to one per renderThrottle unless force is set.
func (m *Model) refreshAnswer(force bool) {
	if force || !m.reveal.Revealing() {
		m.renderAnswer()
		return
	}
	m.throttle.Do(m.renderAnswer)
}

func (m *Model) renderAnswer() {
	text := m.displayed()
	if text == "" {
		m.rendered = ""
	} else {
		m.rendered = m.renderer.Render(text)
	}
	m.answer.SetContent(m.rendered)
	if m.reveal.Revealing() {
		m.answer.GotoBottom()
	}
}
