// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/jeranaias/routerchat/internal/config"
	"github.com/jeranaias/routerchat/internal/markdown"
	"github.com/jeranaias/routerchat/internal/session"
)

// historyFileName lives in the config directory.
const historyFileName = "repl_history"

func replCmd(a *app) *cobra.Command {
	var raw bool
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Line-mode chat with history and slash commands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(); err != nil {
				return err
			}
			defer a.close()

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			r := newREPL(a, cmd.OutOrStdout())
			r.raw = raw || !IsStdoutTTY()
			return r.run(ctx)
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "print markdown source instead of rendering it")
	return cmd
}

// =============================================================================
// INPUT HISTORY
// =============================================================================

// lineReader provides input history and line editing.
type lineReader struct {
	line        *liner.State
	historyFile string
}

func newLineReader() *lineReader {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	dir, err := config.ConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	lr := &lineReader{line: line, historyFile: filepath.Join(dir, historyFileName)}
	if f, err := os.Open(lr.historyFile); err == nil {
		lr.line.ReadHistory(f)
		f.Close()
	}
	return lr
}

// ReadInput reads one line, recording non-empty input in history.
func (lr *lineReader) ReadInput(prompt string) (string, error) {
	input, err := lr.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		lr.line.AppendHistory(input)
	}
	return input, nil
}

// Close saves history with owner-only permissions and restores the terminal.
func (lr *lineReader) Close() {
	if err := config.EnsureConfigDir(); err == nil {
		if f, err := os.OpenFile(lr.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600); err == nil {
			lr.line.WriteHistory(f)
			f.Close()
		}
	}
	lr.line.Close()
}

// =============================================================================
// REPL
// =============================================================================

// errQuit ends the loop.
var errQuit = errors.New("quit")

type repl struct {
	app  *app
	ctrl *session.Controller
	out  io.Writer
	raw  bool
}

func newREPL(a *app, out io.Writer) *repl {
	return &repl{app: a, ctrl: a.newController(), out: out}
}

func (r *repl) run(ctx context.Context) error {
	lr := newLineReader()
	defer lr.Close()

	st := r.ctrl.State()
	fmt.Fprintln(r.out, titleStyle.Render("routerchat")+" "+dimStyle.Render(st.Model.Label+"  (/help for commands)"))

	for {
		input, err := lr.ReadInput(promptStyle.Render(r.ctrl.State().Model.ShortLabel + "> "))
		if err != nil {
			// Ctrl+C, Ctrl+D and closed stdin all end the session.
			fmt.Fprintln(r.out)
			return nil
		}
		if err := r.handleLine(ctx, input); err != nil {
			if errors.Is(err, errQuit) {
				return nil
			}
			fmt.Fprintln(r.out, errorStyle.Render("[Error]")+" "+err.Error())
		}
	}
}

// handleLine runs a slash command or submits the line as the prompt.
func (r *repl) handleLine(ctx context.Context, input string) error {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil
	}
	if strings.HasPrefix(input, "/") {
		return r.handleSlash(input)
	}

	r.ctrl.Dispatch(session.SetPrompt{Text: input})
	fmt.Fprintln(r.out, dimStyle.Render("waiting for "+r.ctrl.State().Model.Label+"…"))
	st, sent := r.ctrl.Submit(ctx, nil)
	if st.Err != "" {
		return errors.New(st.Err)
	}
	if !sent {
		return ErrNothingToSend
	}
	fmt.Fprint(r.out, renderAnswer(st.Answer, config.Global().UI.GlamourStyle, r.raw))
	return nil
}

func (r *repl) handleSlash(input string) error {
	fields := strings.Fields(input)
	name, rest := fields[0], strings.TrimSpace(strings.TrimPrefix(input, fields[0]))

	switch name {
	case "/quit", "/exit", "/q":
		return errQuit

	case "/help", "/?":
		fmt.Fprintln(r.out, replHelp)

	case "/models":
		writeModelTable(r.out, r.app.catalog, r.ctrl.State().Model.ID)

	case "/model":
		if rest == "" {
			st := r.ctrl.State()
			fmt.Fprintln(r.out, st.Model.ID+" "+capsStyle.Render(capabilityText(st.Capabilities())))
			return nil
		}
		if _, ok := r.app.catalog.Lookup(rest); !ok {
			return fmt.Errorf("unknown model: %s", rest)
		}
		hadFile := r.ctrl.State().Attachments.File != nil
		st := r.ctrl.Dispatch(session.SelectModel{ID: rest})
		fmt.Fprintln(r.out, successStyle.Render("model: "+st.Model.Label))
		if hadFile && st.Attachments.File == nil {
			fmt.Fprintln(r.out, dimStyle.Render("file removed: model cannot read files"))
		}

	case "/image":
		if rest == "" {
			return errors.New("usage: /image <path>")
		}
		if err := attachPath(r.ctrl, r.app, rest, true); err != nil {
			return err
		}
		img := r.ctrl.State().Attachments.Image
		fmt.Fprintln(r.out, successStyle.Render("image: "+img.Name+" ("+img.SizeLabel()+")"))

	case "/file":
		if rest == "" {
			return errors.New("usage: /file <path>")
		}
		if err := attachPath(r.ctrl, r.app, rest, false); err != nil {
			return err
		}
		f := r.ctrl.State().Attachments.File
		line := "file: " + f.Name + " (" + f.SizeLabel() + ")"
		if f.Truncated {
			line += " truncated"
		}
		fmt.Fprintln(r.out, successStyle.Render(line))

	case "/clear":
		r.ctrl.Dispatch(session.ClearAll{})
		fmt.Fprintln(r.out, dimStyle.Render("attachments cleared"))

	case "/code":
		blocks := markdown.ExtractCodeBlocks(r.ctrl.State().Answer)
		if len(blocks) == 0 {
			return errors.New("no code block in the last answer")
		}
		if !markdown.ClipboardAvailable() {
			return errors.New("no clipboard available")
		}
		last := blocks[len(blocks)-1]
		if err := markdown.Copy(last.Code); err != nil {
			return fmt.Errorf("copy to clipboard: %w", err)
		}
		fmt.Fprintln(r.out, successStyle.Render("Copied "+last.Label()+" block!"))

	default:
		return fmt.Errorf("unknown command: %s (try /help)", name)
	}
	return nil
}

const replHelp = `Commands:
  /model [id]     show or switch the model
  /models         list models
  /image <path>   attach an image (vision models)
  /file <path>    attach a text file (file-capable models)
  /clear          drop attachments
  /code           copy the last code block
  /quit           leave`
