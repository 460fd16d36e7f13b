// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeranaias/routerchat/internal/attachment"
	"github.com/jeranaias/routerchat/internal/config"
	"github.com/jeranaias/routerchat/internal/markdown"
	"github.com/jeranaias/routerchat/internal/session"
)

// ErrNothingToSend is returned by ask when there is no prompt and nothing
// attached.
var ErrNothingToSend = errors.New("nothing to send: give a prompt, --image or --file")

type askOptions struct {
	image string
	file  string
	raw   bool
	code  bool
}

func askCmd(a *app) *cobra.Command {
	opts := &askOptions{}
	cmd := &cobra.Command{
		Use:   "ask [prompt]",
		Short: "Send one prompt and print the answer",
		Long: `Send one prompt, with an optional image and text file, and print the reply.

With no prompt argument and a piped stdin, the prompt is read from stdin.`,
		Example: `  routerchat ask "Explain this error" --file build.log
  routerchat ask --model amazon/nova-2-lite-v1:free --image chart.png
  git diff | routerchat ask`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(); err != nil {
				return err
			}
			defer a.close()

			prompt := strings.Join(args, " ")
			if prompt == "" && !IsTTY() {
				data, err := io.ReadAll(io.LimitReader(cmd.InOrStdin(), attachment.DefaultMaxFileBytes))
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				prompt = string(data)
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return runAsk(ctx, a, prompt, opts, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&opts.image, "image", "i", "", "image to attach (vision models)")
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "text file to attach (file-capable models)")
	cmd.Flags().BoolVar(&opts.raw, "raw", false, "print the markdown source even on a terminal")
	cmd.Flags().BoolVar(&opts.code, "code", false, "print only the fenced code blocks of the answer")
	return cmd
}

// runAsk performs one submission through a fresh controller.
func runAsk(ctx context.Context, a *app, prompt string, opts *askOptions, out io.Writer) error {
	ctrl := a.newController()
	ctrl.Dispatch(session.SetPrompt{Text: prompt})

	if err := attachPath(ctrl, a, opts.image, true); err != nil {
		return err
	}
	if err := attachPath(ctrl, a, opts.file, false); err != nil {
		return err
	}

	st, sent := ctrl.Submit(ctx, nil)
	if st.Err != "" {
		return errors.New(st.Err)
	}
	if !sent {
		return ErrNothingToSend
	}

	raw := opts.raw || !IsStdoutTTY()
	if opts.code {
		return writeCodeBlocks(out, st.Answer, raw)
	}
	fmt.Fprint(out, renderAnswer(st.Answer, config.Global().UI.GlamourStyle, raw))
	return nil
}

// writeCodeBlocks prints each fenced block, highlighted unless raw.
func writeCodeBlocks(out io.Writer, answer string, raw bool) error {
	blocks := markdown.ExtractCodeBlocks(answer)
	if len(blocks) == 0 {
		return errors.New("the answer has no code blocks")
	}
	for i, b := range blocks {
		if i > 0 {
			fmt.Fprintln(out)
		}
		code := b.Code
		if !raw {
			fmt.Fprintln(out, dimStyle.Render("# "+b.Label()))
			code = markdown.Highlight(b.Code, b.Language)
		}
		fmt.Fprint(out, code)
		if !strings.HasSuffix(code, "\n") {
			fmt.Fprintln(out)
		}
	}
	return nil
}

// attachPath reads path into the image or file slot. An empty path is a
// no-op; a slot the model cannot use is an error.
func attachPath(ctrl *session.Controller, a *app, path string, image bool) error {
	if path == "" {
		return nil
	}
	st := ctrl.State()
	caps := st.Capabilities()
	lim := config.Global().Limits()

	if image {
		if !caps.Vision {
			return fmt.Errorf("%s does not accept images", st.Model.ID)
		}
		st = ctrl.Dispatch(session.ImageReadStarted{})
		img, err := attachment.ReadImage(path, lim)
		ctrl.Dispatch(session.ImageRead{Gen: st.Attachments.ImageGen(), Image: img, Err: err})
		return err
	}

	if !caps.FileAttach {
		return fmt.Errorf("%s does not accept files", st.Model.ID)
	}
	st = ctrl.Dispatch(session.FileReadStarted{})
	f, err := attachment.ReadFile(path, lim)
	ctrl.Dispatch(session.FileRead{Gen: st.Attachments.FileGen(), File: f, Err: err})
	return err
}

// renderAnswer renders markdown for a terminal, or returns it as-is.
func renderAnswer(answer, style string, raw bool) string {
	if raw {
		if !strings.HasSuffix(answer, "\n") {
			answer += "\n"
		}
		return answer
	}
	width := GetTerminalWidth()
	if width > 100 {
		width = 100
	}
	return markdown.NewRenderer(style, width).Render(answer)
}
