// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package markdown

import (
	"bufio"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"
	"github.com/atotto/clipboard"
)

// =============================================================================
// CODE BLOCKS
// =============================================================================

// CodeBlock is one fenced block from an answer.
type CodeBlock struct {
	// Language is the fence label, or a detected name when unlabeled.
	Language string
	// Labeled is true when the fence carried the language.
	Labeled bool
	Code    string
}

// Label returns the display label, "text" when nothing is known.
func (c CodeBlock) Label() string {
	if c.Language == "" {
		return "text"
	}
	return strings.ToLower(c.Language)
}

// ExtractCodeBlocks returns fenced blocks in order. ``` and ~~~ fences are
// recognised; an unterminated final block is included.
func ExtractCodeBlocks(md string) []CodeBlock {
	var (
		blocks []CodeBlock
		fence  string
		cur    *CodeBlock
		body   []string
	)

	sc := bufio.NewScanner(strings.NewReader(md))
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		line := sc.Text()
		trimmed := strings.TrimSpace(line)

		if cur == nil {
			if f := openingFence(trimmed); f != "" {
				fence = f
				info := strings.TrimSpace(strings.TrimLeft(trimmed, f[:1]))
				lang := ""
				if fields := strings.Fields(info); len(fields) > 0 {
					lang = fields[0]
				}
				cur = &CodeBlock{Language: lang, Labeled: lang != ""}
				body = body[:0]
			}
			continue
		}

		if strings.HasPrefix(trimmed, fence) && strings.Trim(trimmed, fence[:1]) == "" {
			blocks = append(blocks, finish(cur, body))
			cur = nil
			continue
		}
		body = append(body, line)
	}
	if cur != nil {
		blocks = append(blocks, finish(cur, body))
	}
	return blocks
}

func openingFence(line string) string {
	for _, ch := range []string{"`", "~"} {
		n := 0
		for n < len(line) && line[n] == ch[0] {
			n++
		}
		if n >= 3 {
			return strings.Repeat(ch, n)
		}
	}
	return ""
}

func finish(cb *CodeBlock, body []string) CodeBlock {
	out := *cb
	out.Code = strings.Join(body, "\n")
	if out.Language == "" {
		out.Language = DetectLanguage(out.Code)
	}
	return out
}

// DetectLanguage guesses a language name with chroma, or "".
func DetectLanguage(code string) string {
	if strings.TrimSpace(code) == "" {
		return ""
	}
	if lexer := lexers.Analyse(code); lexer != nil {
		return lexer.Config().Name
	}
	return ""
}

// Highlight colours code for a 256-colour terminal. Unknown languages are
// detected; failures return the code unchanged.
func Highlight(code, language string) string {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := chromaStyles.Get("monokai")
	if style == nil {
		style = chromaStyles.Fallback
	}
	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	it, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}
	var buf strings.Builder
	if err := formatter.Format(&buf, style, it); err != nil {
		return code
	}
	return buf.String()
}

// =============================================================================
// CLIPBOARD
// =============================================================================

// clipboardWrite is swapped in tests.
var clipboardWrite = clipboard.WriteAll

// Copy places text on the system clipboard.
func Copy(text string) error {
	return clipboardWrite(text)
}

// ClipboardAvailable reports whether a clipboard backend was found.
func ClipboardAvailable() bool {
	return !clipboard.Unsupported
}
