// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cloud

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"strings"

	"github.com/tidwall/gjson"
)

// =============================================================================
// STREAMING CONSTANTS
// =============================================================================

// MaxChunkSize is the SSE reader buffer size.
const MaxChunkSize = 64 * 1024

// StreamCallback receives each non-empty text delta.
type StreamCallback func(delta string)

// =============================================================================
// SSE READER
// =============================================================================

// SSEReader parses Server-Sent Events from a stream.
type SSEReader struct {
	reader *bufio.Reader
}

// NewSSEReader creates a new SSE reader from an io.Reader.
func NewSSEReader(r io.Reader) *SSEReader {
	return &SSEReader{reader: bufio.NewReaderSize(r, MaxChunkSize)}
}

// ReadEvent reads the next event and returns its type and joined data
// lines. Comment lines (": OPENROUTER PROCESSING") and id/retry fields are
// skipped. Returns io.EOF when the stream ends.
func (s *SSEReader) ReadEvent() (string, []byte, error) {
	var eventType string
	var dataLines [][]byte

	for {
		line, err := s.reader.ReadBytes('\n')
		if err != nil && !(errors.Is(err, io.EOF) && len(line) > 0) {
			if errors.Is(err, io.EOF) && len(dataLines) > 0 {
				return eventType, bytes.Join(dataLines, []byte("\n")), nil
			}
			return "", nil, err
		}

		line = bytes.TrimRight(line, "\r\n")

		if len(line) == 0 {
			if len(dataLines) > 0 {
				return eventType, bytes.Join(dataLines, []byte("\n")), nil
			}
			if err != nil {
				return "", nil, err
			}
			continue
		}

		switch {
		case bytes.HasPrefix(line, []byte("event:")):
			eventType = string(bytes.TrimSpace(line[6:]))
		case bytes.HasPrefix(line, []byte("data:")):
			dataLines = append(dataLines, bytes.TrimSpace(line[5:]))
		}

		if err != nil {
			// Final line without a trailing newline.
			if len(dataLines) > 0 {
				return eventType, bytes.Join(dataLines, []byte("\n")), nil
			}
			return "", nil, err
		}
	}
}

// =============================================================================
// STREAM CONSUMPTION
// =============================================================================

// consumeStream accumulates deltas into a Reply, applying the same error
// classification as a complete document.
func (c *Client) consumeStream(ctx context.Context, body io.Reader, onChunk StreamCallback) (*Reply, error) {
	reader := NewSSEReader(body)
	var (
		text      strings.Builder
		choiceErr string
		topErr    string
		model     string
		chunks    int
	)

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		_, data, err := reader.ReadEvent()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, &ResponseError{Kind: KindHTTP, Message: defaultHTTPMessage, Err: err}
		}

		if bytes.Equal(data, []byte("[DONE]")) {
			break
		}
		if !gjson.ValidBytes(data) {
			c.logger.Debug("skipping malformed chunk", "bytes", len(data))
			continue
		}

		chunk := gjson.ParseBytes(data)
		chunks++
		if m := chunk.Get("model").String(); m != "" {
			model = m
		}
		if msg := chunk.Get("error.message").String(); msg != "" {
			topErr = msg
		}
		choice := chunk.Get("choices.0")
		if msg := choice.Get("error.message").String(); msg != "" {
			choiceErr = msg
		}

		// Some providers send the final message instead of deltas.
		delta := ExtractContent(choice.Get("delta.content"))
		if delta == "" {
			delta = ExtractContent(choice.Get("message.content"))
		}
		if delta != "" {
			text.WriteString(delta)
			if onChunk != nil {
				onChunk(delta)
			}
		}
	}

	// A top-level error mid-stream is the provider failing the request.
	if choiceErr == "" && topErr != "" && strings.TrimSpace(text.String()) != "" {
		choiceErr = topErr
	}

	out, err := settle(text.String(), choiceErr, topErr)
	if err != nil {
		return nil, err
	}
	return &Reply{Text: out, Model: model, Streamed: true, Chunks: chunks}, nil
}
