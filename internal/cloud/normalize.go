// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cloud

import (
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

// =============================================================================
// ERROR CLASSIFICATION
// =============================================================================

// ErrorKind classifies a failed completion.
type ErrorKind int

const (
	// KindHTTP is a transport failure or non-success status.
	KindHTTP ErrorKind = iota + 1
	// KindProvider is an error object on the first choice.
	KindProvider
	// KindEmpty is a response without usable text.
	KindEmpty
)

const (
	defaultHTTPMessage  = "Request failed"
	defaultEmptyMessage = "Empty response from the model."
)

// String returns the user-facing prefix for the kind.
func (k ErrorKind) String() string {
	switch k {
	case KindHTTP:
		return "HTTP Error"
	case KindProvider:
		return "API Error"
	case KindEmpty:
		return "Response error"
	default:
		return "Error"
	}
}

// ResponseError is a classified completion failure.
type ResponseError struct {
	Kind    ErrorKind
	Message string
	Status  int   // HTTP status, 0 for transport failures
	Err     error // underlying cause, if any
}

// Error renders "<Kind>: <Message>", e.g. "HTTP Error: rate limited".
func (e *ResponseError) Error() string {
	msg := e.Kind.String() + ": " + e.Message
	if e.Err != nil && e.Message == defaultHTTPMessage {
		msg += " (" + e.Err.Error() + ")"
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *ResponseError) Unwrap() error {
	return e.Err
}

// httpError builds a KindHTTP error from a non-success response, preferring
// the provider's message, then the status text.
func httpError(status int, body []byte) *ResponseError {
	msg := ""
	if gjson.ValidBytes(body) {
		msg = gjson.GetBytes(body, "error.message").String()
	}
	if strings.TrimSpace(msg) == "" {
		msg = http.StatusText(status)
	}
	if msg == "" {
		msg = defaultHTTPMessage
	}
	return &ResponseError{Kind: KindHTTP, Message: msg, Status: status}
}

// =============================================================================
// NORMALIZATION
// =============================================================================

// Normalize reduces a raw completion to a single string. status is the
// HTTP status code (0 is treated as 200). It returns either non-empty text
// or exactly one *ResponseError.
func Normalize(status int, body []byte) (string, error) {
	if status != 0 && (status < 200 || status > 299) {
		return "", httpError(status, body)
	}
	reply, err := decodeDocument(body)
	if err != nil {
		return "", err
	}
	return reply.Text, nil
}

// decodeDocument normalizes a complete (non-streamed) JSON response.
func decodeDocument(body []byte) (*Reply, error) {
	if !gjson.ValidBytes(body) {
		return nil, &ResponseError{Kind: KindHTTP, Message: "invalid JSON in response"}
	}
	doc := gjson.ParseBytes(body)
	choice := doc.Get("choices.0")

	text, err := settle(
		ExtractContent(choice.Get("message.content")),
		choice.Get("error.message").String(),
		doc.Get("error.message").String(),
	)
	if err != nil {
		return nil, err
	}
	return &Reply{Text: text, Model: doc.Get("model").String()}, nil
}

// settle applies the classification order shared by documents and streams.
func settle(reply, choiceErr, topErr string) (string, error) {
	if choiceErr != "" {
		return "", &ResponseError{Kind: KindProvider, Message: choiceErr}
	}
	if strings.TrimSpace(reply) == "" {
		if topErr == "" {
			topErr = defaultEmptyMessage
		}
		return "", &ResponseError{Kind: KindEmpty, Message: topErr}
	}
	return reply, nil
}

// ExtractContent turns a message content value into text. Strings are used
// as-is. Arrays contribute each element's own string, "text", or
// "output_text" value; empty contributions are dropped and the rest are
// joined with newlines. Anything else yields "".
func ExtractContent(content gjson.Result) string {
	switch {
	case content.Type == gjson.String:
		return content.Str
	case content.IsArray():
		var parts []string
		content.ForEach(func(_, part gjson.Result) bool {
			if s := partText(part); s != "" {
				parts = append(parts, s)
			}
			return true
		})
		return strings.Join(parts, "\n")
	default:
		return ""
	}
}

func partText(part gjson.Result) string {
	if part.Type == gjson.String {
		return part.Str
	}
	if !part.IsObject() {
		return ""
	}
	for _, key := range []string{"text", "output_text"} {
		if v := part.Get(key); v.Type == gjson.String && v.Str != "" {
			return v.Str
		}
	}
	return ""
}
