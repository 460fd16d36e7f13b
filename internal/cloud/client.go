// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cloud

import (
	"bytes"
	"context"
	"crypto/sha256"
	"crypto/tls"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Configuration constants for the OpenRouter API.
const (
	// DefaultBaseURL is the base URL for the OpenRouter API.
	DefaultBaseURL = "https://openrouter.ai/api/v1"

	// DefaultSiteName is sent as X-Title.
	DefaultSiteName = "OpenRouter Chatbot"

	// MaxResponseSize is the maximum allowed response body size.
	// SECURITY: Response size limit prevents memory exhaustion.
	MaxResponseSize = 10 * 1024 * 1024

	userAgent = "routerchat/0.1.0"
)

// sharedTransport is reused across clients for connection pooling.
var sharedTransport = &http.Transport{
	Proxy:               http.ProxyFromEnvironment,
	MaxIdleConns:        10,
	MaxIdleConnsPerHost: 4,
	IdleConnTimeout:     90 * time.Second,
	TLSHandshakeTimeout: 10 * time.Second,
	TLSClientConfig: &tls.Config{
		MinVersion: tls.VersionTLS12,
	},
}

// ErrNotConfigured indicates the API key is not set. Its text is shown to
// the user verbatim.
var ErrNotConfigured = errors.New("API key is missing. Please set your OpenRouter API key.")

// =============================================================================
// WIRE TYPES
// =============================================================================

// Content part types.
const (
	PartText  = "text"
	PartImage = "image_url"
)

// ImageURL is the payload of an image_url part.
type ImageURL struct {
	URL string `json:"url"`
}

// ContentPart is one element of a multi-part message.
type ContentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

// TextPart builds a text part.
func TextPart(text string) ContentPart {
	return ContentPart{Type: PartText, Text: text}
}

// ImagePart builds an image_url part from a URL or data URI.
func ImagePart(url string) ContentPart {
	return ContentPart{Type: PartImage, ImageURL: &ImageURL{URL: url}}
}

// ChatMessage is a single message with array content.
type ChatMessage struct {
	Role    string        `json:"role"`
	Content []ContentPart `json:"content"`
}

// NewUserMessage creates a user message from parts.
func NewUserMessage(parts ...ContentPart) ChatMessage {
	return ChatMessage{Role: "user", Content: parts}
}

// ChatRequest is the chat completions request body.
type ChatRequest struct {
	Model    string        `json:"model"`
	Messages []ChatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

// Reply is a normalized completion.
type Reply struct {
	Text     string
	Model    string
	Streamed bool
	Chunks   int
	Duration time.Duration
}

// =============================================================================
// CLIENT
// =============================================================================

// Client is an OpenRouter chat completions client. It is safe for
// concurrent use; the key and headers may be swapped at runtime.
type Client struct {
	mu       sync.RWMutex
	apiKey   string
	siteURL  string
	siteName string

	baseURL string
	stream  bool
	http    *http.Client
	logger  *slog.Logger
}

// NewClient creates a client with streaming enabled and no request timeout.
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:   strings.TrimSpace(apiKey),
		siteName: DefaultSiteName,
		baseURL:  DefaultBaseURL,
		stream:   true,
		http:     &http.Client{Transport: sharedTransport},
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithBaseURL sets a custom base URL.
func (c *Client) WithBaseURL(url string) *Client {
	c.baseURL = strings.TrimRight(url, "/")
	return c
}

// WithTimeout bounds each request. Zero means no timeout.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	c.http = &http.Client{Transport: c.http.Transport, Timeout: timeout}
	return c
}

// WithStreaming selects SSE delivery (true) or a single JSON document.
func (c *Client) WithStreaming(enabled bool) *Client {
	c.stream = enabled
	return c
}

// WithSiteURL sets the HTTP-Referer header.
func (c *Client) WithSiteURL(url string) *Client {
	c.mu.Lock()
	c.siteURL = url
	c.mu.Unlock()
	return c
}

// WithSiteName sets the X-Title header.
func (c *Client) WithSiteName(name string) *Client {
	c.mu.Lock()
	c.siteName = name
	c.mu.Unlock()
	return c
}

// WithLogger sets the structured logger.
func (c *Client) WithLogger(l *slog.Logger) *Client {
	if l != nil {
		c.logger = l
	}
	return c
}

// SetCredentials swaps the key and identification headers, used when the
// config file is reloaded.
func (c *Client) SetCredentials(apiKey, siteURL, siteName string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.apiKey = strings.TrimSpace(apiKey)
	c.siteURL = siteURL
	if siteName != "" {
		c.siteName = siteName
	}
}

// IsConfigured reports whether an API key is set.
func (c *Client) IsConfigured() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.apiKey != ""
}

// Streaming reports whether SSE delivery is requested.
func (c *Client) Streaming() bool {
	return c.stream
}

// KeyFingerprint returns the first 8 hex chars of the key's SHA-256.
func (c *Client) KeyFingerprint() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.apiKey == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(c.apiKey))
	return hex.EncodeToString(sum[:4])
}

// setHeaders sets the required headers for OpenRouter API requests.
func (c *Client) setHeaders(req *http.Request) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	if c.siteURL != "" {
		req.Header.Set("HTTP-Referer", c.siteURL)
	}
	if c.siteName != "" {
		req.Header.Set("X-Title", c.siteName)
	}
}

// Complete sends one user message to model and returns the normalized
// reply. When streaming, onChunk (optional) sees each text delta as it
// arrives; the returned Reply always carries the full text.
//
// Errors are ErrNotConfigured, a context error, or a *ResponseError.
func (c *Client) Complete(ctx context.Context, model string, msg ChatMessage, onChunk StreamCallback) (*Reply, error) {
	if !c.IsConfigured() {
		return nil, ErrNotConfigured
	}

	body, err := json.Marshal(ChatRequest{
		Model:    model,
		Messages: []ChatMessage{msg},
		Stream:   c.stream,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req)
	if c.stream {
		req.Header.Set("Accept", "text/event-stream")
		req.Header.Set("Cache-Control", "no-cache")
	}

	c.logger.Debug("api request", "path", req.URL.Path, "model", model, "stream", c.stream, "key", c.KeyFingerprint())

	start := time.Now()
	resp, err := c.http.Do(req)

	// SECURITY: drop the credential from the request once sent
	req.Header.Del("Authorization")

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &ResponseError{Kind: KindHTTP, Message: defaultHTTPMessage, Err: err}
	}
	defer resp.Body.Close()

	c.logger.Debug("api response", "status", resp.StatusCode, "content_type", resp.Header.Get("Content-Type"), "ttfb", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := readResponse(resp)
		return nil, httpError(resp.StatusCode, data)
	}

	var reply *Reply
	if isEventStream(resp) {
		reply, err = c.consumeStream(ctx, resp.Body, onChunk)
	} else {
		var data []byte
		data, err = readResponse(resp)
		if err == nil {
			reply, err = decodeDocument(data)
		}
	}
	if err != nil {
		return nil, err
	}

	if reply.Model == "" {
		reply.Model = model
	}
	reply.Duration = time.Since(start)
	return reply, nil
}

func isEventStream(resp *http.Response) bool {
	return strings.HasPrefix(strings.ToLower(resp.Header.Get("Content-Type")), "text/event-stream")
}

// readResponse reads the response body with size limits.
func readResponse(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize+1))
	if err != nil {
		return nil, &ResponseError{Kind: KindHTTP, Message: defaultHTTPMessage, Err: fmt.Errorf("failed to read response: %w", err)}
	}
	if int64(len(body)) > MaxResponseSize {
		return nil, &ResponseError{Kind: KindHTTP, Message: fmt.Sprintf("response exceeded maximum size of %d bytes", MaxResponseSize)}
	}
	return body, nil
}
