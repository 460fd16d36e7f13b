// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/routerchat/internal/cloud"
	"github.com/jeranaias/routerchat/internal/registry"
)

type fakeCompleter struct {
	configured bool
	reply      string
	err        error
	calls      atomic.Int32
	gotModel   string
	gotMsg     cloud.ChatMessage
	block      chan struct{}
}

func (f *fakeCompleter) IsConfigured() bool { return f.configured }

func (f *fakeCompleter) Complete(ctx context.Context, model string, msg cloud.ChatMessage, onChunk cloud.StreamCallback) (*cloud.Reply, error) {
	f.calls.Add(1)
	f.gotModel = model
	f.gotMsg = msg
	if f.block != nil {
		<-f.block
	}
	if f.err != nil {
		return nil, f.err
	}
	if onChunk != nil {
		onChunk(f.reply)
	}
	return &cloud.Reply{Text: f.reply, Model: model}, nil
}

func TestController_EmptySubmitIsNoop(t *testing.T) {
	fc := &fakeCompleter{configured: true}
	c := NewController(registry.Default(), fc, nil)

	st, sent := c.Submit(context.Background(), nil)
	assert.False(t, sent)
	assert.False(t, st.Loading)
	assert.Empty(t, st.Err)
	assert.Zero(t, fc.calls.Load())
}

func TestController_MissingCredential(t *testing.T) {
	fc := &fakeCompleter{}
	c := NewController(registry.Default(), fc, nil)
	c.Dispatch(SetPrompt{Text: "hello"})

	st, sent := c.Submit(context.Background(), nil)
	assert.False(t, sent)
	assert.Equal(t, cloud.ErrNotConfigured.Error(), st.Err)
	assert.Zero(t, fc.calls.Load())
}

func TestController_SuccessfulSubmit(t *testing.T) {
	fc := &fakeCompleter{configured: true, reply: "hello back"}
	c := NewController(registry.Default(), fc, nil)
	c.Dispatch(SetPrompt{Text: "  hello  "})

	var chunks []string
	st, sent := c.Submit(context.Background(), func(d string) { chunks = append(chunks, d) })

	require.True(t, sent)
	assert.Equal(t, "hello back", st.Answer)
	assert.False(t, st.Loading)
	assert.Equal(t, []string{"hello back"}, chunks)
	assert.Equal(t, "mistralai/devstral-2512:free", fc.gotModel)
	require.Len(t, fc.gotMsg.Content, 1)
	assert.Equal(t, "hello", fc.gotMsg.Content[0].Text)
	assert.NotEmpty(t, st.RequestID)
}

func TestController_SecondSubmitWhileInFlightIsNoop(t *testing.T) {
	fc := &fakeCompleter{configured: true, reply: "ok", block: make(chan struct{})}
	c := NewController(registry.Default(), fc, nil)
	c.Dispatch(SetPrompt{Text: "q"})

	p, st := c.BeginSubmit()
	require.NotNil(t, p)
	require.True(t, st.Loading)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.Dispatch(c.Execute(context.Background(), p, nil))
	}()

	p2, st2 := c.BeginSubmit()
	assert.Nil(t, p2)
	assert.True(t, st2.Loading)

	close(fc.block)
	wg.Wait()

	final := c.State()
	assert.False(t, final.Loading)
	assert.Equal(t, "ok", final.Answer)
	assert.Equal(t, int32(1), fc.calls.Load())
}

func TestController_EndToEndHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	}))
	defer srv.Close()

	client := cloud.NewClient("key").WithBaseURL(srv.URL)
	c := NewController(registry.Default(), client, nil)
	c.Dispatch(SetPrompt{Text: "hi"})

	st, sent := c.Submit(context.Background(), nil)
	require.True(t, sent)
	assert.False(t, st.Loading)
	assert.Contains(t, st.Err, "rate limited")
	assert.Empty(t, st.Answer)
}

func TestController_LogsPhaseChanges(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	fc := &fakeCompleter{configured: true, reply: "done"}
	c := NewController(registry.Default(), fc, logger)
	c.Dispatch(SetPrompt{Text: "hi"})
	assert.NotContains(t, buf.String(), "session phase")

	st, sent := c.Submit(context.Background(), nil)
	require.True(t, sent)
	assert.Equal(t, PhaseAnswered, st.Phase())
	assert.Contains(t, buf.String(), "from=in-flight to=answered")

	fc.configured = false
	buf.Reset()
	c.Submit(context.Background(), nil)
	assert.Contains(t, buf.String(), `msg="submit blocked" phase=failed`)
}
