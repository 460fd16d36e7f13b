// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/routerchat/internal/cloud"
	"github.com/jeranaias/routerchat/internal/compose"
	"github.com/jeranaias/routerchat/internal/registry"
)

// Completer sends one composed message to a model.
type Completer interface {
	IsConfigured() bool
	Complete(ctx context.Context, model string, msg cloud.ChatMessage, onChunk cloud.StreamCallback) (*cloud.Reply, error)
}

// Pending is a submission that passed validation and awaits Execute.
type Pending struct {
	ID      string
	Model   string
	Message cloud.ChatMessage
	Started time.Time
}

// Controller serializes events on one State and runs submissions.
type Controller struct {
	mu     sync.Mutex
	state  State
	client Completer
	logger *slog.Logger
}

// NewController creates a controller. A nil logger discards output.
func NewController(cat *registry.Catalog, client Completer, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Controller{
		state:  NewState(cat),
		client: client,
		logger: logger,
	}
}

// State returns a snapshot.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Dispatch applies ev and returns the new state.
func (c *Controller) Dispatch(ev Event) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	prev := c.state.Phase()
	c.state = Apply(c.state, ev)
	if next := c.state.Phase(); next != prev {
		c.logger.Debug("session phase", "from", prev, "to", next, "request_id", c.state.RequestID)
	}
	return c.state
}

// BeginSubmit validates and, if allowed, moves the session in flight. It
// returns nil when the submit was a no-op or failed the credential check;
// the returned state says which.
func (c *Controller) BeginSubmit() (*Pending, State) {
	c.mu.Lock()
	defer c.mu.Unlock()

	before := c.state
	msg, err := compose.Compose(before.ComposeInput())
	if before.Loading || err != nil {
		return nil, before
	}

	id := uuid.NewString()
	c.state = Apply(before, SubmitRequested{
		HasCredential: c.client.IsConfigured(),
		RequestID:     id,
	})
	if !c.state.Loading {
		c.logger.Warn("submit blocked", "phase", c.state.Phase(), "reason", c.state.Err)
		return nil, c.state
	}

	c.logger.Info("submit",
		"request_id", id,
		"model", before.Model.ID,
		"parts", len(msg.Content),
		"image", before.Attachments.Image != nil && before.Capabilities().Vision,
		"file", before.Attachments.File != nil && before.Capabilities().FileAttach,
	)
	return &Pending{ID: id, Model: before.Model.ID, Message: msg, Started: time.Now()}, c.state
}

// Execute performs the request for p without touching state. It is safe to
// call from a goroutine.
func (c *Controller) Execute(ctx context.Context, p *Pending, onChunk cloud.StreamCallback) Settled {
	reply, err := c.client.Complete(ctx, p.Model, p.Message, onChunk)
	if err != nil {
		c.logger.Error("request failed", "request_id", p.ID, "model", p.Model, "duration", time.Since(p.Started), "error", err)
		return Settled{RequestID: p.ID, Err: err}
	}
	c.logger.Info("request settled",
		"request_id", p.ID,
		"model", reply.Model,
		"streamed", reply.Streamed,
		"chars", len([]rune(reply.Text)),
		"duration", time.Since(p.Started),
	)
	return Settled{RequestID: p.ID, Answer: reply.Text}
}

// Submit runs a whole submission synchronously. The second result is
// false when the submit was a no-op or blocked before any request.
func (c *Controller) Submit(ctx context.Context, onChunk cloud.StreamCallback) (State, bool) {
	p, st := c.BeginSubmit()
	if p == nil {
		return st, false
	}
	return c.Dispatch(c.Execute(ctx, p, onChunk)), true
}
