// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session owns the single chat session: selected model, prompt,
// attachments, loading flag, error and answer.
//
// All mutation goes through Apply, a pure (State, Event) -> State function.
// Controller wraps Apply with a mutex and performs the one side effect the
// session has, the completion request:
//
//	idle -> (submit) -> validating -> in-flight -> settled(answer|error)
//
// Submitting while in flight, or with nothing to send, leaves the state
// unchanged. A missing credential is stored as the current error. Exactly
// one of answer or error is updated per submission, and Loading is false
// again after every settlement.
package session
