// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cloud talks to the OpenRouter chat completions endpoint.
//
// A request is always a single user message made of ordered content parts
// (text and image_url). The reply is reduced to one displayable string by
// Normalize, or to exactly one classified *ResponseError:
//
//   - KindHTTP: transport failure or non-2xx status ("HTTP Error: ...")
//   - KindProvider: the first choice carries an error ("API Error: ...")
//   - KindEmpty: no usable text came back ("Response error: ...")
//
// # Key Types
//
//   - Client: HTTP client with fluent With* configuration
//   - ChatMessage / ContentPart: wire format for multi-part user messages
//   - SSEReader: server-sent events parser used when streaming is enabled
//
// # Usage
//
//	client := cloud.NewClient(apiKey).WithSiteURL("https://example.com")
//	reply, err := client.Complete(ctx, "amazon/nova-2-lite-v1:free",
//	    cloud.NewUserMessage(cloud.TextPart("Hello")), nil)
//
// There is no retry. A failed call surfaces its error once.
//
// # Security
//
// The API key is never logged; log lines carry a short SHA-256 fingerprint.
package cloud
