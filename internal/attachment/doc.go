// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package attachment holds the pending image and text-file attachments.
//
// At most one image and one file are pending at a time. Images are encoded
// as data URIs. Text files are size-checked before reading and truncated to
// a character limit afterwards, with a trailing notice naming the limit.
//
// Reads complete asynchronously in the UI, so each slot carries a
// generation number. Starting a read or clearing a slot bumps the
// generation; a completion tagged with an older generation is discarded.
package attachment
