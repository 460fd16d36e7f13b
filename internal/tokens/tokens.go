// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package tokens estimates prompt size for the status bar.
//
// The cl100k_base encoding is loaded in the background by Warm because
// tiktoken-go may fetch its BPE table on first use. Until it is ready, or
// if loading fails, Estimate falls back to a character/word heuristic.
package tokens

import (
	"strings"
	"sync"
	"sync/atomic"

	tiktoken "github.com/pkoukk/tiktoken-go"
)

// Encoding is the BPE table used for counts.
const Encoding = "cl100k_base"

type encoder interface {
	Encode(text string, allowedSpecial []string, disallowedSpecial []string) []int
}

var (
	ready    atomic.Pointer[encoderBox]
	warmOnce sync.Once
	loadErr  atomic.Value
)

type encoderBox struct{ enc encoder }

// Warm loads the encoding. It blocks; call it from a goroutine.
func Warm() error {
	warmOnce.Do(func() {
		enc, err := tiktoken.GetEncoding(Encoding)
		if err != nil {
			loadErr.Store(err)
			return
		}
		ready.Store(&encoderBox{enc: enc})
	})
	if err, ok := loadErr.Load().(error); ok {
		return err
	}
	return nil
}

// Exact reports whether Estimate is using the real encoding.
func Exact() bool {
	return ready.Load() != nil
}

// Estimate returns the token count of text.
func Estimate(text string) int {
	if text == "" {
		return 0
	}
	if box := ready.Load(); box != nil {
		return len(box.enc.Encode(text, nil, nil))
	}
	return Heuristic(text)
}

// Heuristic blends word and character counts (about 4 chars per token).
func Heuristic(text string) int {
	if text == "" {
		return 0
	}
	words := len(strings.Fields(text))
	chars := len([]rune(text))
	n := (words + chars/4) / 2
	if n == 0 {
		n = 1
	}
	return n
}

// useEncoder installs enc directly; tests only.
func useEncoder(enc encoder) {
	if enc == nil {
		ready.Store(nil)
		return
	}
	ready.Store(&encoderBox{enc: enc})
}
