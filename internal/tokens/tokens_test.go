// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package tokens

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fixedEncoder struct{ n int }

func (f fixedEncoder) Encode(string, []string, []string) []int {
	return make([]int, f.n)
}

func TestHeuristic(t *testing.T) {
	assert.Zero(t, Heuristic(""))
	assert.Equal(t, 1, Heuristic("a"))

	text := strings.Repeat("word ", 100)
	// 100 words, 500 chars -> (100 + 125) / 2
	assert.Equal(t, 112, Heuristic(text))
}

func TestEstimate_UsesEncoderWhenReady(t *testing.T) {
	defer useEncoder(nil)

	useEncoder(nil)
	assert.False(t, Exact())
	assert.Equal(t, Heuristic("hello world"), Estimate("hello world"))

	useEncoder(fixedEncoder{n: 7})
	assert.True(t, Exact())
	assert.Equal(t, 7, Estimate("anything"))
	assert.Zero(t, Estimate(""))
}
