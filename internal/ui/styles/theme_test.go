// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewTheme(t *testing.T) {
	th := NewTheme()
	assert.NotNil(t, th)
	assert.Contains(t, th.AnswerBadge.Render("Nova"), "Nova")
}

func TestRenderHelpers_IncludeMarkers(t *testing.T) {
	assert.True(t, strings.Contains(RenderError("boom"), "[X] boom"))
	assert.True(t, strings.Contains(RenderSuccess("ok"), "[OK] ok"))
	assert.True(t, strings.Contains(RenderWarning("hm"), "[!] hm"))
}
