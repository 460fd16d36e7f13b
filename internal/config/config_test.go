// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/routerchat/internal/registry"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"OPENROUTER_API_KEY", "ROUTERCHAT_API_KEY", "ROUTERCHAT_BASE_URL",
		"ROUTERCHAT_SITE_URL", "ROUTERCHAT_STREAM", "ROUTERCHAT_MODEL", "ROUTERCHAT_LOG_LEVEL",
	} {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.True(t, cfg.Cloud.Stream)
	assert.Equal(t, "OpenRouter Chatbot", cfg.Cloud.SiteName)
	assert.Equal(t, 12*time.Millisecond, cfg.RevealInterval())
	assert.Zero(t, cfg.Timeout())
	assert.Zero(t, cfg.Attachments.MaxImageBytes)
}

func TestLoadFromPath_PartialFileKeepsDefaults(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
[cloud]
api_key = "sk-file"
stream = false

[ui]
default_model = "amazon/nova-2-lite-v1:free"
`)
	cfg, err := LoadFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, "sk-file", cfg.Cloud.APIKey)
	assert.False(t, cfg.Cloud.Stream)
	assert.Equal(t, "https://openrouter.ai/api/v1", cfg.Cloud.BaseURL)
	assert.Equal(t, 120000, cfg.Attachments.MaxFileChars)
	assert.Equal(t, "amazon/nova-2-lite-v1:free", cfg.UI.DefaultModel)
}

func TestLoadFromPath_CustomModels(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
[[models]]
id = "a/one"
label = "One"

[[models]]
id = "b/two"
label = "Two"
short_label = "2"
vision = true
file_attach = true
`)
	cfg, err := LoadFromPath(path)
	require.NoError(t, err)

	cat, err := cfg.Catalog()
	require.NoError(t, err)
	assert.Equal(t, "a/one", cat.First().ID)
	assert.Equal(t, registry.Capabilities{Vision: true, FileAttach: true}, cat.Capabilities("b/two"))
}

func TestLoadFromPath_Invalid(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
[cloud]
base_url = "ftp://nope"
timeout_secs = -1

[ui]
reveal_interval_ms = 5000
default_model = "ghost/model"

[log]
level = "chatty"
`)
	_, err := LoadFromPath(path)
	require.Error(t, err)

	var verrs ValidateErrors
	require.True(t, errors.As(err, &verrs))
	fields := map[string]bool{}
	for _, e := range verrs {
		fields[e.Field] = true
	}
	for _, f := range []string{"cloud.base_url", "cloud.timeout_secs", "ui.reveal_interval_ms", "ui.default_model", "log.level"} {
		assert.True(t, fields[f], "expected error for %s", f)
	}
}

func TestLoadFromPath_DuplicateModels(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "[[models]]\nid = \"x\"\n[[models]]\nid = \"x\"\n")
	_, err := LoadFromPath(path)
	assert.ErrorContains(t, err, "duplicate model id")
}

func TestLoadTOML_FixesPermissions(t *testing.T) {
	path := writeConfig(t, "version = \"1\"\n")
	require.NoError(t, os.Chmod(path, 0o644))

	require.NoError(t, LoadTOML(Default(), path))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestApplyEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENROUTER_API_KEY", "from-openrouter")
	cfg := Default()
	cfg.ApplyEnvOverrides()
	assert.Equal(t, "from-openrouter", cfg.Cloud.APIKey)

	t.Setenv("ROUTERCHAT_API_KEY", "from-routerchat")
	t.Setenv("ROUTERCHAT_STREAM", "false")
	t.Setenv("ROUTERCHAT_MODEL", "x/y")
	t.Setenv("ROUTERCHAT_LOG_LEVEL", "debug")
	cfg.ApplyEnvOverrides()
	assert.Equal(t, "from-routerchat", cfg.Cloud.APIKey)
	assert.False(t, cfg.Cloud.Stream)
	assert.Equal(t, "x/y", cfg.UI.DefaultModel)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_UsesRouterchatHome(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Setenv("ROUTERCHAT_HOME", dir)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.Cloud.APIKey)

	cfg.Cloud.APIKey = "saved"
	require.NoError(t, Save(cfg))

	again, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "saved", again.Cloud.APIKey)
}

func TestGetSet(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Set("ui.word_wrap", "80"))
	v, err := cfg.Get("ui.word_wrap")
	require.NoError(t, err)
	assert.Equal(t, "80", v)

	require.NoError(t, cfg.Set("cloud.stream", "false"))
	assert.False(t, cfg.Cloud.Stream)

	require.NoError(t, cfg.Set("attachments.max_image_bytes", "1048576"))
	assert.Equal(t, int64(1048576), cfg.Attachments.MaxImageBytes)

	assert.Error(t, cfg.Set("ui.word_wrap", "wide"))
	assert.Error(t, cfg.Set("nope", "x"))
	_, err = cfg.Get("nope")
	assert.Error(t, err)

	assert.Contains(t, GetAllKeys(), "cloud.api_key")
}

func TestString_RedactsKey(t *testing.T) {
	cfg := Default()
	cfg.Cloud.APIKey = "sk-secret"
	out := cfg.String()
	assert.NotContains(t, out, "sk-secret")
	assert.Contains(t, out, "[REDACTED]")
	assert.Equal(t, "sk-secret", cfg.Cloud.APIKey)
}

// TestConfig_ConcurrentAccess checks Global and SetGlobal under contention.
// Run with: go test -race ./internal/config/
func TestConfig_ConcurrentAccess(t *testing.T) {
	clearEnv(t)
	t.Setenv("ROUTERCHAT_HOME", t.TempDir())
	ResetGlobalForTesting()
	defer ResetGlobalForTesting()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			SetGlobal(Default())
		}()
		go func() {
			defer wg.Done()
			if Global() == nil {
				t.Error("Global() returned nil")
			}
		}()
	}
	wg.Wait()
}
