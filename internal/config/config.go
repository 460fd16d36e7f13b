// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/routerchat/internal/attachment"
	"github.com/jeranaias/routerchat/internal/cloud"
	"github.com/jeranaias/routerchat/internal/registry"
)

// CurrentVersion is written to new config files.
const CurrentVersion = "1"

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete routerchat configuration.
type Config struct {
	Version string `toml:"version"`

	Cloud       CloudConfig      `toml:"cloud"`
	Attachments AttachmentConfig `toml:"attachments"`
	UI          UIConfig         `toml:"ui"`
	Log         LogConfig        `toml:"log"`

	// Models replaces the built-in roster when non-empty.
	Models []ModelConfig `toml:"models,omitempty"`
}

// CloudConfig contains OpenRouter endpoint configuration.
type CloudConfig struct {
	// APIKey is the OpenRouter API key.
	APIKey string `toml:"api_key"`
	// BaseURL is the API root; /chat/completions is appended.
	BaseURL string `toml:"base_url"`
	// SiteURL is sent as HTTP-Referer when set.
	SiteURL string `toml:"site_url"`
	// SiteName is sent as X-Title.
	SiteName string `toml:"site_name"`
	// Stream requests SSE delivery.
	Stream bool `toml:"stream"`
	// TimeoutSecs bounds each request; 0 waits indefinitely.
	TimeoutSecs int `toml:"timeout_secs"`
}

// AttachmentConfig bounds attachment sizes.
type AttachmentConfig struct {
	MaxFileBytes int64 `toml:"max_file_bytes"`
	MaxFileChars int   `toml:"max_file_chars"`
	// MaxImageBytes of 0 disables the image limit.
	MaxImageBytes int64 `toml:"max_image_bytes"`
}

// UIConfig contains terminal UI configuration.
type UIConfig struct {
	// RevealIntervalMs is the delay between revealed characters.
	RevealIntervalMs int `toml:"reveal_interval_ms"`
	// WordWrap is the markdown wrap width.
	WordWrap int `toml:"word_wrap"`
	// GlamourStyle is "auto", "dark", "light", "notty" or a style file path.
	GlamourStyle string `toml:"glamour_style"`
	// DefaultModel is selected at start instead of the first model.
	DefaultModel string `toml:"default_model"`
}

// LogConfig controls the structured log.
type LogConfig struct {
	// Level is debug, info, warn, error or off.
	Level string `toml:"level"`
	// File is the log path; empty uses ~/.routerchat/routerchat.log.
	File string `toml:"file"`
}

// ModelConfig is one [[models]] entry.
type ModelConfig struct {
	ID         string `toml:"id"`
	Label      string `toml:"label"`
	ShortLabel string `toml:"short_label"`
	Vision     bool   `toml:"vision"`
	FileAttach bool   `toml:"file_attach"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a new Config with default values.
func Default() *Config {
	return &Config{
		Version: CurrentVersion,
		Cloud: CloudConfig{
			BaseURL:  cloud.DefaultBaseURL,
			SiteName: cloud.DefaultSiteName,
			Stream:   true,
		},
		Attachments: AttachmentConfig{
			MaxFileBytes: attachment.DefaultMaxFileBytes,
			MaxFileChars: attachment.DefaultMaxFileChars,
		},
		UI: UIConfig{
			RevealIntervalMs: 12,
			WordWrap:         100,
			GlamourStyle:     "auto",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the routerchat configuration directory path.
func ConfigDir() (string, error) {
	if dir := os.Getenv("ROUTERCHAT_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".routerchat"), nil
}

// ConfigPath returns the path to the TOML config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// DefaultLogPath returns the log file used when [log] file is empty.
func DefaultLogPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "routerchat.log"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0o755)
}

// ensureSecurePermissions tightens a config file holding a key to 0600.
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if mode := info.Mode().Perm(); mode&0o077 != 0 {
		if err := os.Chmod(path, 0o600); err != nil {
			return fmt.Errorf("failed to fix insecure permissions (was %o): %w", mode, err)
		}
	}
	return nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load reads ~/.routerchat/config.toml if present, then applies environment
// overrides and validates.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	if _, statErr := os.Stat(path); statErr != nil {
		cfg := Default()
		cfg.ApplyEnvOverrides()
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid config: %w", err)
		}
		return cfg, nil
	}
	return LoadFromPath(path)
}

// LoadFromPath loads configuration from a specific file with full validation.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	if err := LoadTOML(cfg, path); err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}
	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML decodes path over cfg. Keys absent from the file keep cfg's
// values.
func LoadTOML(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		fmt.Fprintf(os.Stderr, "Warning: unknown config keys in %s: %s\n", path, strings.Join(keys, ", "))
	}
	fillDefaults(cfg)
	return nil
}

// fillDefaults fills in values a file may have blanked.
func fillDefaults(cfg *Config) {
	d := Default()
	if cfg.Version == "" {
		cfg.Version = d.Version
	}
	if cfg.Cloud.BaseURL == "" {
		cfg.Cloud.BaseURL = d.Cloud.BaseURL
	}
	if cfg.Cloud.SiteName == "" {
		cfg.Cloud.SiteName = d.Cloud.SiteName
	}
	if cfg.Attachments.MaxFileBytes == 0 {
		cfg.Attachments.MaxFileBytes = d.Attachments.MaxFileBytes
	}
	if cfg.Attachments.MaxFileChars == 0 {
		cfg.Attachments.MaxFileChars = d.Attachments.MaxFileChars
	}
	if cfg.UI.RevealIntervalMs == 0 {
		cfg.UI.RevealIntervalMs = d.UI.RevealIntervalMs
	}
	if cfg.UI.WordWrap == 0 {
		cfg.UI.WordWrap = d.UI.WordWrap
	}
	if cfg.UI.GlamourStyle == "" {
		cfg.UI.GlamourStyle = d.UI.GlamourStyle
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = d.Log.Level
	}
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save writes cfg to the default config path.
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return SaveTOML(cfg, path)
}

// SaveTOML writes cfg to path with 0600 permissions.
func SaveTOML(cfg *Config, path string) error {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	if err := os.Chmod(path, 0o600); err != nil {
		return fmt.Errorf("failed to set config file permissions: %w", err)
	}

	fmt.Fprintln(file, "# routerchat configuration file")
	fmt.Fprintln(file, "")

	if err := toml.NewEncoder(file).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

var validLogLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true, "off": true}

// Validate checks the configuration and returns ValidateErrors on failure.
func (c *Config) Validate() error {
	var errs ValidateErrors
	add := func(field, format string, args ...any) {
		errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if u, err := url.Parse(c.Cloud.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		add("cloud.base_url", "must be an absolute http(s) URL, got %q", c.Cloud.BaseURL)
	}
	if c.Cloud.SiteURL != "" {
		if u, err := url.Parse(c.Cloud.SiteURL); err != nil || u.Scheme == "" {
			add("cloud.site_url", "must be an absolute URL, got %q", c.Cloud.SiteURL)
		}
	}
	if c.Cloud.TimeoutSecs < 0 {
		add("cloud.timeout_secs", "must be >= 0, got %d", c.Cloud.TimeoutSecs)
	}

	if c.Attachments.MaxFileBytes <= 0 {
		add("attachments.max_file_bytes", "must be > 0")
	}
	if c.Attachments.MaxFileChars <= 0 {
		add("attachments.max_file_chars", "must be > 0")
	}
	if c.Attachments.MaxImageBytes < 0 {
		add("attachments.max_image_bytes", "must be >= 0")
	}

	if c.UI.RevealIntervalMs < 1 || c.UI.RevealIntervalMs > 1000 {
		add("ui.reveal_interval_ms", "must be between 1 and 1000, got %d", c.UI.RevealIntervalMs)
	}
	if c.UI.WordWrap < 20 || c.UI.WordWrap > 500 {
		add("ui.word_wrap", "must be between 20 and 500, got %d", c.UI.WordWrap)
	}

	if !validLogLevels[strings.ToLower(c.Log.Level)] {
		add("log.level", "invalid level %q, must be one of: debug, info, warn, error, off", c.Log.Level)
	}

	catalog, err := c.Catalog()
	if err != nil {
		add("models", "%v", err)
	} else if c.UI.DefaultModel != "" {
		if _, ok := catalog.Lookup(c.UI.DefaultModel); !ok {
			add("ui.default_model", "unknown model %q", c.UI.DefaultModel)
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// DERIVED SETTINGS
// =============================================================================

// Catalog builds the model registry from [[models]] or the built-in list.
func (c *Config) Catalog() (*registry.Catalog, error) {
	if len(c.Models) == 0 {
		return registry.Default(), nil
	}
	entries := make([]registry.Entry, len(c.Models))
	for i, m := range c.Models {
		entries[i] = registry.Entry{
			Model:        registry.Model{ID: m.ID, Label: m.Label, ShortLabel: m.ShortLabel},
			Capabilities: registry.Capabilities{Vision: m.Vision, FileAttach: m.FileAttach},
		}
	}
	return registry.New(entries)
}

// Limits returns the attachment limits.
func (c *Config) Limits() attachment.Limits {
	return attachment.Limits{
		MaxFileBytes:  c.Attachments.MaxFileBytes,
		MaxFileChars:  c.Attachments.MaxFileChars,
		MaxImageBytes: c.Attachments.MaxImageBytes,
	}
}

// RevealInterval returns the reveal cadence.
func (c *Config) RevealInterval() time.Duration {
	return time.Duration(c.UI.RevealIntervalMs) * time.Millisecond
}

// Timeout returns the request timeout, 0 meaning none.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Cloud.TimeoutSecs) * time.Second
}

// NewClient builds a cloud client from the [cloud] section.
func (c *Config) NewClient() *cloud.Client {
	return cloud.NewClient(c.Cloud.APIKey).
		WithBaseURL(c.Cloud.BaseURL).
		WithSiteURL(c.Cloud.SiteURL).
		WithSiteName(c.Cloud.SiteName).
		WithStreaming(c.Cloud.Stream).
		WithTimeout(c.Timeout())
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - OPENROUTER_API_KEY: overrides cloud.api_key
//   - ROUTERCHAT_API_KEY: overrides cloud.api_key (wins over OPENROUTER_API_KEY)
//   - ROUTERCHAT_BASE_URL: overrides cloud.base_url
//   - ROUTERCHAT_SITE_URL: overrides cloud.site_url
//   - ROUTERCHAT_STREAM: "1"/"true" or "0"/"false"
//   - ROUTERCHAT_MODEL: overrides ui.default_model
//   - ROUTERCHAT_LOG_LEVEL: overrides log.level
func (c *Config) ApplyEnvOverrides() {
	if key := os.Getenv("OPENROUTER_API_KEY"); key != "" {
		c.Cloud.APIKey = key
	}
	if key := os.Getenv("ROUTERCHAT_API_KEY"); key != "" {
		c.Cloud.APIKey = key
	}
	if u := os.Getenv("ROUTERCHAT_BASE_URL"); u != "" {
		c.Cloud.BaseURL = u
	}
	if u := os.Getenv("ROUTERCHAT_SITE_URL"); u != "" {
		c.Cloud.SiteURL = u
	}
	if s := os.Getenv("ROUTERCHAT_STREAM"); s != "" {
		if b, err := strconv.ParseBool(s); err == nil {
			c.Cloud.Stream = b
		}
	}
	if m := os.Getenv("ROUTERCHAT_MODEL"); m != "" {
		c.UI.DefaultModel = m
	}
	if l := os.Getenv("ROUTERCHAT_LOG_LEVEL"); l != "" {
		c.Log.Level = l
	}
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// keys maps dot-notation names to field accessors.
func (c *Config) keys() map[string]*string {
	return map[string]*string{
		"cloud.api_key":    &c.Cloud.APIKey,
		"cloud.base_url":   &c.Cloud.BaseURL,
		"cloud.site_url":   &c.Cloud.SiteURL,
		"cloud.site_name":  &c.Cloud.SiteName,
		"ui.glamour_style": &c.UI.GlamourStyle,
		"ui.default_model": &c.UI.DefaultModel,
		"log.level":        &c.Log.Level,
		"log.file":         &c.Log.File,
	}
}

func (c *Config) intKeys() map[string]*int {
	return map[string]*int{
		"cloud.timeout_secs":         &c.Cloud.TimeoutSecs,
		"attachments.max_file_chars": &c.Attachments.MaxFileChars,
		"ui.reveal_interval_ms":      &c.UI.RevealIntervalMs,
		"ui.word_wrap":               &c.UI.WordWrap,
	}
}

func (c *Config) int64Keys() map[string]*int64 {
	return map[string]*int64{
		"attachments.max_file_bytes":  &c.Attachments.MaxFileBytes,
		"attachments.max_image_bytes": &c.Attachments.MaxImageBytes,
	}
}

// Get returns a setting by dot-notation key as a string.
func (c *Config) Get(key string) (string, error) {
	key = strings.ToLower(key)
	if p, ok := c.keys()[key]; ok {
		return *p, nil
	}
	if p, ok := c.intKeys()[key]; ok {
		return strconv.Itoa(*p), nil
	}
	if p, ok := c.int64Keys()[key]; ok {
		return strconv.FormatInt(*p, 10), nil
	}
	if key == "cloud.stream" {
		return strconv.FormatBool(c.Cloud.Stream), nil
	}
	return "", fmt.Errorf("unknown config key: %s", key)
}

// Set updates a setting from its string form. It does not validate.
func (c *Config) Set(key, value string) error {
	key = strings.ToLower(key)
	if p, ok := c.keys()[key]; ok {
		*p = value
		return nil
	}
	if p, ok := c.intKeys()[key]; ok {
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s: expected integer: %w", key, err)
		}
		*p = n
		return nil
	}
	if p, ok := c.int64Keys()[key]; ok {
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("%s: expected integer: %w", key, err)
		}
		*p = n
		return nil
	}
	if key == "cloud.stream" {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s: expected boolean: %w", key, err)
		}
		c.Cloud.Stream = b
		return nil
	}
	return fmt.Errorf("unknown config key: %s", key)
}

// GetAllKeys returns all settable keys, sorted.
func GetAllKeys() []string {
	c := Default()
	var out []string
	for k := range c.keys() {
		out = append(out, k)
	}
	for k := range c.intKeys() {
		out = append(out, k)
	}
	for k := range c.int64Keys() {
		out = append(out, k)
	}
	out = append(out, "cloud.stream")
	sort.Strings(out)
	return out
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Models != nil {
		clone.Models = append([]ModelConfig(nil), c.Models...)
	}
	return &clone
}

// String renders the config as TOML with the API key redacted.
func (c *Config) String() string {
	safe := c.Clone()
	if safe.Cloud.APIKey != "" {
		safe.Cloud.APIKey = "[REDACTED]"
	}
	var b strings.Builder
	_ = toml.NewEncoder(&b).Encode(safe)
	return b.String()
}

// =============================================================================
// SINGLETON PATTERN (THREAD-SAFE)
// =============================================================================

var (
	globalConfig     *Config
	globalConfigOnce sync.Once
	globalConfigMu   sync.RWMutex
)

// Global returns the process-wide configuration, loading it on first use.
// Load errors fall back to defaults with a warning on stderr.
func Global() *Config {
	globalConfigOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
			cfg = Default()
			cfg.ApplyEnvOverrides()
		}
		globalConfigMu.Lock()
		if globalConfig == nil {
			globalConfig = cfg
		}
		globalConfigMu.Unlock()
	})

	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return globalConfig
}

// SetGlobal replaces the global configuration. Thread-safe.
func SetGlobal(cfg *Config) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting resets the global config state for testing.
func ResetGlobalForTesting() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
	globalConfigOnce = sync.Once{}
}
