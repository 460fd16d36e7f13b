// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/jeranaias/routerchat/internal/cloud"
	"github.com/jeranaias/routerchat/internal/config"
	"github.com/jeranaias/routerchat/internal/logging"
	"github.com/jeranaias/routerchat/internal/registry"
	"github.com/jeranaias/routerchat/internal/session"
	"github.com/jeranaias/routerchat/internal/ui/styles"
)

// app is what every command needs once flags are parsed.
type app struct {
	// Flags
	configPath string
	model      string
	logLevel   string

	logger  *slog.Logger
	closer  io.Closer
	catalog *registry.Catalog
	client  *cloud.Client
}

// resolveConfigPath returns the --config flag or the default location.
func (a *app) resolveConfigPath() (string, error) {
	if a.configPath != "" {
		return a.configPath, nil
	}
	return config.ConfigPath()
}

// load reads configuration, opens the log and builds the client.
func (a *app) load() error {
	var (
		cfg *config.Config
		err error
	)
	if a.configPath != "" {
		cfg, err = config.LoadFromPath(a.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if a.model != "" {
		cfg.UI.DefaultModel = a.model
	}

	catalog, err := cfg.Catalog()
	if err != nil {
		return err
	}
	if cfg.UI.DefaultModel != "" {
		if _, ok := catalog.Lookup(cfg.UI.DefaultModel); !ok {
			return fmt.Errorf("unknown model: %s (see `routerchat models`)", cfg.UI.DefaultModel)
		}
	}

	logPath := cfg.Log.File
	if logPath == "" {
		if logPath, err = config.DefaultLogPath(); err != nil {
			logPath = os.DevNull
		}
	}
	logger, closer, err := logging.Open(logPath, cfg.Log.Level)
	if err != nil {
		// Run without a log rather than fail.
		fmt.Fprintln(os.Stderr, styles.RenderWarning("logging disabled: "+err.Error()))
		logger, closer = logging.Discard(), io.NopCloser(nil)
	}

	client := cfg.NewClient().WithLogger(logger)
	logger.Info("routerchat starting",
		"config", a.configPath,
		"base_url", cfg.Cloud.BaseURL,
		"stream", client.Streaming(),
		"models", catalog.Len(),
		"key", client.KeyFingerprint(),
	)

	config.SetGlobal(cfg)
	a.logger, a.closer = logger, closer
	a.catalog, a.client = catalog, client
	return nil
}

// close releases the log file.
func (a *app) close() {
	if a.closer != nil {
		a.closer.Close()
	}
}

// newController returns a controller positioned on the configured model.
func (a *app) newController() *session.Controller {
	ctrl := session.NewController(a.catalog, a.client, a.logger)
	if id := config.Global().UI.DefaultModel; id != "" {
		ctrl.Dispatch(session.SelectModel{ID: id})
	}
	return ctrl
}

// reloadCredentials publishes the credential settings of next and hands
// them to the client. Other settings keep their startup values. It
// reports whether a key is now configured.
func (a *app) reloadCredentials(next *config.Config) bool {
	cur := *config.Global()
	cur.Cloud.APIKey = next.Cloud.APIKey
	cur.Cloud.SiteURL = next.Cloud.SiteURL
	cur.Cloud.SiteName = next.Cloud.SiteName
	config.SetGlobal(&cur)

	a.client.SetCredentials(cur.Cloud.APIKey, cur.Cloud.SiteURL, cur.Cloud.SiteName)
	a.logger.Info("credentials reloaded", "key", a.client.KeyFingerprint())
	return a.client.IsConfigured()
}
