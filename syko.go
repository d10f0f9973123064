// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package syko assembles the chat client core from its parts: persistence
// store, session registry, generation client, and transcript controller.
// Embedders that need finer control can wire the subpackages directly; Open
// is the one-call path.
package syko

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/sykolabs/syko-core/chat"
	"github.com/sykolabs/syko-core/cloud"
	"github.com/sykolabs/syko-core/config"
	"github.com/sykolabs/syko-core/model"
	"github.com/sykolabs/syko-core/session"
	"github.com/sykolabs/syko-core/storage"
)

// Client is the assembled chat core. Controller is the intent surface the
// presentation layer talks to; Registry and Store are exposed for session
// search, export, and diagnostics.
type Client struct {
	Controller *chat.Controller
	Registry   *session.Registry
	Store      storage.Store
}

// Open builds a client from configuration. A nil config loads the default
// config file and environment.
func Open(cfg *config.Config, logger *slog.Logger) (*Client, error) {
	if cfg == nil {
		loaded, err := config.Load()
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if logger == nil {
		logger = slog.Default()
	}

	model.BackingOverrides(cfg.ModelOverrides)

	store, err := openStore(cfg)
	if err != nil {
		return nil, err
	}

	reg, err := session.NewRegistry(store, logger)
	if err != nil {
		store.Close()
		return nil, err
	}
	reg.SetMaxSessions(cfg.MaxSessions)

	gen := cloud.NewClient(cloud.ClientConfig{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Timeout: time.Duration(cfg.TimeoutSecs) * time.Second,
	}, logger)

	ctrl, err := chat.NewController(reg, store, gen, logger, chat.Options{
		SystemInstruction: cfg.SystemInstruction,
	})
	if err != nil {
		store.Close()
		return nil, err
	}
	if model.KnownModel(cfg.DefaultModel) {
		ctrl.SelectModel(cfg.DefaultModel)
	}

	return &Client{
		Controller: ctrl,
		Registry:   reg,
		Store:      store,
	}, nil
}

// Close releases the persistence store.
func (c *Client) Close() error {
	return c.Store.Close()
}

func openStore(cfg *config.Config) (storage.Store, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.StorePath), 0o755); err != nil {
		return nil, fmt.Errorf("creating store dir: %w", err)
	}

	switch cfg.StoreBackend {
	case config.BackendSQLite:
		return storage.OpenSQLiteStore(cfg.StorePath)
	case config.BackendFile:
		return storage.OpenFileStore(cfg.StorePath)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
