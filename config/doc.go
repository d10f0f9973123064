// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config loads syko-core configuration.
//
// Precedence, lowest to highest: built-in defaults, the TOML config file
// (~/.syko/config.toml by default), then SYKO_* environment variables. The
// API key is the only required secret and is normally injected through the
// environment rather than written to disk.
//
// A Watcher can reload the file on change so a long-lived client picks up
// edits without a restart.
package config
