// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides the durable key/value store backing syko-core.
//
// The store holds two logical records: the theme preference and the
// serialized session list (keys KeyTheme and KeySessions, matching the web
// client's localStorage keys). Values are opaque
// strings; the session registry puts serialized JSON in them.
//
// # Backends
//
//   - FileStore: a single JSON document on disk. Every write rewrites the
//     whole document atomically (temp file + fsync + rename), so a reader
//     never observes a partial write and the last writer wins.
//   - SQLiteStore: a kv table in a SQLite database, for installations that
//     prefer a database file over a JSON document.
//
// Both backends survive process restarts and round-trip values byte-exactly.
package storage
