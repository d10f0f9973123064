// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session provides the session registry: the single source of truth
// for saved conversations.
//
// The registry is an ordered in-memory list, most-recently-active-first,
// loaded from the persistence store at startup. Every mutation serializes
// the entire registry back to the store in one write — full-snapshot
// persistence trades write volume for simplicity and rules out partial-write
// corruption between sessions.
//
// All synchronization with the active transcript happens through this API;
// the transcript is a working copy that is reconciled into the registry,
// never the reverse, except on session load.
package session
