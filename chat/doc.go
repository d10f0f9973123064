// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat owns the active transcript and turns user intents into
// transcript mutations, generation requests, and registry syncs.
//
// The controller is the single write path for the conversation state: the
// presentation layer submits intents (submit, new chat, load, delete, toggle
// theme, select model) and consumes immutable State snapshots pushed to a
// listener. A transcript is either bound to a session id or unbound; the
// first committed message of an unbound transcript creates its session.
package chat
