// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/sykolabs/syko-core/model"
	"github.com/sykolabs/syko-core/stream"
)

// Theme values persisted under the theme record.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// State is an immutable snapshot of everything the presentation layer
// renders. Transcript messages are copies; mutating them has no effect on
// the controller.
type State struct {
	Transcript []model.Message
	Sessions   []*model.Session
	Binding    Binding
	Streaming  bool
	Phase      stream.Phase
	Theme      string
	ModelID    string

	// Warning carries the most recent non-fatal persistence failure, empty
	// when the last sync succeeded.
	Warning string
}

// Listener receives state snapshots. Snapshots arrive on the goroutine that
// performed the mutation; streaming snapshots are rate limited but content
// within a snapshot is always complete up to the latest applied chunk.
type Listener func(State)

// snapshotMessage copies a live message for a State, keeping the streaming
// flag visible and flattening partial content.
func snapshotMessage(m *model.Message) model.Message {
	out := m.Clone()
	out.IsStreaming = m.IsStreaming
	return out
}
