// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

// Binding states whether the active transcript belongs to a persisted
// session. The zero value is Unbound. Using a dedicated type instead of a
// nullable id forces call sites to handle both cases explicitly.
type Binding struct {
	id string
}

// Unbound returns the detached binding: a fresh conversation that has not
// produced a session yet.
func Unbound() Binding {
	return Binding{}
}

// BoundTo returns a binding to the given session id.
func BoundTo(id string) Binding {
	return Binding{id: id}
}

// Bound reports whether the transcript belongs to a session.
func (b Binding) Bound() bool {
	return b.id != ""
}

// SessionID returns the bound session id; ok is false when unbound.
func (b Binding) SessionID() (string, bool) {
	return b.id, b.id != ""
}

// String returns a short description for logging.
func (b Binding) String() string {
	if b.id == "" {
		return "unbound"
	}
	return "bound:" + b.id
}
