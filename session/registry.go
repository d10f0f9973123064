// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/sykolabs/syko-core/model"
	"github.com/sykolabs/syko-core/storage"
)

// =============================================================================
// ERRORS
// =============================================================================

// RegistryError represents a registry-related error.
type RegistryError struct {
	Message string
}

// Error implements the error interface.
func (e *RegistryError) Error() string {
	return e.Message
}

// Is implements errors.Is support for registry errors.
func (e *RegistryError) Is(target error) bool {
	t, ok := target.(*RegistryError)
	if !ok {
		return false
	}
	return e.Message == t.Message
}

// ErrSessionNotFound is returned when a session id is not in the registry.
var ErrSessionNotFound = &RegistryError{Message: "session not found"}

// =============================================================================
// REGISTRY
// =============================================================================

// Registry holds all saved sessions, most-recently-active-first, and writes
// the full list to the store on every mutation.
type Registry struct {
	mu       sync.Mutex
	sessions []*model.Session
	store    storage.Store
	logger   *slog.Logger

	// MaxSessions caps the registry; zero means unlimited. When exceeded the
	// least recently active sessions (the tail) are evicted.
	maxSessions int
}

// NewRegistry loads the saved session list from the store. A missing record
// means a fresh registry; a corrupt record is an error, never silently
// discarded history.
func NewRegistry(store storage.Store, logger *slog.Logger) (*Registry, error) {
	if logger == nil {
		logger = slog.Default()
	}

	r := &Registry{
		store:  store,
		logger: logger,
	}

	raw, ok, err := store.Get(storage.KeySessions)
	if err != nil {
		return nil, err
	}
	if ok && raw != "" {
		sessions, err := decodeSessions([]byte(raw))
		if err != nil {
			return nil, &RegistryError{Message: "saved sessions are corrupt: " + err.Error()}
		}
		r.sessions = sessions
	}

	return r, nil
}

// SetMaxSessions caps the number of saved sessions; zero disables the cap.
func (r *Registry) SetMaxSessions(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.maxSessions = n
}

// =============================================================================
// MUTATIONS
// =============================================================================

// Ensure reconciles the active transcript into the registry.
//
// With an empty boundID it creates a new session at the registry head from
// the committed messages and returns its id — the caller binds the
// transcript to it. With a bound id it replaces that record's messages in
// place, leaving the title untouched unless it still holds the placeholder
// default, and surfaces the record at the head.
//
// Calling Ensure again with the id it just returned updates the same record;
// it never creates a second session for one transcript. The returned id is
// valid even when the store write fails: the record is live in memory and
// the caller must bind to it, or the next sync would duplicate it.
func (r *Registry) Ensure(boundID string, messages []model.Message) (string, error) {
	if len(messages) == 0 {
		return boundID, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if boundID == "" {
		sess := model.NewSession(messages)
		r.sessions = append([]*model.Session{sess}, r.sessions...)
		r.evictLocked()
		return sess.ID, r.persistLocked()
	}

	idx := r.indexLocked(boundID)
	if idx < 0 {
		// The bound record vanished underneath us (e.g. evicted). Re-create
		// it under the same id rather than dropping the user's messages.
		sess := &model.Session{
			ID:        boundID,
			Title:     model.DeriveTitle(messages),
			Messages:  messages,
			CreatedAt: messages[0].Timestamp,
		}
		r.sessions = append([]*model.Session{sess}, r.sessions...)
		r.evictLocked()
		return boundID, r.persistLocked()
	}

	sess := r.sessions[idx]
	sess.Messages = messages
	if sess.Title == model.PlaceholderTitle {
		sess.Title = model.DeriveTitle(messages)
	}

	// Most-recently-active-first: surface the updated record at the head.
	r.sessions = append(r.sessions[:idx], r.sessions[idx+1:]...)
	r.sessions = append([]*model.Session{sess}, r.sessions...)

	return boundID, r.persistLocked()
}

// Delete removes the session with the given id. Callers that deleted the
// currently bound session must detach their transcript afterwards; the
// registry cannot reach into the transcript to do it for them.
func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexLocked(id)
	if idx < 0 {
		return ErrSessionNotFound
	}

	r.sessions = append(r.sessions[:idx], r.sessions[idx+1:]...)
	return r.persistLocked()
}

// =============================================================================
// READS
// =============================================================================

// List returns all sessions in registry order (most recent first). The
// returned sessions are deep copies; mutating them does not touch the
// registry.
func (r *Registry) List() []*model.Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*model.Session, len(r.sessions))
	for i, s := range r.sessions {
		out[i] = s.Clone()
	}
	return out
}

// Get returns a deep copy of the session with the given id.
func (r *Registry) Get(id string) (*model.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexLocked(id)
	if idx < 0 {
		return nil, ErrSessionNotFound
	}
	return r.sessions[idx].Clone(), nil
}

// Len returns the number of saved sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// =============================================================================
// HELPERS
// =============================================================================

// indexLocked returns the position of id, or -1. Caller must hold the mutex.
func (r *Registry) indexLocked(id string) int {
	for i, s := range r.sessions {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// evictLocked drops least recently active sessions beyond the cap. Caller
// must hold the mutex.
func (r *Registry) evictLocked() {
	if r.maxSessions <= 0 || len(r.sessions) <= r.maxSessions {
		return
	}
	evicted := len(r.sessions) - r.maxSessions
	r.sessions = r.sessions[:r.maxSessions]
	r.logger.Warn("session cap reached, evicted oldest sessions", "evicted", evicted, "cap", r.maxSessions)
}

// persistLocked serializes the entire registry into the store. Caller must
// hold the mutex.
func (r *Registry) persistLocked() error {
	data, err := encodeSessions(r.sessions)
	if err != nil {
		return &RegistryError{Message: "failed to serialize sessions: " + err.Error()}
	}
	return r.store.Set(storage.KeySessions, string(data))
}

// encodeSessions is split out so tests can verify the wire shape.
func encodeSessions(sessions []*model.Session) ([]byte, error) {
	stored := make([]storedSession, len(sessions))
	for i, s := range sessions {
		stored[i] = toStored(s)
	}
	return json.Marshal(stored)
}

// decodeSessions parses the wire shape back into model sessions.
func decodeSessions(data []byte) ([]*model.Session, error) {
	var stored []storedSession
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, err
	}
	sessions := make([]*model.Session, len(stored))
	for i := range stored {
		sessions[i] = fromStored(&stored[i])
	}
	return sessions, nil
}
