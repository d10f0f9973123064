// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

// =============================================================================
// STORE INTERFACE
// =============================================================================

// Well-known record keys. The names match the web client's localStorage
// keys so history moves between clients unchanged.
const (
	// KeyTheme holds the theme preference: "dark" or "light".
	KeyTheme = "syko-theme"

	// KeySessions holds the serialized session list.
	KeySessions = "syko-sessions"
)

// Store is a durable key/value store. Implementations must persist every
// Set before returning and must round-trip values byte-exactly.
type Store interface {
	// Get returns the value for key. The boolean reports whether the key
	// exists; absence is not an error.
	Get(key string) (string, bool, error)

	// Set durably writes the value for key, replacing any previous value.
	Set(key, value string) error

	// Delete removes the key. Deleting a missing key is a no-op.
	Delete(key string) error

	// Close releases the backing resources. The store must not be used
	// afterwards.
	Close() error
}

// =============================================================================
// ERRORS
// =============================================================================

// StoreError represents a persistence failure. Persistence failures are
// surfaced as non-fatal warnings upstream; the in-memory state is kept.
type StoreError struct {
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *StoreError) Unwrap() error {
	return e.Cause
}

// ErrClosed is returned by operations on a closed store.
var ErrClosed = &StoreError{Message: "store is closed"}

// Is implements errors.Is support for store errors.
func (e *StoreError) Is(target error) bool {
	t, ok := target.(*StoreError)
	if !ok {
		return false
	}
	return e.Message == t.Message
}
