// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/sykolabs/syko-core/util"
)

// =============================================================================
// FILE STORE
// =============================================================================

// FileStore keeps all records in one JSON document on disk. The whole
// document is rewritten on every mutation; there is exactly one writer
// process, so last-writer-wins is the complete consistency story.
type FileStore struct {
	mu      sync.Mutex
	path    string
	records map[string]string
	closed  bool
}

// OpenFileStore opens (or creates) the document at path and loads its
// records into memory.
func OpenFileStore(path string) (*FileStore, error) {
	s := &FileStore{
		path:    path,
		records: make(map[string]string),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, &StoreError{Message: "failed to read store document", Cause: err}
	}

	if len(data) > 0 {
		if err := json.Unmarshal(data, &s.records); err != nil {
			return nil, &StoreError{Message: "store document is corrupt", Cause: err}
		}
	}

	return s, nil
}

// Get returns the value for key.
func (s *FileStore) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return "", false, ErrClosed
	}

	value, ok := s.records[key]
	return value, ok, nil
}

// Set durably writes the value for key by rewriting the whole document.
func (s *FileStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	previous, had := s.records[key]
	s.records[key] = value

	if err := s.flushLocked(); err != nil {
		// Roll back so memory and disk stay in agreement.
		if had {
			s.records[key] = previous
		} else {
			delete(s.records, key)
		}
		return err
	}
	return nil
}

// Delete removes the key and rewrites the document.
func (s *FileStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	previous, had := s.records[key]
	if !had {
		return nil
	}
	delete(s.records, key)

	if err := s.flushLocked(); err != nil {
		s.records[key] = previous
		return err
	}
	return nil
}

// Close marks the store unusable. The document is already durable after
// every Set, so there is nothing to flush.
func (s *FileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Path returns the document location, mainly for diagnostics.
func (s *FileStore) Path() string {
	return s.path
}

// flushLocked serializes all records and writes them atomically. Caller
// must hold the mutex.
func (s *FileStore) flushLocked() error {
	data, err := json.MarshalIndent(s.records, "", "  ")
	if err != nil {
		return &StoreError{Message: "failed to serialize store document", Cause: err}
	}
	if err := util.AtomicWriteFile(s.path, data, 0644); err != nil {
		return &StoreError{Message: "failed to write store document", Cause: err}
	}
	return nil
}
