// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"errors"
	"path/filepath"
	"testing"
)

// openers builds each backend against a fresh temp location so the whole
// suite runs once per backend.
var openers = map[string]func(t *testing.T) Store{
	"file": func(t *testing.T) Store {
		s, err := OpenFileStore(filepath.Join(t.TempDir(), "syko.json"))
		if err != nil {
			t.Fatalf("OpenFileStore failed: %v", err)
		}
		return s
	},
	"sqlite": func(t *testing.T) Store {
		s, err := OpenSQLiteStore(filepath.Join(t.TempDir(), "syko.db"))
		if err != nil {
			t.Fatalf("OpenSQLiteStore failed: %v", err)
		}
		return s
	},
}

func TestStore_SetGet(t *testing.T) {
	for name, open := range openers {
		t.Run(name, func(t *testing.T) {
			s := open(t)
			defer s.Close()

			if err := s.Set(KeyTheme, "dark"); err != nil {
				t.Fatalf("Set failed: %v", err)
			}

			value, ok, err := s.Get(KeyTheme)
			if err != nil {
				t.Fatalf("Get failed: %v", err)
			}
			if !ok {
				t.Fatal("expected key to exist")
			}
			if value != "dark" {
				t.Errorf("value = %q, want %q", value, "dark")
			}
		})
	}
}

func TestStore_GetMissing(t *testing.T) {
	for name, open := range openers {
		t.Run(name, func(t *testing.T) {
			s := open(t)
			defer s.Close()

			_, ok, err := s.Get("no-such-key")
			if err != nil {
				t.Fatalf("Get failed: %v", err)
			}
			if ok {
				t.Error("missing key reported as present")
			}
		})
	}
}

func TestStore_Overwrite(t *testing.T) {
	for name, open := range openers {
		t.Run(name, func(t *testing.T) {
			s := open(t)
			defer s.Close()

			if err := s.Set(KeyTheme, "dark"); err != nil {
				t.Fatalf("Set failed: %v", err)
			}
			if err := s.Set(KeyTheme, "light"); err != nil {
				t.Fatalf("overwrite failed: %v", err)
			}

			value, _, _ := s.Get(KeyTheme)
			if value != "light" {
				t.Errorf("value = %q, want last write", value)
			}
		})
	}
}

func TestStore_Delete(t *testing.T) {
	for name, open := range openers {
		t.Run(name, func(t *testing.T) {
			s := open(t)
			defer s.Close()

			s.Set(KeySessions, "[]")
			if err := s.Delete(KeySessions); err != nil {
				t.Fatalf("Delete failed: %v", err)
			}
			if _, ok, _ := s.Get(KeySessions); ok {
				t.Error("deleted key still present")
			}

			// Deleting a missing key is a no-op.
			if err := s.Delete(KeySessions); err != nil {
				t.Errorf("deleting missing key errored: %v", err)
			}
		})
	}
}

func TestFileStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "syko.json")

	s, err := OpenFileStore(path)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	s.Set(KeyTheme, "light")
	s.Set(KeySessions, `[{"id":"s1"}]`)
	s.Close()

	reopened, err := OpenFileStore(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()

	value, ok, _ := reopened.Get(KeySessions)
	if !ok || value != `[{"id":"s1"}]` {
		t.Errorf("sessions after reopen = %q, %v", value, ok)
	}
	theme, _, _ := reopened.Get(KeyTheme)
	if theme != "light" {
		t.Errorf("theme after reopen = %q", theme)
	}
}

func TestSQLiteStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "syko.db")

	s, err := OpenSQLiteStore(path)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	s.Set(KeySessions, `[{"id":"s1"}]`)
	s.Close()

	reopened, err := OpenSQLiteStore(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()

	value, ok, _ := reopened.Get(KeySessions)
	if !ok || value != `[{"id":"s1"}]` {
		t.Errorf("sessions after reopen = %q, %v", value, ok)
	}
}

func TestFileStore_Closed(t *testing.T) {
	s, _ := OpenFileStore(filepath.Join(t.TempDir(), "syko.json"))
	s.Close()

	if err := s.Set(KeyTheme, "dark"); !errors.Is(err, ErrClosed) {
		t.Errorf("Set on closed store: err = %v, want ErrClosed", err)
	}
	if _, _, err := s.Get(KeyTheme); !errors.Is(err, ErrClosed) {
		t.Errorf("Get on closed store: err = %v, want ErrClosed", err)
	}
}

func TestFileStore_CorruptDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "syko.json")
	if err := writeRaw(path, "{not json"); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	if _, err := OpenFileStore(path); err == nil {
		t.Error("expected error for corrupt document")
	}
}
