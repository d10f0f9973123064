// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"testing"
	"time"
)

func TestRepaintGateAdmitsFirstChunk(t *testing.T) {
	g := newRepaintGate(50*time.Millisecond, 512)
	if !g.admit(3) {
		t.Fatal("first chunk must always repaint")
	}
}

func TestRepaintGateThrottlesByTime(t *testing.T) {
	g := newRepaintGate(time.Hour, 1<<20)
	base := time.Unix(1000, 0)
	g.now = func() time.Time { return base }

	if !g.admit(10) {
		t.Fatal("first admit must pass")
	}
	if g.admit(10) {
		t.Error("second admit within the interval must be suppressed")
	}

	base = base.Add(2 * time.Hour)
	if !g.admit(10) {
		t.Error("admit after the interval must pass")
	}
}

func TestRepaintGateAdmitsOnBytes(t *testing.T) {
	g := newRepaintGate(time.Hour, 100)
	base := time.Unix(1000, 0)
	g.now = func() time.Time { return base }

	g.admit(10) // first passes, resets pending
	if g.admit(40) {
		t.Error("40 pending bytes must not repaint yet")
	}
	if !g.admit(60) {
		t.Error("crossing the byte threshold must repaint")
	}
	if g.admit(1) {
		t.Error("pending must reset after a repaint")
	}
}

func TestRepaintGateFlush(t *testing.T) {
	g := newRepaintGate(time.Hour, 1<<20)
	base := time.Unix(1000, 0)
	g.now = func() time.Time { return base }

	g.admit(10)
	if g.admit(10) {
		t.Fatal("expected suppression before flush")
	}
	g.flush()
	if !g.admit(1) {
		t.Error("flush must let the next admit through")
	}
}

func TestBinding(t *testing.T) {
	u := Unbound()
	if u.Bound() {
		t.Error("Unbound() reports bound")
	}
	if _, ok := u.SessionID(); ok {
		t.Error("Unbound() yields a session id")
	}
	if u.String() != "unbound" {
		t.Errorf("String() = %q", u.String())
	}

	b := BoundTo("abc")
	if !b.Bound() {
		t.Error("BoundTo() reports unbound")
	}
	if id, ok := b.SessionID(); !ok || id != "abc" {
		t.Errorf("SessionID() = %q, %v", id, ok)
	}

	var zero Binding
	if zero.Bound() {
		t.Error("zero Binding must be unbound")
	}
}
