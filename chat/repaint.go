// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import "time"

// Repaint gate defaults. Chunks arrive far faster than a display can usefully
// repaint; the gate coalesces snapshot pushes without touching content order.
const (
	defaultRepaintInterval = 50 * time.Millisecond
	defaultRepaintBytes    = 512
)

// repaintGate rate-limits streaming snapshot pushes. A push is admitted when
// enough time has passed since the last one or enough content has piled up.
// Callers must hold the controller lock.
type repaintGate struct {
	interval time.Duration
	maxBytes int

	last    time.Time
	pending int
	now     func() time.Time // test seam
}

func newRepaintGate(interval time.Duration, maxBytes int) *repaintGate {
	if interval <= 0 {
		interval = defaultRepaintInterval
	}
	if maxBytes <= 0 {
		maxBytes = defaultRepaintBytes
	}
	return &repaintGate{
		interval: interval,
		maxBytes: maxBytes,
		now:      time.Now,
	}
}

// admit records n bytes of new content and reports whether a snapshot should
// be pushed now.
func (g *repaintGate) admit(n int) bool {
	g.pending += n
	now := g.now()
	if g.pending >= g.maxBytes || now.Sub(g.last) >= g.interval {
		g.last = now
		g.pending = 0
		return true
	}
	return false
}

// flush resets the gate so the next admit passes immediately. Called when a
// stream ends; the terminal snapshot is always pushed.
func (g *repaintGate) flush() {
	g.pending = 0
	g.last = time.Time{}
}
