// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package stream

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/sykolabs/syko-core/model"
)

// =============================================================================
// PHASES
// =============================================================================

// Phase is the lifecycle state of the coordinator.
type Phase int

const (
	// Idle means no request is in flight and none has run since the last reset.
	Idle Phase = iota
	// Sending means a request has been issued but no content has arrived yet.
	Sending
	// Streaming means at least one chunk has arrived.
	Streaming
	// Completed means the last request finished successfully.
	Completed
	// Failed means the last request ended in an error.
	Failed
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Sending:
		return "sending"
	case Streaming:
		return "streaming"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// InFlight reports whether the phase represents an active request.
func (p Phase) InFlight() bool {
	return p == Sending || p == Streaming
}

// =============================================================================
// GENERATOR CONTRACT
// =============================================================================

// Turn is one committed conversation turn sent as request context.
type Turn struct {
	Role    model.Role
	Content string
}

// Request describes one generation call: the model to use, the prior
// committed turns oldest-first, and the live user prompt. The prompt is NOT
// part of Turns; the generator appends it as the final user turn.
type Request struct {
	Model  string
	System string
	Turns  []Turn
	Prompt string
}

// Generator produces a streamed reply for a request, invoking onChunk for
// each content fragment in arrival order. It returns nil on a clean finish,
// the context error on cancellation, or the transport error otherwise.
// A reply with zero chunks and a nil return is a valid (empty) completion.
type Generator interface {
	Generate(ctx context.Context, req Request, onChunk func(string)) error
}

// Events receives the outcome of a generation. All callbacks fire on the
// generation goroutine; none fire after the generation has been cancelled.
type Events struct {
	Chunk    func(text string)
	Finished func()
	Failed   func(err error)
}

// =============================================================================
// COORDINATOR
// =============================================================================

// ErrBusy is returned by Start while a request is already in flight.
var ErrBusy = errors.New("stream: request already in flight")

// Coordinator serializes generation requests against a Generator.
//
// CONCURRENCY: every live generation carries a sequence number; Cancel bumps
// the number, so chunks still buffered inside a cancelled generation compare
// stale and are dropped before they reach the Events sink.
type Coordinator struct {
	mu     sync.Mutex
	phase  Phase
	seq    uint64
	cancel context.CancelFunc

	client Generator
	logger *slog.Logger
}

// NewCoordinator creates a coordinator around the given generator.
// A nil logger discards log output.
func NewCoordinator(client Generator, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{
		client: client,
		logger: logger,
	}
}

// Phase returns the current lifecycle phase.
func (c *Coordinator) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// InFlight reports whether a request is currently sending or streaming.
func (c *Coordinator) InFlight() bool {
	return c.Phase().InFlight()
}

// Start issues a generation request. It returns ErrBusy if one is already in
// flight; otherwise the request runs on its own goroutine and the outcome is
// delivered through ev. The parent context bounds the request in addition to
// Cancel.
func (c *Coordinator) Start(ctx context.Context, req Request, ev Events) error {
	c.mu.Lock()
	if c.phase.InFlight() {
		c.mu.Unlock()
		return ErrBusy
	}

	ctx, cancel := context.WithCancel(ctx)
	c.seq++
	seq := c.seq
	c.cancel = cancel
	c.phase = Sending
	c.mu.Unlock()

	c.logger.Debug("generation started", "model", req.Model, "turns", len(req.Turns))

	go c.run(ctx, seq, req, ev)
	return nil
}

// Cancel aborts the in-flight request, if any, and resets the phase to Idle.
// Events from the aborted generation are suppressed.
func (c *Coordinator) Cancel() {
	c.mu.Lock()
	cancel := c.cancel
	c.cancel = nil
	if c.phase.InFlight() {
		c.phase = Idle
	}
	c.seq++ // orphan the running generation
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// Reset returns a terminal phase (Completed or Failed) to Idle. No-op while
// a request is in flight.
func (c *Coordinator) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.phase.InFlight() {
		c.phase = Idle
	}
}

// =============================================================================
// GENERATION GOROUTINE
// =============================================================================

func (c *Coordinator) run(ctx context.Context, seq uint64, req Request, ev Events) {
	err := c.client.Generate(ctx, req, func(chunk string) {
		if chunk == "" {
			return
		}
		c.mu.Lock()
		if c.seq != seq {
			c.mu.Unlock()
			return
		}
		c.phase = Streaming
		c.mu.Unlock()

		if ev.Chunk != nil {
			ev.Chunk(chunk)
		}
	})

	c.mu.Lock()
	if c.seq != seq {
		// Cancelled while running; the outcome belongs to nobody.
		c.mu.Unlock()
		return
	}
	c.cancel = nil
	if err != nil {
		c.phase = Failed
	} else {
		c.phase = Completed
	}
	c.mu.Unlock()

	if err != nil {
		c.logger.Warn("generation failed", "model", req.Model, "error", err)
		if ev.Failed != nil {
			ev.Failed(err)
		}
		return
	}

	c.logger.Debug("generation completed", "model", req.Model)
	if ev.Finished != nil {
		ev.Finished()
	}
}
