// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/sykolabs/syko-core/model"
	"github.com/sykolabs/syko-core/session"
	"github.com/sykolabs/syko-core/storage"
	"github.com/sykolabs/syko-core/stream"
)

// =============================================================================
// CONSTANTS AND ERRORS
// =============================================================================

// GenerationFailedText is the fixed user-facing text appended as an error
// message when a generation request fails for any reason.
const GenerationFailedText = "Connection to SykoLLM Alpha failed. Please check your network or try again."

// ErrStreamingInProgress is returned by LoadSession while a reply streams.
var ErrStreamingInProgress = errors.New("chat: cannot switch sessions while a reply is streaming")

// =============================================================================
// CONTROLLER
// =============================================================================

// Controller owns the active transcript and mediates between the
// presentation layer, the session registry, the persistence store, and the
// streaming coordinator.
//
// CONCURRENCY: the controller serializes all mutations behind one mutex;
// coordinator callbacks arrive on the generation goroutine and take the same
// lock, so chunk application is atomic with respect to user intents.
type Controller struct {
	mu         sync.Mutex
	transcript []*model.Message
	binding    Binding
	streaming  *model.Message // handle to the in-progress reply, nil otherwise
	theme      string
	modelID    string
	system     string
	warning    string
	listener   Listener
	gate       *repaintGate

	registry *session.Registry
	store    storage.Store
	coord    *stream.Coordinator
	logger   *slog.Logger
}

// Options tunes optional controller behavior.
type Options struct {
	// SystemInstruction overrides the generator's default persona prompt.
	SystemInstruction string
}

// NewController assembles a controller. The theme preference is restored
// from the store; a missing or unrecognized record defaults to dark.
func NewController(reg *session.Registry, store storage.Store, gen stream.Generator, logger *slog.Logger, opts Options) (*Controller, error) {
	if logger == nil {
		logger = slog.Default()
	}

	theme := ThemeDark
	if v, ok, err := store.Get(storage.KeyTheme); err != nil {
		return nil, err
	} else if ok && (v == ThemeDark || v == ThemeLight) {
		theme = v
	}

	return &Controller{
		binding:  Unbound(),
		theme:    theme,
		modelID:  model.DefaultModelID,
		system:   opts.SystemInstruction,
		gate:     newRepaintGate(0, 0),
		registry: reg,
		store:    store,
		coord:    stream.NewCoordinator(gen, logger),
		logger:   logger,
	}, nil
}

// SetListener registers the snapshot consumer and immediately pushes the
// current state so the consumer starts from truth.
func (c *Controller) SetListener(fn Listener) {
	c.mu.Lock()
	c.listener = fn
	snap := c.snapshotLocked()
	c.mu.Unlock()

	if fn != nil {
		fn(snap)
	}
}

// State returns the current snapshot without registering a listener.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// =============================================================================
// INTENTS
// =============================================================================

// Submit appends a user message and starts a generation request. Blank
// input, or input arriving while a reply is streaming, is silently ignored.
// The user message is committed to the registry before the network call so
// it survives a generation failure.
func (c *Controller) Submit(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	c.mu.Lock()
	if c.coord.InFlight() || c.streaming != nil {
		c.mu.Unlock()
		return nil
	}

	c.transcript = append(c.transcript, model.NewUserMessage(text))
	c.syncLocked()

	// Placeholder reply the chunks will land in.
	reply := model.NewModelMessage()
	c.streaming = reply
	c.transcript = append(c.transcript, reply)

	req := stream.Request{
		Model:  c.modelID,
		System: c.system,
		Turns:  c.priorTurnsLocked(),
		Prompt: text,
	}

	// Started under the lock so the in-flight check and the start are
	// atomic; a concurrent submit can never slip between them. Callbacks
	// arrive on the generation goroutine and block on the lock until the
	// snapshot below is taken.
	err := c.coord.Start(ctx, req, stream.Events{
		Chunk:    c.applyChunk,
		Finished: c.completeStreaming,
		Failed:   c.failStreaming,
	})
	if err != nil {
		// Roll back the placeholder; a dangling handle would block every
		// later submission.
		c.streaming = nil
		c.transcript = c.transcript[:len(c.transcript)-1]
	}

	snap := c.snapshotLocked()
	listener := c.listener
	c.mu.Unlock()

	c.push(listener, snap)
	if errors.Is(err, stream.ErrBusy) {
		// Lost a race with another submit; the earlier one wins.
		return nil
	}
	return err
}

// NewSession clears the active transcript and detaches it. An in-flight
// generation is cancelled; its remaining output is discarded.
func (c *Controller) NewSession() {
	c.coord.Cancel()

	c.mu.Lock()
	c.transcript = nil
	c.streaming = nil
	c.binding = Unbound()
	snap := c.snapshotLocked()
	listener := c.listener
	c.mu.Unlock()

	c.push(listener, snap)
}

// LoadSession replaces the active transcript with a stored session's
// messages and binds to it. Refused while a reply is streaming.
func (c *Controller) LoadSession(id string) error {
	c.mu.Lock()
	// The coordinator can reach a terminal phase a moment before the
	// completion callback runs; the handle check covers that window so a
	// load never discards a finished reply.
	if c.coord.InFlight() || c.streaming != nil {
		c.mu.Unlock()
		return ErrStreamingInProgress
	}

	sess, err := c.registry.Get(id)
	if err != nil {
		c.mu.Unlock()
		return err
	}

	c.transcript = make([]*model.Message, 0, len(sess.Messages))
	for i := range sess.Messages {
		m := sess.Messages[i]
		c.transcript = append(c.transcript, &m)
	}
	c.streaming = nil
	c.binding = BoundTo(id)
	snap := c.snapshotLocked()
	listener := c.listener
	c.mu.Unlock()

	c.push(listener, snap)
	return nil
}

// DeleteSession removes a session from the registry. Deleting the bound
// session resets to a fresh unbound transcript; the reset must follow the
// removal so no snapshot ever shows a binding to a missing id.
func (c *Controller) DeleteSession(id string) error {
	if err := c.registry.Delete(id); err != nil {
		return err
	}

	c.mu.Lock()
	bound, ok := c.binding.SessionID()
	c.mu.Unlock()

	if ok && bound == id {
		c.NewSession()
		return nil
	}

	c.mu.Lock()
	snap := c.snapshotLocked()
	listener := c.listener
	c.mu.Unlock()
	c.push(listener, snap)
	return nil
}

// ToggleTheme flips the theme preference and persists it. A store failure
// keeps the in-memory flip and surfaces a warning.
func (c *Controller) ToggleTheme() {
	c.mu.Lock()
	if c.theme == ThemeDark {
		c.theme = ThemeLight
	} else {
		c.theme = ThemeDark
	}
	if err := c.store.Set(storage.KeyTheme, c.theme); err != nil {
		c.warning = "theme preference could not be saved"
		c.logger.Warn("theme persistence failed", "error", err)
	} else {
		c.warning = ""
	}
	snap := c.snapshotLocked()
	listener := c.listener
	c.mu.Unlock()

	c.push(listener, snap)
}

// SelectModel switches the model used for subsequent submissions. Unknown
// ids are ignored.
func (c *Controller) SelectModel(id string) {
	if !model.KnownModel(id) {
		return
	}

	c.mu.Lock()
	c.modelID = id
	snap := c.snapshotLocked()
	listener := c.listener
	c.mu.Unlock()

	c.push(listener, snap)
}

// =============================================================================
// COORDINATOR CALLBACKS
// =============================================================================

// applyChunk appends one streamed fragment to the current reply. Chunks are
// applied in delivery order; snapshot pushes are rate limited but content is
// never reordered or dropped.
func (c *Controller) applyChunk(text string) {
	c.mu.Lock()
	if c.streaming == nil {
		c.mu.Unlock()
		return
	}
	c.streaming.AppendChunk(text)

	if !c.gate.admit(len(text)) {
		c.mu.Unlock()
		return
	}
	snap := c.snapshotLocked()
	listener := c.listener
	c.mu.Unlock()

	c.push(listener, snap)
}

// completeStreaming freezes the reply, commits the transcript, and returns
// the coordinator to idle.
func (c *Controller) completeStreaming() {
	c.mu.Lock()
	if c.streaming != nil {
		c.streaming.Finalize()
		c.streaming = nil
		c.syncLocked()
	}
	c.gate.flush()
	c.coord.Reset()
	snap := c.snapshotLocked()
	listener := c.listener
	c.mu.Unlock()

	c.push(listener, snap)
}

// failStreaming freezes whatever partial content arrived, appends the fixed
// error message as a separate entry, and commits both.
func (c *Controller) failStreaming(err error) {
	c.mu.Lock()
	if c.streaming != nil {
		c.streaming.Finalize()
		c.streaming = nil
		c.transcript = append(c.transcript, model.NewErrorMessage(GenerationFailedText))
		c.syncLocked()
	}
	c.gate.flush()
	c.coord.Reset()
	snap := c.snapshotLocked()
	listener := c.listener
	c.mu.Unlock()

	c.logger.Warn("generation failed", "error", err)
	c.push(listener, snap)
}

// =============================================================================
// INTERNALS
// =============================================================================

// syncLocked commits the transcript into the registry. The first commit of
// an unbound transcript creates its session and binds to it. Persistence
// failures are non-fatal: the in-memory transcript is the user's data and
// must survive a broken store.
func (c *Controller) syncLocked() {
	msgs := make([]model.Message, 0, len(c.transcript))
	for _, m := range c.transcript {
		if m.IsStreaming {
			continue // transient; committed on finalize
		}
		msgs = append(msgs, m.Clone())
	}

	bound, _ := c.binding.SessionID()
	id, err := c.registry.Ensure(bound, msgs)
	// Bind before looking at the error: when the store write fails the
	// record is still live in the registry, and leaving the transcript
	// unbound would create a duplicate session on the next sync.
	if id != "" {
		c.binding = BoundTo(id)
	}
	if err != nil {
		c.warning = "chat history could not be saved"
		c.logger.Warn("registry sync failed", "binding", c.binding, "error", err)
		return
	}
	c.warning = ""
}

// priorTurnsLocked maps the transcript into generation context: everything
// before the live prompt and its placeholder, minus synthetic error entries.
func (c *Controller) priorTurnsLocked() []stream.Turn {
	if len(c.transcript) < 2 {
		return nil
	}
	prior := c.transcript[:len(c.transcript)-2] // strip prompt + placeholder
	turns := make([]stream.Turn, 0, len(prior))
	for _, m := range prior {
		if m.IsError || m.IsEmpty() {
			continue
		}
		turns = append(turns, stream.Turn{Role: m.Role, Content: m.DisplayContent()})
	}
	return turns
}

func (c *Controller) snapshotLocked() State {
	transcript := make([]model.Message, 0, len(c.transcript))
	for _, m := range c.transcript {
		transcript = append(transcript, snapshotMessage(m))
	}
	return State{
		Transcript: transcript,
		Sessions:   c.registry.List(),
		Binding:    c.binding,
		Streaming:  c.streaming != nil,
		Phase:      c.coord.Phase(),
		Theme:      c.theme,
		ModelID:    c.modelID,
		Warning:    c.warning,
	}
}

// push delivers a snapshot outside the lock so a listener can call back
// into the controller.
func (c *Controller) push(fn Listener, snap State) {
	if fn != nil {
		fn(snap)
	}
}
