// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sykolabs/syko-core/util"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// Valid reports whether the role is one the transcript accepts.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleModel
}

// now returns the creation timestamp for new messages and sessions. The
// stored form keeps epoch milliseconds, so sub-millisecond precision would
// not survive a reload; truncating up front keeps round-trips exact.
func now() time.Time {
	return time.Now().Truncate(time.Millisecond)
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message represents a single message in a conversation.
//
// A model message starts life as an empty streaming placeholder; chunks are
// appended via AppendChunk and the content is frozen by Finalize. Ids are
// assigned at creation and never reused.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	IsError   bool      `json:"isError,omitempty"`

	// Streaming state, not persisted.
	// PERFORMANCE: strings.Builder avoids quadratic allocations while chunks
	// arrive.
	IsStreaming   bool            `json:"-"`
	streamContent strings.Builder `json:"-"`
}

// NewUserMessage creates a user message with a fresh id and timestamp.
func NewUserMessage(content string) *Message {
	return &Message{
		ID:        uuid.NewString(),
		Role:      RoleUser,
		Content:   content,
		Timestamp: now(),
	}
}

// NewModelMessage creates an empty streaming placeholder for a model reply.
func NewModelMessage() *Message {
	return &Message{
		ID:          uuid.NewString(),
		Role:        RoleModel,
		Timestamp:   now(),
		IsStreaming: true,
	}
}

// NewErrorMessage creates a finalized model message carrying a user-facing
// failure text.
func NewErrorMessage(content string) *Message {
	return &Message{
		ID:        uuid.NewString(),
		Role:      RoleModel,
		Content:   content,
		Timestamp: now(),
		IsError:   true,
	}
}

// AppendChunk appends a streamed fragment. No-op once the message has been
// finalized; chunk order is append order.
func (m *Message) AppendChunk(chunk string) {
	if m.IsStreaming {
		m.streamContent.WriteString(chunk)
	}
}

// Finalize freezes the streamed content. Content is immutable afterwards.
func (m *Message) Finalize() {
	if !m.IsStreaming {
		return
	}
	m.Content = m.streamContent.String()
	m.streamContent.Reset()
	m.IsStreaming = false
}

// DisplayContent returns the content to render: the partial stream while
// streaming, the frozen content otherwise.
func (m *Message) DisplayContent() string {
	if m.IsStreaming {
		return m.streamContent.String()
	}
	return m.Content
}

// IsEmpty returns true if the message has no content yet.
func (m *Message) IsEmpty() bool {
	return len(m.Content) == 0 && m.streamContent.Len() == 0
}

// Preview returns a truncated single-line preview of the message content.
func (m *Message) Preview(maxLen int) string {
	return util.TruncateRunes(util.CollapseNewlines(m.DisplayContent()), maxLen)
}

// Clone returns a copy of the message with the streamed content flattened
// into Content. Used when committing the active transcript into a session.
func (m *Message) Clone() Message {
	return Message{
		ID:        m.ID,
		Role:      m.Role,
		Content:   m.DisplayContent(),
		Timestamp: m.Timestamp,
		IsError:   m.IsError,
	}
}
