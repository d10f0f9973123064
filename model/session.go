// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/sykolabs/syko-core/util"
)

// TitleRunes is how many characters of the first message a derived session
// title keeps; longer firsts get an ellipsis marker appended on top.
const TitleRunes = 30

// PlaceholderTitle is the default title a session carries until a real one
// can be derived. It is the only title value ensureSession may overwrite.
const PlaceholderTitle = "New Chat"

// =============================================================================
// SESSION TYPE
// =============================================================================

// Session is a persisted conversation record. Messages are committed value
// copies of the active transcript; the registry, not the transcript, is the
// source of truth once committed.
type Session struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewSession creates a session around the given committed messages, deriving
// the title from the first one.
func NewSession(messages []Message) *Session {
	return &Session{
		ID:        uuid.NewString(),
		Title:     DeriveTitle(messages),
		Messages:  messages,
		CreatedAt: now(),
	}
}

// DeriveTitle builds a session title from the first message: the first
// TitleRunes characters, with "..." appended only when the content is longer.
// Derivation is deterministic; deriving twice from the same first message
// yields the same string.
func DeriveTitle(messages []Message) string {
	if len(messages) == 0 {
		return PlaceholderTitle
	}
	title := util.Ellipsize(util.CollapseNewlines(messages[0].Content), TitleRunes)
	if title == "" {
		return PlaceholderTitle
	}
	return title
}

// MessageCount returns the number of committed messages.
func (s *Session) MessageCount() int {
	return len(s.Messages)
}

// Preview returns a short single-line preview from the first user message.
func (s *Session) Preview(maxLen int) string {
	for i := range s.Messages {
		if s.Messages[i].Role == RoleUser && s.Messages[i].Content != "" {
			return util.TruncateRunes(util.CollapseNewlines(s.Messages[i].Content), maxLen)
		}
	}
	return ""
}

// Clone returns a deep copy of the session.
func (s *Session) Clone() *Session {
	clone := &Session{
		ID:        s.ID,
		Title:     s.Title,
		CreatedAt: s.CreatedAt,
		Messages:  make([]Message, len(s.Messages)),
	}
	copy(clone.Messages, s.Messages)
	return clone
}
