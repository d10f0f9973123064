// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"time"

	"github.com/sykolabs/syko-core/model"
)

// =============================================================================
// STORED TYPES
// =============================================================================

// The stored shape matches the web client's localStorage payload: camelCase
// keys and epoch-millisecond timestamps. Keeping it means history written by
// either client round-trips through the other.

// storedSession is the persisted form of a session.
type storedSession struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Messages  []storedMessage `json:"messages"`
	CreatedAt int64           `json:"createdAt"`
}

// storedMessage is the persisted form of a message.
type storedMessage struct {
	ID        string `json:"id"`
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp"`
	IsError   bool   `json:"isError,omitempty"`
}

// toStored converts a session to its persisted form.
func toStored(s *model.Session) storedSession {
	messages := make([]storedMessage, len(s.Messages))
	for i := range s.Messages {
		m := &s.Messages[i]
		messages[i] = storedMessage{
			ID:        m.ID,
			Role:      string(m.Role),
			Content:   m.Content,
			Timestamp: m.Timestamp.UnixMilli(),
			IsError:   m.IsError,
		}
	}
	return storedSession{
		ID:        s.ID,
		Title:     s.Title,
		Messages:  messages,
		CreatedAt: s.CreatedAt.UnixMilli(),
	}
}

// fromStored converts a persisted session back to the model form.
func fromStored(s *storedSession) *model.Session {
	messages := make([]model.Message, len(s.Messages))
	for i := range s.Messages {
		m := &s.Messages[i]
		messages[i] = model.Message{
			ID:        m.ID,
			Role:      model.Role(m.Role),
			Content:   m.Content,
			Timestamp: time.UnixMilli(m.Timestamp),
			IsError:   m.IsError,
		}
	}
	return &model.Session{
		ID:        s.ID,
		Title:     s.Title,
		Messages:  messages,
		CreatedAt: time.UnixMilli(s.CreatedAt),
	}
}
