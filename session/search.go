// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"strings"
	"time"

	"github.com/sykolabs/syko-core/model"
)

// =============================================================================
// SESSION SEARCH
// =============================================================================

// Search returns sessions whose title or any message content contains the
// query, case-insensitively, in registry order. An empty query returns the
// full list.
func (r *Registry) Search(query string) []*model.Session {
	if query == "" {
		return r.List()
	}
	query = strings.ToLower(query)

	r.mu.Lock()
	defer r.mu.Unlock()

	var results []*model.Session
	for _, s := range r.sessions {
		if sessionMatches(s, query) {
			results = append(results, s.Clone())
		}
	}
	return results
}

func sessionMatches(s *model.Session, loweredQuery string) bool {
	if strings.Contains(strings.ToLower(s.Title), loweredQuery) {
		return true
	}
	for i := range s.Messages {
		if strings.Contains(strings.ToLower(s.Messages[i].Content), loweredQuery) {
			return true
		}
	}
	return false
}

// =============================================================================
// SESSION EXPORT
// =============================================================================

// ExportMarkdown renders the session with the given id as a Markdown
// transcript with role labels and timestamps.
func (r *Registry) ExportMarkdown(id string) (string, error) {
	sess, err := r.Get(id)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("# " + sess.Title + "\n\n")
	sb.WriteString("Created: " + sess.CreatedAt.Format(time.RFC3339) + "\n\n")
	sb.WriteString("---\n\n")

	for i := range sess.Messages {
		m := &sess.Messages[i]
		label := "**You**"
		if m.Role == model.RoleModel {
			label = "**SykoLLM**"
		}
		if m.IsError {
			label += " (error)"
		}
		sb.WriteString(label + " (" + m.Timestamp.Format("15:04") + "):\n\n")
		sb.WriteString(m.Content)
		sb.WriteString("\n\n---\n\n")
	}

	return sb.String(), nil
}
