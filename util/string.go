// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import "strings"

// UNICODE: rune-aware truncation preserves multi-byte characters and never
// splits a UTF-8 sequence mid-character.

// TruncateRunes truncates s to at most maxRunes characters, appending "..."
// when truncation happened. The result is at most maxRunes runes long.
func TruncateRunes(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	if maxRunes <= 3 {
		return string(runes[:maxRunes])
	}
	return string(runes[:maxRunes-3]) + "..."
}

// Ellipsize returns the first maxRunes characters of s, appending "..." when
// s is longer. Unlike TruncateRunes the ellipsis does not count against the
// limit, so a too-long input yields maxRunes+3 runes. This is the session
// title rule: 30 kept characters, marker on top.
func Ellipsize(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	return string(runes[:maxRunes]) + "..."
}

// CollapseNewlines replaces line breaks with spaces so derived titles and
// previews stay single-line.
func CollapseNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r", "")
	return strings.ReplaceAll(s, "\n", " ")
}
