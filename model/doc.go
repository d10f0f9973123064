// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for messages, sessions, and the
// SykoLLM model catalog.
//
// # Key Types
//
//   - Message: a single conversation turn; content grows while streaming and
//     is frozen on finalize
//   - Session: a persisted conversation record with derived title
//   - ModelInfo: display metadata for the product's model selector
//
// The product's model identifiers (syko-v1-alpha, syko-v1-pro) are cosmetic
// branding over a third-party generation backend; BackingModel maps them to
// the backend's real model names with a default fallback.
package model
