// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package stream coordinates a single in-flight generation request.
//
// The coordinator owns the request lifecycle: idle, sending (request issued,
// no content yet), streaming (first chunk arrived), and the terminal
// completed/failed phases. At most one request is in flight at a time;
// cancellation detaches the running generation so late chunks from it are
// discarded rather than delivered out of order.
package stream
