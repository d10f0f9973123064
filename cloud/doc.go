// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cloud talks to the SykoLLM inference gateway.
//
// The gateway speaks the OpenAI chat-completions wire format, so the client
// is built on the go-openai SDK with a custom base URL. Product model ids
// (syko-v1-alpha, syko-v1-pro) are resolved to gateway model names before a
// request leaves the process.
package cloud
