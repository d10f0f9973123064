// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cloud

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/sykolabs/syko-core/model"
	"github.com/sykolabs/syko-core/stream"
)

// =============================================================================
// CONSTANTS
// =============================================================================

// DefaultBaseURL is the production inference gateway endpoint.
const DefaultBaseURL = "https://api.sykolabs.ai/v1"

// DefaultTimeout bounds a single generation request end to end.
const DefaultTimeout = 120 * time.Second

// SystemInstruction is the persona prompt prepended to every request that
// does not carry its own system text.
const SystemInstruction = "You are SykoLLM, a helpful AI assistant built by SykoLabs. " +
	"Answer clearly and concisely. Use Markdown formatting where it helps readability."

// ErrNotConfigured is returned when no API key is available.
var ErrNotConfigured = errors.New("cloud: API key not configured")

// =============================================================================
// CLIENT
// =============================================================================

// ClientConfig holds the settings for a gateway client.
type ClientConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// DefaultConfig returns a config pointed at the production gateway.
func DefaultConfig(apiKey string) ClientConfig {
	return ClientConfig{
		APIKey:  apiKey,
		BaseURL: DefaultBaseURL,
		Timeout: DefaultTimeout,
	}
}

// Client streams chat completions from the inference gateway. It implements
// stream.Generator.
type Client struct {
	api     *openai.Client
	apiKey  string
	timeout time.Duration
	logger  *slog.Logger
}

// NewClient creates a gateway client from a config. The client is usable
// with an empty API key; requests will fail with ErrNotConfigured until a
// key is provided.
func NewClient(cfg ClientConfig, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	apiCfg := openai.DefaultConfig(cfg.APIKey)
	apiCfg.BaseURL = cfg.BaseURL

	return &Client{
		api:     openai.NewClientWithConfig(apiCfg),
		apiKey:  cfg.APIKey,
		timeout: cfg.Timeout,
		logger:  logger,
	}
}

// IsConfigured reports whether an API key is present.
func (c *Client) IsConfigured() bool {
	return c.apiKey != ""
}

// =============================================================================
// GENERATION
// =============================================================================

// Generate streams a reply for the request, invoking onChunk for each
// content delta in arrival order. The prior turns are sent as conversation
// context and the prompt as the final user turn.
func (c *Client) Generate(ctx context.Context, req stream.Request, onChunk func(string)) error {
	if !c.IsConfigured() {
		return ErrNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	backing := model.BackingModel(req.Model)
	c.logger.Debug("issuing generation request", "model", req.Model, "backing", backing)

	s, err := c.api.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model:    backing,
		Messages: buildMessages(req),
		Stream:   true,
	})
	if err != nil {
		return fmt.Errorf("opening completion stream: %w", err)
	}
	defer s.Close()

	for {
		resp, err := s.Recv()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			// Cancellation surfaces as the context error, not a transport one.
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			return fmt.Errorf("receiving completion chunk: %w", err)
		}
		if len(resp.Choices) > 0 {
			if delta := resp.Choices[0].Delta.Content; delta != "" {
				onChunk(delta)
			}
		}
	}
}

// buildMessages converts a request into the gateway wire format: system
// instruction first, prior turns oldest-first, live prompt last.
func buildMessages(req stream.Request) []openai.ChatCompletionMessage {
	system := req.System
	if system == "" {
		system = SystemInstruction
	}

	msgs := make([]openai.ChatCompletionMessage, 0, len(req.Turns)+2)
	msgs = append(msgs, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: system,
	})
	for _, turn := range req.Turns {
		msgs = append(msgs, openai.ChatCompletionMessage{
			Role:    wireRole(turn.Role),
			Content: turn.Content,
		})
	}
	msgs = append(msgs, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Prompt,
	})
	return msgs
}

func wireRole(r model.Role) string {
	if r == model.RoleModel {
		return openai.ChatMessageRoleAssistant
	}
	return openai.ChatMessageRoleUser
}
