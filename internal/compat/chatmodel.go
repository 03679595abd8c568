// Package compat sends prompts to OpenAI-compatible chat endpoints
// (Azure deployments, LiteLLM proxies, vLLM, Ollama) through an eino chat model.
package compat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/oukeidos/maintrans/internal/apperrors"
	"github.com/oukeidos/maintrans/internal/gateway"
)

// Config selects the endpoint and model.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Client adapts an eino chat model to gateway.Completer.
type Client struct {
	chat  model.BaseChatModel
	model string
}

// NewClient builds an eino OpenAI chat model for cfg.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, fmt.Errorf("model is required for OpenAI-compatible endpoints")
	}
	temp := float32(0)
	chat, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:      cfg.APIKey,
		BaseURL:     cfg.BaseURL,
		Model:       cfg.Model,
		Timeout:     cfg.Timeout,
		Temperature: &temp,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create eino chat model: %w", err)
	}
	return &Client{chat: chat, model: cfg.Model}, nil
}

// NewWithModel wraps an existing chat model.
func NewWithModel(chat model.BaseChatModel, modelName string) *Client {
	return &Client{chat: chat, model: modelName}
}

// Model returns the configured model name.
func (c *Client) Model() string { return c.model }

var _ gateway.Completer = (*Client)(nil)

// Complete sends prompt as a single user message.
func (c *Client) Complete(ctx context.Context, prompt string) (gateway.Completion, error) {
	msg, err := c.chat.Generate(ctx, []*schema.Message{
		{Role: schema.User, Content: prompt},
	})
	if err != nil {
		return gateway.Completion{}, classify(err)
	}
	if msg == nil {
		return gateway.Completion{}, nil
	}

	comp := gateway.Completion{}
	if msg.ResponseMeta != nil {
		if u := msg.ResponseMeta.Usage; u != nil {
			comp.Usage = gateway.Usage{
				PromptTokens:     u.PromptTokens,
				CompletionTokens: u.CompletionTokens,
				TotalTokens:      u.TotalTokens,
			}
		}
		if msg.ResponseMeta.FinishReason == "content_filter" {
			return comp, nil
		}
	}
	text := strings.TrimSpace(msg.Content)
	if text == "" {
		return comp, nil
	}
	comp.Success = true
	comp.Text = text
	return comp, nil
}

// classify maps chat model errors onto apperrors kinds. The eino client only
// exposes error text, so status codes are matched on the message.
func classify(err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	wrapped := fmt.Errorf("chat completion failed: %w", err)
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.New(apperrors.KindTransient, "Chat completion timed out.", wrapped)
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "429") || strings.Contains(msg, "rate limit"):
		return apperrors.New(apperrors.KindRateLimit, "Chat endpoint rate limit exceeded (429).", wrapped)
	case strings.Contains(msg, "401") || strings.Contains(msg, "403") || strings.Contains(msg, "invalid api key"):
		return apperrors.New(apperrors.KindAuth, "Chat endpoint authentication failed.", wrapped)
	case strings.Contains(msg, "404") || strings.Contains(msg, "400"):
		return apperrors.New(apperrors.KindBadRequest, "Chat endpoint rejected the request.", wrapped)
	default:
		return apperrors.New(apperrors.KindTransient, "Chat endpoint request failed due to a temporary network/runtime error.", wrapped)
	}
}
