package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/eino-ext/components/model/deepseek"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/tradecortex/tradecortex/config"
)

// Client issues chat completions against one LLM backend. Implementations
// must be safe for concurrent use.
type Client interface {
	// ChatCompletion sends the messages (plus optional tool schemas) and
	// returns the assistant message. A response carrying tool calls has a
	// non-empty ToolCalls slice.
	ChatCompletion(ctx context.Context, messages []*schema.Message, tools []*schema.ToolInfo) (*schema.Message, error)
	ModelName() string
	Provider() string
}

// APICallEvent describes one transport attempt for observability.
type APICallEvent struct {
	Provider string
	Model    string
	Tokens   int
	Latency  time.Duration
	Success  bool
}

// Observer receives one event per transport attempt.
type Observer func(APICallEvent)

// TransportError is a chat-completion failure that survived the retry
// policy (or was not retryable at all).
type TransportError struct {
	Provider string
	Model    string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("llm call failed (%s/%s): %v", e.Provider, e.Model, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ChatClient wraps an eino tool-calling chat model with the retry policy
// and per-attempt observability.
type ChatClient struct {
	base     model.ToolCallingChatModel
	provider string
	model    string
	retry    RetryPolicy
	observer Observer
}

// New builds a client for the configured backend family. The provider
// string selects the eino component; everything else about the backend is
// opaque to callers.
func New(ctx context.Context, cfg config.LLMConfig, observer Observer) (*ChatClient, error) {
	return NewForModel(ctx, cfg, cfg.Model, observer)
}

// NewForModel builds a client for a specific model id, used by the debate
// pool where several models share one backend config.
func NewForModel(ctx context.Context, cfg config.LLMConfig, modelName string, observer Observer) (*ChatClient, error) {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second

	var base model.ToolCallingChatModel
	switch cfg.Provider {
	case "deepseek":
		cm, err := deepseek.NewChatModel(ctx, &deepseek.ChatModelConfig{
			APIKey:      cfg.APIKey,
			Model:       modelName,
			BaseURL:     cfg.BaseURL,
			Timeout:     timeout,
			MaxTokens:   cfg.MaxTokens,
			Temperature: float32(cfg.Temperature),
		})
		if err != nil {
			return nil, fmt.Errorf("init deepseek chat model: %w", err)
		}
		base = cm
	case "openai":
		maxTokens := cfg.MaxTokens
		temperature := float32(cfg.Temperature)
		cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
			APIKey:      cfg.APIKey,
			BaseURL:     cfg.BaseURL,
			Model:       modelName,
			Timeout:     timeout,
			MaxTokens:   &maxTokens,
			Temperature: &temperature,
		})
		if err != nil {
			return nil, fmt.Errorf("init openai chat model: %w", err)
		}
		base = cm
	default:
		return nil, fmt.Errorf("unsupported llm provider: %q", cfg.Provider)
	}

	return &ChatClient{
		base:     base,
		provider: cfg.Provider,
		model:    modelName,
		retry: RetryPolicy{
			MaxAttempts: cfg.MaxRetries,
			BaseWait:    time.Duration(cfg.RetryBaseSeconds) * time.Second,
			MaxWait:     time.Duration(cfg.RetryMaxSeconds) * time.Second,
		},
		observer: observer,
	}, nil
}

// NewFromModel wraps an already-built chat model. Used by tests and
// anywhere a caller wants to supply its own backend.
func NewFromModel(base model.ToolCallingChatModel, provider, modelName string, retry RetryPolicy, observer Observer) *ChatClient {
	return &ChatClient{base: base, provider: provider, model: modelName, retry: retry, observer: observer}
}

func (c *ChatClient) ModelName() string { return c.model }
func (c *ChatClient) Provider() string  { return c.provider }

// ChatCompletion implements Client. Each attempt emits one APICallEvent;
// retryable failures are re-issued under the policy, everything else
// surfaces immediately as a TransportError.
func (c *ChatClient) ChatCompletion(ctx context.Context, messages []*schema.Message, tools []*schema.ToolInfo) (*schema.Message, error) {
	cm := c.base
	if len(tools) > 0 {
		bound, err := c.base.WithTools(tools)
		if err != nil {
			return nil, &TransportError{Provider: c.provider, Model: c.model, Err: err}
		}
		cm = bound
	}

	var resp *schema.Message
	err := c.retry.Do(ctx, func() error {
		start := time.Now()
		out, genErr := cm.Generate(ctx, messages)
		latency := time.Since(start)

		event := APICallEvent{Provider: c.provider, Model: c.model, Latency: latency, Success: genErr == nil}
		if genErr == nil && out.ResponseMeta != nil && out.ResponseMeta.Usage != nil {
			event.Tokens = out.ResponseMeta.Usage.TotalTokens
		}
		if c.observer != nil {
			c.observer(event)
		}

		if genErr != nil {
			return genErr
		}
		resp = out
		return nil
	})
	if err != nil {
		return nil, &TransportError{Provider: c.provider, Model: c.model, Err: err}
	}
	return resp, nil
}
