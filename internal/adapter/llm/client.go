// Package llm talks to an OpenAI-compatible chat completion API.
package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/failsafe-go/failsafe-go/circuitbreaker"
	"github.com/pscheid92/rogrow/internal/adapter/metrics"
	"github.com/pscheid92/rogrow/internal/domain"
	"github.com/pscheid92/rogrow/internal/platform/retry"
	openai "github.com/sashabaranov/go-openai"
)

var errEmptyCompletion = errors.New("completion returned no choices")

type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float64
}

// Client is the language model collaborator. Transient upstream failures are
// retried, and a circuit breaker stops calls while the upstream keeps failing.
type Client struct {
	api     *openai.Client
	cfg     Config
	policy  retry.Policy
	cb      circuitbreaker.CircuitBreaker[any]
	metrics *metrics.LLMMetrics
}

var (
	_ domain.Completer        = (*Client)(nil)
	_ domain.InsightGenerator = (*Client)(nil)
)

// New creates a client. m may be nil.
func New(cfg Config, m *metrics.LLMMetrics) *Client {
	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	apiCfg.HTTPClient = &http.Client{Timeout: 60 * time.Second}

	c := &Client{
		api:     openai.NewClientWithConfig(apiCfg),
		cfg:     cfg,
		metrics: m,
	}
	c.policy = retry.Policy{
		MaxAttempts:      3,
		InitialBackoff:   500 * time.Millisecond,
		MaxBackoff:       4 * time.Second,
		RateLimitBackoff: 5 * time.Second,
		OnRetry: func(attempt int, err error, backoff time.Duration) {
			slog.Warn("Retrying language model call", "attempt", attempt, "backoff", backoff, "error", err)
			if c.metrics != nil {
				c.metrics.Retried()
			}
		},
	}
	c.cb = newBreaker(m)
	return c
}

// newBreaker opens after 5 consecutive failed calls and probes again after 30s.
func newBreaker(m *metrics.LLMMetrics) circuitbreaker.CircuitBreaker[any] {
	return circuitbreaker.NewBuilder[any]().
		WithFailureThreshold(5).
		WithDelay(30 * time.Second).
		WithSuccessThreshold(1).
		OnStateChanged(func(e circuitbreaker.StateChangedEvent) {
			slog.Warn("Circuit breaker state changed",
				"component", "llm",
				"from", e.OldState.String(),
				"to", e.NewState.String(),
			)
			if m != nil {
				m.SetBreakerState(stateToFloat(e.NewState))
			}
		}).
		Build()
}

func stateToFloat(state circuitbreaker.State) float64 {
	switch state {
	case circuitbreaker.ClosedState:
		return 0
	case circuitbreaker.HalfOpenState:
		return 1
	case circuitbreaker.OpenState:
		return 2
	default:
		return -1
	}
}

// Complete sends one system and one user message and returns the reply text.
func (c *Client) Complete(ctx context.Context, system, prompt string) (string, error) {
	req := c.request(system, prompt)
	return c.chat(ctx, req)
}

func (c *Client) request(system, prompt string) openai.ChatCompletionRequest {
	return openai.ChatCompletionRequest{
		Model: c.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: float32(c.cfg.Temperature),
	}
}

func (c *Client) chat(ctx context.Context, req openai.ChatCompletionRequest) (string, error) {
	if !c.cb.TryAcquirePermit() {
		c.observe("rejected", 0)
		return "", fmt.Errorf("language model circuit breaker open: %w", circuitbreaker.ErrOpen)
	}

	start := time.Now()
	text, err := retry.Do(ctx, c.policy, classify, func(ctx context.Context) (string, error) {
		resp, err := c.api.CreateChatCompletion(ctx, req)
		if err != nil {
			return "", err
		}
		if len(resp.Choices) == 0 {
			return "", errEmptyCompletion
		}
		return resp.Choices[0].Message.Content, nil
	})
	if err != nil {
		if upstreamFailure(ctx, err) {
			c.cb.RecordError(err)
		} else {
			c.cb.RecordSuccess()
		}
		c.observe("error", time.Since(start))
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	c.cb.RecordSuccess()
	c.observe("success", time.Since(start))
	return text, nil
}

func (c *Client) observe(outcome string, d time.Duration) {
	if c.metrics != nil {
		c.metrics.ObserveRequest(outcome, d)
	}
}

// classify retries rate limits and server errors. Other API errors are permanent.
func classify(err error) retry.Action {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, errEmptyCompletion) {
		return retry.Stop
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return classifyStatus(apiErr.HTTPStatusCode)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return classifyStatus(reqErr.HTTPStatusCode)
	}

	// Transport errors.
	return retry.Retry
}

// upstreamFailure reports whether err says the language model is unhealthy.
// Callers that went away and rejected requests (4xx other than 429) do not.
func upstreamFailure(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return classifyStatus(apiErr.HTTPStatusCode) != retry.Stop
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return classifyStatus(reqErr.HTTPStatusCode) != retry.Stop
	}
	return true
}

func classifyStatus(code int) retry.Action {
	switch {
	case code == http.StatusTooManyRequests:
		return retry.After
	case code >= http.StatusInternalServerError:
		return retry.Retry
	default:
		return retry.Stop
	}
}
