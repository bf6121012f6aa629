// Package generation wraps the external text-generation service.
package generation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"

	"career-backend/internal/shared/telemetry"
)

var (
	ErrUnavailable   = errors.New("generation service unavailable")
	ErrEmptyResponse = errors.New("generation returned empty text")
)

// DefaultMaxAttempts bounds Generate when the caller passes zero.
const DefaultMaxAttempts = 3

// Model produces text for a prompt.
type Model interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Backend initializes models by identifier.
type Backend interface {
	Model(name string) (Model, error)
}

// Options configures a Client.
type Options struct {
	APIKey      string
	Models      []string
	MaxAttempts int
	HTTPTimeout time.Duration
	// Backend overrides the Gemini backend built from APIKey.
	Backend Backend
	// NewBackOff paces retries; exponential when nil.
	NewBackOff func() backoff.BackOff
}

// Client selects a model at startup and rotates through the candidates on
// failure. It is built once per process and is safe for concurrent use.
type Client struct {
	backend     Backend
	models      []string
	start       int
	primary     Model
	maxAttempts int
	newBackOff  func() backoff.BackOff
	current     atomic.Value
}

// New builds a Client. It never fails: without a credential, or when no
// candidate model initializes, the returned client reports Available()==false.
func New(ctx context.Context, opts Options) *Client {
	c := &Client{
		models:      opts.Models,
		maxAttempts: opts.MaxAttempts,
		newBackOff:  opts.NewBackOff,
	}
	if c.maxAttempts <= 0 {
		c.maxAttempts = DefaultMaxAttempts
	}
	if c.newBackOff == nil {
		c.newBackOff = defaultBackOff
	}
	if strings.TrimSpace(opts.APIKey) == "" {
		telemetry.Info("generation.disabled", map[string]any{"reason": "no api key configured"})
		return c
	}

	backend := opts.Backend
	if backend == nil {
		b, err := NewGenAIBackend(ctx, opts.APIKey, opts.HTTPTimeout)
		if err != nil {
			telemetry.Error("generation.disabled", map[string]any{"reason": "backend init failed", "error": err})
			return c
		}
		backend = b
	}

	for i, name := range c.models {
		m, err := backend.Model(name)
		if err != nil {
			telemetry.Warn("generation.model_init_failed", map[string]any{"model": name, "error": err})
			continue
		}
		c.backend = backend
		c.start = i
		c.primary = m
		c.current.Store(name)
		telemetry.Info("generation.ready", map[string]any{"model": name})
		return c
	}
	telemetry.Error("generation.disabled", map[string]any{"reason": "no model initialized", "candidates": c.models})
	return c
}

// Available reports whether a model was initialized at startup.
func (c *Client) Available() bool {
	return c != nil && c.primary != nil
}

// CurrentModel returns the model that last answered, for diagnostics.
func (c *Client) CurrentModel() string {
	if !c.Available() {
		return ""
	}
	name, _ := c.current.Load().(string)
	return name
}

// Generate returns text for prompt. A failed attempt moves to the next
// candidate model, wrapping around, for at most maxAttempts attempts. If the
// next model cannot be initialized the call stops with the last error.
func (c *Client) Generate(ctx context.Context, prompt string, maxAttempts int) (string, error) {
	if !c.Available() {
		return "", ErrUnavailable
	}
	if maxAttempts <= 0 {
		maxAttempts = c.maxAttempts
	}

	idx := c.start
	name := c.models[idx]
	model := c.primary
	attempt := 0

	op := func() (string, error) {
		attempt++
		text, err := model.Generate(ctx, prompt)
		if err == nil && strings.TrimSpace(text) == "" {
			err = ErrEmptyResponse
		}
		if err == nil {
			c.current.Store(name)
			return text, nil
		}
		lastErr := fmt.Errorf("model %s attempt %d: %w", name, attempt, err)
		if attempt >= maxAttempts || ctx.Err() != nil {
			return "", backoff.Permanent(lastErr)
		}

		next := (idx + 1) % len(c.models)
		m, initErr := c.backend.Model(c.models[next])
		if initErr != nil {
			telemetry.Warn("generation.model_switch_failed", map[string]any{
				"from":  name,
				"to":    c.models[next],
				"error": initErr,
			})
			return "", backoff.Permanent(lastErr)
		}
		telemetry.Warn("generation.retry", map[string]any{
			"from":    name,
			"to":      c.models[next],
			"attempt": attempt,
			"error":   err,
		})
		idx, name, model = next, c.models[next], m
		return "", lastErr
	}

	return backoff.RetryWithData(op, backoff.WithContext(c.newBackOff(), ctx))
}

func defaultBackOff() backoff.BackOff {
	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = 250 * time.Millisecond
	expo.MaxInterval = 2 * time.Second
	expo.MaxElapsedTime = 0
	return expo
}
