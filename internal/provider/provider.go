// Package provider holds the AI provider adapters used for report
// generation, plus the retry/fallback chain that wraps them.
package provider

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Generator is the opaque request/response boundary to one AI provider.
type Generator interface {
	// Name identifies the provider for report metadata.
	Name() string

	// Generate sends the prompt and returns the generated text.
	// Implementations honor ctx cancellation and deadlines.
	Generate(ctx context.Context, prompt string) (string, error)
}

// GenerationTimeoutError indicates every attempt ran out of time.
type GenerationTimeoutError struct {
	Provider string
	Timeout  time.Duration
}

func (e *GenerationTimeoutError) Error() string {
	return fmt.Sprintf("generation timed out after %s (provider %s)", e.Timeout, e.Provider)
}

// ProviderError indicates the provider chain failed after retries and
// fallback were exhausted.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s failed: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Chain runs generation attempts against a primary provider with an
// optional secondary fallback. Policy: the primary is tried
// PrimaryAttempts times; if all fail and a secondary is configured, it
// gets one attempt. Each attempt is bounded by Timeout.
type Chain struct {
	Primary         Generator
	Secondary       Generator // may be nil
	PrimaryAttempts int
	Timeout         time.Duration
}

// Result holds the outcome of a successful chain run.
type Result struct {
	Text     string
	Provider string
	Duration time.Duration
}

// Generate runs the retry/fallback policy. On success it reports which
// provider answered and how long the winning attempt took. On
// exhaustion it returns GenerationTimeoutError if the last failure was
// a deadline, ProviderError otherwise.
func (c *Chain) Generate(ctx context.Context, prompt string) (*Result, error) {
	attempts := c.PrimaryAttempts
	if attempts < 1 {
		attempts = 1
	}
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}

	type plan struct {
		gen   Generator
		tries int
	}
	plans := []plan{{gen: c.Primary, tries: attempts}}
	if c.Secondary != nil {
		plans = append(plans, plan{gen: c.Secondary, tries: 1})
	}

	var lastErr error
	var lastProvider string
	for _, p := range plans {
		for i := 0; i < p.tries; i++ {
			start := time.Now()
			text, err := c.attempt(ctx, p.gen, prompt, timeout)
			if err == nil {
				return &Result{
					Text:     text,
					Provider: p.gen.Name(),
					Duration: time.Since(start),
				}, nil
			}
			lastErr = err
			lastProvider = p.gen.Name()

			if ctx.Err() != nil {
				break
			}
		}

		// The caller's own context ending is not retryable; skip the
		// fallback as well.
		if ctx.Err() != nil {
			break
		}
	}

	if errors.Is(lastErr, context.DeadlineExceeded) {
		return nil, &GenerationTimeoutError{Provider: lastProvider, Timeout: timeout}
	}
	return nil, &ProviderError{Provider: lastProvider, Err: lastErr}
}

func (c *Chain) attempt(ctx context.Context, gen Generator, prompt string, timeout time.Duration) (string, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return gen.Generate(attemptCtx, prompt)
}
