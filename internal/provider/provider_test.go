package provider

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

// fakeGenerator scripts a sequence of responses for chain tests.
type fakeGenerator struct {
	name  string
	calls int
	fn    func(call int, ctx context.Context) (string, error)
}

func (f *fakeGenerator) Name() string { return f.name }

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	f.calls++
	return f.fn(f.calls, ctx)
}

func TestChainSucceedsOnFirstAttempt(t *testing.T) {
	primary := &fakeGenerator{name: "primary", fn: func(int, context.Context) (string, error) {
		return "generated", nil
	}}
	chain := &Chain{Primary: primary, PrimaryAttempts: 2, Timeout: time.Second}

	result, err := chain.Generate(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if result.Text != "generated" || result.Provider != "primary" {
		t.Errorf("result = %+v", result)
	}
	if primary.calls != 1 {
		t.Errorf("primary calls = %d, want 1", primary.calls)
	}
}

func TestChainRetriesPrimaryThenSucceeds(t *testing.T) {
	primary := &fakeGenerator{name: "primary", fn: func(call int, _ context.Context) (string, error) {
		if call == 1 {
			return "", fmt.Errorf("transient failure")
		}
		return "second try", nil
	}}
	chain := &Chain{Primary: primary, PrimaryAttempts: 2, Timeout: time.Second}

	result, err := chain.Generate(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if result.Text != "second try" {
		t.Errorf("text = %q", result.Text)
	}
	if primary.calls != 2 {
		t.Errorf("primary calls = %d, want 2", primary.calls)
	}
}

func TestChainFallsBackToSecondary(t *testing.T) {
	primary := &fakeGenerator{name: "primary", fn: func(int, context.Context) (string, error) {
		return "", fmt.Errorf("primary down")
	}}
	secondary := &fakeGenerator{name: "secondary", fn: func(int, context.Context) (string, error) {
		return "fallback text", nil
	}}
	chain := &Chain{Primary: primary, Secondary: secondary, PrimaryAttempts: 2, Timeout: time.Second}

	result, err := chain.Generate(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if result.Provider != "secondary" || result.Text != "fallback text" {
		t.Errorf("result = %+v", result)
	}
	if primary.calls != 2 || secondary.calls != 1 {
		t.Errorf("calls = %d/%d, want 2/1", primary.calls, secondary.calls)
	}
}

func TestChainExhaustionReturnsProviderError(t *testing.T) {
	primary := &fakeGenerator{name: "primary", fn: func(int, context.Context) (string, error) {
		return "", fmt.Errorf("primary down")
	}}
	secondary := &fakeGenerator{name: "secondary", fn: func(int, context.Context) (string, error) {
		return "", fmt.Errorf("secondary down")
	}}
	chain := &Chain{Primary: primary, Secondary: secondary, PrimaryAttempts: 2, Timeout: time.Second}

	_, err := chain.Generate(context.Background(), "prompt")
	var provErr *ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("err = %v, want ProviderError", err)
	}
	if provErr.Provider != "secondary" {
		t.Errorf("failing provider = %q, want secondary", provErr.Provider)
	}
}

func TestChainTimeoutReturnsGenerationTimeout(t *testing.T) {
	slow := &fakeGenerator{name: "slow", fn: func(_ int, ctx context.Context) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}}
	chain := &Chain{Primary: slow, PrimaryAttempts: 1, Timeout: 10 * time.Millisecond}

	_, err := chain.Generate(context.Background(), "prompt")
	var timeoutErr *GenerationTimeoutError
	if !errors.As(err, &timeoutErr) {
		t.Fatalf("err = %v, want GenerationTimeoutError", err)
	}
	if timeoutErr.Provider != "slow" {
		t.Errorf("provider = %q, want slow", timeoutErr.Provider)
	}
}

func TestChainStopsWhenCallerContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	primary := &fakeGenerator{name: "primary", fn: func(int, context.Context) (string, error) {
		cancel()
		return "", fmt.Errorf("failed while caller cancelled")
	}}
	secondary := &fakeGenerator{name: "secondary", fn: func(int, context.Context) (string, error) {
		return "should not run", nil
	}}
	chain := &Chain{Primary: primary, Secondary: secondary, PrimaryAttempts: 3, Timeout: time.Second}

	_, err := chain.Generate(ctx, "prompt")
	if err == nil {
		t.Fatal("expected error after caller cancellation")
	}
	if primary.calls != 1 {
		t.Errorf("primary calls = %d, want 1 (no retry after caller cancel)", primary.calls)
	}
}
