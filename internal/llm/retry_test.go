package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/cloudwego/eino/schema"
)

func TestRetryableClassification(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{fmt.Errorf("429 Too Many Requests"), true},
		{fmt.Errorf("rate limit exceeded"), true},
		{fmt.Errorf("dial tcp: connection refused"), true},
		{fmt.Errorf("request timeout"), true},
		{fmt.Errorf("503 Service Unavailable"), true},
		{fmt.Errorf("internal server error"), true},
		{fmt.Errorf("401 Unauthorized"), false},
		{fmt.Errorf("invalid api key provided"), false},
		{fmt.Errorf("400 bad request"), false},
		{context.Canceled, false},
		{fmt.Errorf("something unexpected"), true},
	}
	for _, tc := range cases {
		if got := Retryable(tc.err); got != tc.want {
			t.Errorf("Retryable(%v) = %t, want %t", tc.err, got, tc.want)
		}
	}
}

func TestRetryPolicyStopsAfterBudget(t *testing.T) {
	policy := RetryPolicy{MaxAttempts: 3, BaseWait: time.Millisecond, MaxWait: 2 * time.Millisecond}

	attempts := 0
	err := policy.Do(context.Background(), func() error {
		attempts++
		return fmt.Errorf("503 unavailable")
	})
	if err == nil {
		t.Fatalf("expected error")
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestRetryPolicySucceedsAfterRetry(t *testing.T) {
	policy := RetryPolicy{MaxAttempts: 5, BaseWait: time.Millisecond, MaxWait: 2 * time.Millisecond}

	attempts := 0
	err := policy.Do(context.Background(), func() error {
		attempts++
		if attempts < 3 {
			return fmt.Errorf("timeout")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestRetryPolicyNonRetryableSurfacesImmediately(t *testing.T) {
	policy := RetryPolicy{MaxAttempts: 5, BaseWait: time.Millisecond}

	attempts := 0
	authErr := fmt.Errorf("401 Unauthorized")
	err := policy.Do(context.Background(), func() error {
		attempts++
		return authErr
	})
	if !errors.Is(err, authErr) {
		t.Fatalf("expected auth error, got %v", err)
	}
	if attempts != 1 {
		t.Fatalf("expected 1 attempt, got %d", attempts)
	}
}

func TestRetryPolicyHonorsCancellation(t *testing.T) {
	policy := RetryPolicy{MaxAttempts: 10, BaseWait: 50 * time.Millisecond}

	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	err := policy.Do(ctx, func() error {
		attempts++
		return fmt.Errorf("timeout")
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if attempts > 2 {
		t.Fatalf("cancellation should stop retries, got %d attempts", attempts)
	}
}

type fakeClient struct{ model string }

func (f *fakeClient) ChatCompletion(context.Context, []*schema.Message, []*schema.ToolInfo) (*schema.Message, error) {
	return schema.AssistantMessage("ok", nil), nil
}
func (f *fakeClient) ModelName() string { return f.model }
func (f *fakeClient) Provider() string  { return "fake" }

func TestPoolPick(t *testing.T) {
	a := &fakeClient{model: "model-a"}
	b := &fakeClient{model: "model-b"}
	pool := NewPool(a, b)

	if pool.Size() != 2 {
		t.Fatalf("expected size 2, got %d", pool.Size())
	}
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		seen[pool.Pick().ModelName()] = true
	}
	if !seen["model-a"] || !seen["model-b"] {
		t.Fatalf("uniform pick never hit both clients: %v", seen)
	}

	single := NewPool(a)
	for i := 0; i < 5; i++ {
		if single.Pick() != a {
			t.Fatalf("single-client pool must always return that client")
		}
	}
}
