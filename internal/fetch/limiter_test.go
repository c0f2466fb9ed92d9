package fetch

import (
	"context"
	"testing"
	"time"
)

// TestHostLimiter tests per-host rate limiting.
func TestHostLimiter(t *testing.T) {
	t.Parallel()

	t.Run("disabled limiter never blocks", func(t *testing.T) {
		t.Parallel()

		l := newHostLimiter(0)
		if l != nil {
			t.Fatal("expected nil limiter for zero rate")
		}
		for range 100 {
			if err := l.Wait(context.Background(), "https://example.com/"); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}
	})

	t.Run("same host is spaced out", func(t *testing.T) {
		t.Parallel()

		l := newHostLimiter(10)
		start := time.Now()
		for range 3 {
			if err := l.Wait(context.Background(), "https://example.com/a"); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}
		if elapsed := time.Since(start); elapsed < 150*time.Millisecond {
			t.Errorf("expected waits of about 200ms, got %v", elapsed)
		}
	})

	t.Run("different hosts have separate buckets", func(t *testing.T) {
		t.Parallel()

		l := newHostLimiter(0.001)
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()

		for _, u := range []string{"https://a.example/", "https://b.example/", "https://c.example/"} {
			if err := l.Wait(ctx, u); err != nil {
				t.Errorf("first request to %s should not wait: %v", u, err)
			}
		}
	})

	t.Run("cancelled wait returns error", func(t *testing.T) {
		t.Parallel()

		l := newHostLimiter(0.001)
		if err := l.Wait(context.Background(), "https://example.com/"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if err := l.Wait(ctx, "https://example.com/"); err == nil {
			t.Error("expected an error for a cancelled context")
		}
	})
}
