package retry_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/revathi-prasad/ai-builders-podcast/internal/services/retry"
)

var errFlaky = errors.New("flaky")

func always(error) retry.Decision { return retry.Decision{Retry: true} }

func recordSleeps(slept *[]time.Duration) func(context.Context, time.Duration) error {
	return func(_ context.Context, d time.Duration) error {
		*slept = append(*slept, d)
		return nil
	}
}

func TestDoStopsOnSuccess(t *testing.T) {
	var slept []time.Duration
	policy := retry.Policy{Attempts: 5, BaseDelay: time.Second, MaxDelay: 4 * time.Second, Sleep: recordSleeps(&slept)}
	calls := 0
	err := policy.Do(context.Background(), always, func(context.Context) error {
		calls++
		if calls < 4 {
			return errFlaky
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Do returned %v", err)
	}
	want := []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}
	if len(slept) != len(want) {
		t.Fatalf("slept %v, want %v", slept, want)
	}
	for i := range want {
		if slept[i] != want[i] {
			t.Fatalf("slept %v, want %v", slept, want)
		}
	}
}

func TestDoHonoursClassifierWait(t *testing.T) {
	var slept []time.Duration
	policy := retry.Policy{Attempts: 2, BaseDelay: time.Second, MaxDelay: 10 * time.Second, Sleep: recordSleeps(&slept)}
	calls := 0
	_ = policy.Do(context.Background(), func(error) retry.Decision {
		return retry.Decision{Retry: true, Wait: 30 * time.Second}
	}, func(context.Context) error {
		calls++
		if calls == 1 {
			return errFlaky
		}
		return nil
	})
	if len(slept) != 1 || slept[0] != 10*time.Second {
		t.Fatalf("expected the wait capped at 10s, got %v", slept)
	}
}

func TestDoReturnsUnretryableErrorAsIs(t *testing.T) {
	calls := 0
	err := retry.Policy{Attempts: 3}.Do(context.Background(), func(error) retry.Decision { return retry.Decision{} },
		func(context.Context) error {
			calls++
			return errFlaky
		})
	if !errors.Is(err, errFlaky) || errors.Is(err, retry.ErrExhausted) || calls != 1 {
		t.Fatalf("got %v after %d calls", err, calls)
	}
}

func TestDoReportsExhaustion(t *testing.T) {
	calls := 0
	err := retry.Policy{Attempts: 3}.Do(context.Background(), always, func(context.Context) error {
		calls++
		return errFlaky
	})
	if !errors.Is(err, retry.ErrExhausted) || !errors.Is(err, errFlaky) {
		t.Fatalf("expected exhaustion wrapping the last error, got %v", err)
	}
	if !strings.Contains(err.Error(), "failed after 3 attempts") || calls != 3 {
		t.Fatalf("got %v after %d calls", err, calls)
	}
}

func TestDoStopsWhenContextEnds(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := retry.Policy{Attempts: 5}.Do(ctx, always, func(context.Context) error {
		calls++
		cancel()
		return errFlaky
	})
	if calls != 1 || !errors.Is(err, errFlaky) {
		t.Fatalf("expected one call, got %d (%v)", calls, err)
	}
}

func TestRetryableStatus(t *testing.T) {
	for code, want := range map[int]bool{
		http.StatusTooManyRequests:     true,
		http.StatusBadGateway:          true,
		http.StatusRequestTimeout:      true,
		http.StatusUnauthorized:        false,
		http.StatusPaymentRequired:     false,
		http.StatusUnprocessableEntity: false,
	} {
		if got := retry.RetryableStatus(code); got != want {
			t.Fatalf("RetryableStatus(%d) = %v, want %v", code, got, want)
		}
	}
}

func TestParseRetryAfter(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	if got := retry.ParseRetryAfter("7", now); got != 7*time.Second {
		t.Fatalf("seconds form = %v", got)
	}
	date := now.Add(90 * time.Second).Format(http.TimeFormat)
	if got := retry.ParseRetryAfter(date, now); got != 90*time.Second {
		t.Fatalf("date form = %v", got)
	}
	if got := retry.ParseRetryAfter("soon", now); got != 0 {
		t.Fatalf("garbage = %v", got)
	}
}
