// Package retry runs calls against rate-limited HTTP services (the LLM
// providers and ElevenLabs) with capped exponential backoff.
package retry

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Decision is a classifier's verdict on one failed attempt. Wait, when
// positive, replaces the computed backoff (a Retry-After header, say).
type Decision struct {
	Retry bool
	Wait  time.Duration
}

// Classifier inspects a failed attempt.
type Classifier func(error) Decision

// Policy bounds the attempts and delays of Do. The zero value makes a single
// attempt.
type Policy struct {
	Attempts  int
	BaseDelay time.Duration
	MaxDelay  time.Duration
	// Sleep replaces the context-aware timer, mostly in tests.
	Sleep func(context.Context, time.Duration) error
}

// ErrExhausted marks an error returned after the last allowed attempt.
var ErrExhausted = errors.New("retries exhausted")

// Do calls fn until it succeeds, classify declines the error, the context
// ends, or the attempts run out.
func (p Policy) Do(ctx context.Context, classify Classifier, fn func(context.Context) error) error {
	attempts := p.Attempts
	if attempts <= 0 {
		attempts = 1
	}
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = fn(ctx); err == nil {
			return nil
		}
		if ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		decision := Decision{}
		if classify != nil {
			decision = classify(err)
		}
		if !decision.Retry {
			return err
		}
		if attempt == attempts {
			break
		}
		wait := decision.Wait
		if wait <= 0 {
			wait = p.Backoff(attempt)
		}
		if sleepErr := p.sleep(ctx, p.clamp(wait)); sleepErr != nil {
			return sleepErr
		}
	}
	if attempts == 1 {
		return err
	}
	return fmt.Errorf("%w: failed after %d attempts: %w", ErrExhausted, attempts, err)
}

// Backoff returns the delay before the retry that follows attempt:
// BaseDelay, then doubling up to MaxDelay.
func (p Policy) Backoff(attempt int) time.Duration {
	if p.BaseDelay <= 0 {
		return 0
	}
	delay := p.BaseDelay
	for i := 1; i < attempt; i++ {
		if p.MaxDelay > 0 && delay >= p.MaxDelay {
			break
		}
		delay *= 2
	}
	return p.clamp(delay)
}

func (p Policy) clamp(delay time.Duration) time.Duration {
	if delay < 0 {
		return 0
	}
	if p.MaxDelay > 0 && delay > p.MaxDelay {
		return p.MaxDelay
	}
	return delay
}

func (p Policy) sleep(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return ctx.Err()
	}
	if p.Sleep != nil {
		return p.Sleep(ctx, delay)
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// RetryableStatus reports whether an HTTP status is worth another attempt:
// request timeouts, rate limits and server errors.
func RetryableStatus(code int) bool {
	return code == http.StatusRequestTimeout ||
		code == http.StatusTooManyRequests ||
		code >= http.StatusInternalServerError
}

// IsNetTimeout reports whether err is a network timeout.
func IsNetTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// ParseRetryAfter reads a Retry-After header in seconds or HTTP-date form.
func ParseRetryAfter(value string, now time.Time) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		if seconds < 0 {
			return 0
		}
		return time.Duration(seconds) * time.Second
	}
	if when, err := http.ParseTime(value); err == nil && when.After(now) {
		return when.Sub(now)
	}
	return 0
}
