package gen

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"google.golang.org/genai"
)

// retryPolicy bounds the backoff schedule for one generation call.
// Rate-limited failures wait InitialDelay * 2^attempt between attempts;
// everything else propagates immediately.
type retryPolicy struct {
	MaxRetries   int
	InitialDelay time.Duration
}

var (
	// planPolicy covers slide-plan, summary, and quiz-question calls.
	planPolicy = retryPolicy{MaxRetries: 3, InitialDelay: time.Second}

	// assetPolicy covers image and speech calls, which are more expensive
	// and less tolerant of long blocking.
	assetPolicy = retryPolicy{MaxRetries: 2, InitialDelay: 2 * time.Second}
)

// isRateLimited reports whether err is a remote rate-limit or
// quota-exhaustion signal worth backing off for.
func isRateLimited(err error) bool {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Code == http.StatusTooManyRequests {
			return true
		}
		if apiErr.Status == "RESOURCE_EXHAUSTED" {
			return true
		}
	}
	msg := err.Error()
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "quota") ||
		strings.Contains(msg, "RESOURCE_EXHAUSTED")
}

// sleepFunc waits for d or until ctx is done. Injectable for tests.
type sleepFunc func(ctx context.Context, d time.Duration) error

func defaultSleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// retryCall runs fn under the given policy. Rate-limited failures are
// retried with exponential backoff until the budget is spent; any other
// failure is wrapped and propagated immediately.
func retryCall[T any](ctx context.Context, c *Client, op string, p retryPolicy, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	for attempt := 0; ; attempt++ {
		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}

		var genErr *GenerationError
		if errors.As(err, &genErr) && genErr.Kind == KindBadResponse {
			// Shape mismatches are rejected at the boundary, not retried.
			return zero, err
		}

		if !isRateLimited(err) {
			return zero, &GenerationError{Kind: KindTransport, Op: op, Err: err}
		}

		if attempt >= p.MaxRetries {
			log.Error("Generation retry budget exhausted",
				"op", op, "attempts", attempt+1, "error", err)
			return zero, &GenerationError{Kind: KindMaxRetriesExceeded, Op: op, Err: err}
		}

		delay := p.InitialDelay * (1 << attempt)
		log.Warn("Rate limit hit, backing off",
			"op", op, "delay", delay,
			"attempt", attempt+1, "maxRetries", p.MaxRetries)
		if err := c.sleep(ctx, delay); err != nil {
			return zero, &GenerationError{Kind: KindTransport, Op: op, Err: err}
		}
	}
}
