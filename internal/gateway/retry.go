package gateway

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/oukeidos/maintrans/internal/apperrors"
)

var (
	baseBackoff = 1 * time.Second
	maxBackoff  = 20 * time.Second
	jitterMax   = 1 * time.Second
)

// retryDecision reports whether another attempt should follow a failed one
// and how long to wait first. A nil err with a failed completion counts as a
// transient service failure.
func retryDecision(ctx context.Context, err error, attempt, maxAttempts int) (bool, time.Duration) {
	if attempt >= maxAttempts {
		return false, 0
	}
	if ctx.Err() != nil {
		return false, 0
	}
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return false, 0
		}
		// A per-call timeout is worth another attempt; the run deadline is not.
		if !errors.Is(err, context.DeadlineExceeded) && !apperrors.IsRetryable(err) {
			return false, 0
		}
	}

	backoff := baseBackoff << (attempt - 1)
	if apperrors.IsRateLimit(err) {
		backoff = backoff * 2
	}
	if backoff > maxBackoff {
		backoff = maxBackoff
	}
	var jitter time.Duration
	if jitterMax > 0 {
		jitter = time.Duration(rand.Int63n(int64(jitterMax)))
	}
	return true, backoff + jitter
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
