package messaging

import (
	"context"
	"errors"
	"time"

	"github.com/sethvargo/go-retry"
)

// Retrying wraps a Publisher and retries failed publishes with exponential
// backoff. Cancellation and ErrUnsupported are returned immediately.
type Retrying struct {
	next     Publisher
	attempts uint64
	base     time.Duration
}

// NewRetrying retries up to attempts extra times starting at base delay.
// Zero attempts returns next unchanged.
func NewRetrying(next Publisher, attempts uint64, base time.Duration) Publisher {
	if attempts == 0 {
		return next
	}
	if base <= 0 {
		base = 100 * time.Millisecond
	}
	return &Retrying{next: next, attempts: attempts, base: base}
}

func (r *Retrying) Publish(ctx context.Context, destination string, msg OutgoingMessage) (PublishResult, error) {
	var res PublishResult

	backoff := retry.WithMaxRetries(r.attempts, retry.WithJitterPercent(20, retry.NewExponential(r.base)))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		var err error
		res, err = r.next.Publish(ctx, destination, msg)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, ErrUnsupported), errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return err
		}
		return retry.RetryableError(err)
	})

	return res, err
}

func (r *Retrying) Close() error { return r.next.Close() }
