package mailer

import (
	"context"
	"time"
)

// RetrySender wraps a Sender with a fixed attempt count and a fixed
// delay between attempts. Not every call site uses it; the welcome
// email on the submission path sends once.
type RetrySender struct {
	inner    Sender
	attempts int
	delay    time.Duration
}

func WithRetry(inner Sender, attempts int, delay time.Duration) *RetrySender {
	if attempts < 1 {
		attempts = 1
	}
	return &RetrySender{inner: inner, attempts: attempts, delay: delay}
}

func (r *RetrySender) Send(ctx context.Context, msg Message) (string, error) {
	var lastErr error
	for attempt := 0; attempt < r.attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(r.delay):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}

		id, err := r.inner.Send(ctx, msg)
		if err == nil {
			return id, nil
		}
		lastErr = err
	}
	return "", lastErr
}
