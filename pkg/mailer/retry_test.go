package mailer

import (
	"context"
	"errors"
	"testing"
	"time"
)

type flakySender struct {
	failures int
	calls    int
}

func (f *flakySender) Send(_ context.Context, _ Message) (string, error) {
	f.calls++
	if f.calls <= f.failures {
		return "", errors.New("temporary failure")
	}
	return "delivery-id", nil
}

func TestWithRetryEventualSuccess(t *testing.T) {
	inner := &flakySender{failures: 2}
	sender := WithRetry(inner, 3, time.Millisecond)

	id, err := sender.Send(context.Background(), Message{To: "a@example.com"})
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if id != "delivery-id" {
		t.Errorf("Send() id = %q", id)
	}
	if inner.calls != 3 {
		t.Errorf("inner called %d times, want 3", inner.calls)
	}
}

func TestWithRetryExhausted(t *testing.T) {
	inner := &flakySender{failures: 10}
	sender := WithRetry(inner, 3, time.Millisecond)

	if _, err := sender.Send(context.Background(), Message{}); err == nil {
		t.Fatal("Send() should fail after exhausting attempts")
	}
	if inner.calls != 3 {
		t.Errorf("inner called %d times, want 3", inner.calls)
	}
}

func TestWithRetryRespectsContext(t *testing.T) {
	inner := &flakySender{failures: 10}
	sender := WithRetry(inner, 5, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := sender.Send(ctx, Message{}); !errors.Is(err, context.Canceled) {
		t.Errorf("Send() error = %v, want context.Canceled", err)
	}
}
