package queue

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestHandleMessagePassesDecodedEvent(t *testing.T) {
	var got RefundApprovedEvent
	c := &RefundConsumer{
		Log: quietLogger(),
		Handler: func(ctx context.Context, ev RefundApprovedEvent) error {
			got = ev
			return nil
		},
	}
	body := []byte(`{"booking_id":42,"booking_date":"2024-05-02","refund_amount":"250.50","approved_at":"2024-05-03T10:00:00Z"}`)
	if err := c.HandleMessage(context.Background(), body); err != nil {
		t.Fatalf("HandleMessage error: %v", err)
	}
	if got.BookingID != 42 || got.BookingDate != "2024-05-02" {
		t.Fatalf("unexpected event %+v", got)
	}
	if got.RefundAmount.String() != "250.5" {
		t.Fatalf("refund amount = %s", got.RefundAmount)
	}
}

func TestHandleMessageRejectsBadPayloads(t *testing.T) {
	called := false
	c := &RefundConsumer{
		Log: quietLogger(),
		Handler: func(ctx context.Context, ev RefundApprovedEvent) error {
			called = true
			return nil
		},
	}
	for _, body := range []string{`not json`, `{"booking_id":1,"booking_date":"02/05/2024"}`} {
		if err := c.HandleMessage(context.Background(), []byte(body)); err == nil {
			t.Fatalf("expected error for %q", body)
		}
	}
	if called {
		t.Fatalf("handler must not run for invalid messages")
	}
}

func TestHandleMessagePropagatesRetry(t *testing.T) {
	c := &RefundConsumer{
		Log: quietLogger(),
		Handler: func(ctx context.Context, ev RefundApprovedEvent) error {
			return ErrRetryLater
		},
	}
	err := c.HandleMessage(context.Background(), []byte(`{"booking_id":1,"booking_date":"2024-05-02"}`))
	if !errors.Is(err, ErrRetryLater) {
		t.Fatalf("expected ErrRetryLater, got %v", err)
	}
}
