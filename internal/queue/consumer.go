package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/theatre-backoffice/internal/utils"
)

// ErrRetryLater tells the consumer to requeue a message instead of
// rejecting it.
var ErrRetryLater = errors.New("retry later")

// RefundHandler reacts to a decoded refund approval.
type RefundHandler func(ctx context.Context, ev RefundApprovedEvent) error

// RefundConsumer reads refund.approved and hands each event to a handler.
type RefundConsumer struct {
	URL     string
	Handler RefundHandler
	Log     logrus.FieldLogger
}

// Start connects to RabbitMQ, declares the refund.approved queue (durable)
// and consumes until ctx is cancelled.  Connection failures are retried
// with exponential backoff capped at 30s.
func (c *RefundConsumer) Start(ctx context.Context) error {
	log := c.logger()
	backoff := time.Second
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		conn, err := amqp.Dial(c.URL)
		if err != nil {
			log.WithError(err).Warnf("refund-consumer: dial failed; retrying in %s", backoff)
			if !sleepCtx(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = c.consumeLoop(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.WithError(err).Warn("refund-consumer: consume loop ended; reconnecting")
		if !sleepCtx(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func (c *RefundConsumer) consumeLoop(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(10, 0, false); err != nil {
		c.logger().WithError(err).Warn("refund-consumer: set QoS failed")
	}
	if _, err := ch.QueueDeclare(RefundApprovedQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(RefundApprovedQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			c.settle(ctx, d)
		}
	}
}

func (c *RefundConsumer) settle(ctx context.Context, d amqp.Delivery) {
	err := c.HandleMessage(ctx, d.Body)
	switch {
	case err == nil:
		_ = d.Ack(false)
	case errors.Is(err, ErrRetryLater):
		c.logger().WithError(err).Info("refund-consumer: requeueing message")
		sleepCtx(ctx, time.Second)
		_ = d.Nack(false, true)
	default:
		// Reject without requeue to avoid tight loops; the next full sync
		// picks the refund up anyway.
		c.logger().WithError(err).Error("refund-consumer: handle message failed")
		_ = d.Nack(false, false)
	}
}

// HandleMessage decodes one message body and runs the handler.
func (c *RefundConsumer) HandleMessage(ctx context.Context, body []byte) error {
	var ev RefundApprovedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if _, err := utils.ParseDate(ev.BookingDate); err != nil {
		return fmt.Errorf("booking %d: %w", ev.BookingID, err)
	}
	return c.Handler(ctx, ev)
}

func (c *RefundConsumer) logger() logrus.FieldLogger {
	if c.Log == nil {
		return logrus.StandardLogger()
	}
	return c.Log
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
