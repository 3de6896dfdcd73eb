package service

// queue_publisher.go publishes engine events to RabbitMQ.  Errors are
// logged and returned so callers can decide to carry on without them.

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/theatre-backoffice/internal/model"
	q "github.com/iliyamo/theatre-backoffice/internal/queue"
)

// Publisher sends events to the broker at url.  A connection is opened per
// publish; alert volume is a handful of messages a day.
type Publisher struct {
	url string
	log logrus.FieldLogger
}

// NewPublisher returns a Publisher for the given AMQP url.
func NewPublisher(url string, log logrus.FieldLogger) *Publisher {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Publisher{url: url, log: log.WithField("module", "publisher")}
}

// PublishNotificationCreated publishes a NotificationCreatedEvent to the
// notification.created queue.  Messages are persistent.
func (p *Publisher) PublishNotificationCreated(ctx context.Context, n model.Notification) error {
	return p.publish(ctx, q.NotificationCreatedQueue, q.NewNotificationCreatedEvent(n))
}

func (p *Publisher) publish(ctx context.Context, queue string, event any) error {
	log := p.log.WithField("queue", queue)
	conn, err := amqp.Dial(p.url)
	if err != nil {
		log.WithError(err).Warn("rabbitmq: dial failed")
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.WithError(err).Warn("rabbitmq: channel open failed")
		return err
	}
	defer func() { _ = ch.Close() }()

	// Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		log.WithError(err).Warn("rabbitmq: queue declare failed")
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		log.WithError(err).Warn("rabbitmq: marshal event failed")
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", queue, false, false, pub); err != nil {
		log.WithError(err).Warn("rabbitmq: publish failed")
		return err
	}
	return nil
}
