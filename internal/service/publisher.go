// Package service publishes domain events to RabbitMQ.  Publishing is
// best-effort: errors are logged and returned so callers can ignore them
// without interrupting the request.
package service

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	q "github.com/iliyamo/studio-site/internal/queue"
)

// Publisher sends events to durable queues on the default exchange.  A
// disabled Publisher drops every event.
type Publisher struct {
	url     string
	enabled bool
	log     *zap.Logger
}

func NewPublisher(url string, enabled bool, log *zap.Logger) *Publisher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Publisher{url: url, enabled: enabled, log: log}
}

// SubmissionReceived publishes to the submission.received queue.
func (p *Publisher) SubmissionReceived(ctx context.Context, ev q.SubmissionReceivedEvent) error {
	if ev.ReceivedAt == "" {
		ev.ReceivedAt = time.Now().UTC().Format(time.RFC3339)
	}
	return p.publish(ctx, q.SubmissionQueue, ev)
}

// ContentChanged publishes to the content.changed queue.
func (p *Publisher) ContentChanged(ctx context.Context, ev q.ContentChangedEvent) error {
	if ev.ChangedAt == "" {
		ev.ChangedAt = time.Now().UTC().Format(time.RFC3339)
	}
	return p.publish(ctx, q.ContentQueue, ev)
}

// publish dials per message; event volume is a handful per admin save.
func (p *Publisher) publish(ctx context.Context, queue string, event any) error {
	if p == nil || !p.enabled {
		return nil
	}
	body, err := json.Marshal(event)
	if err != nil {
		p.log.Error("rabbitmq: marshal event failed", zap.String("queue", queue), zap.Error(err))
		return err
	}

	conn, err := amqp.Dial(p.url)
	if err != nil {
		p.log.Warn("rabbitmq: dial failed", zap.String("queue", queue), zap.Error(err))
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.log.Warn("rabbitmq: channel open failed", zap.Error(err))
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		p.log.Warn("rabbitmq: queue declare failed", zap.String("queue", queue), zap.Error(err))
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", queue, false, false, pub); err != nil {
		p.log.Warn("rabbitmq: publish failed", zap.String("queue", queue), zap.Error(err))
		return err
	}
	return nil
}
