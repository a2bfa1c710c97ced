package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// PurgeFunc drops cached public responses.
type PurgeFunc func(ctx context.Context) (int, error)

// Consumer appends submissions to <LogDir>/submissions.log and purges the
// response cache on content changes.
type Consumer struct {
	URL    string
	LogDir string
	Purge  PurgeFunc
	Log    *zap.Logger

	mu sync.Mutex // serializes log file appends
}

// Run keeps a broker connection open until ctx is cancelled, reconnecting
// with exponential backoff (1s doubling up to 30s).
func (c *Consumer) Run(ctx context.Context) error {
	if c.Log == nil {
		c.Log = zap.NewNop()
	}
	backoff := time.Second
	for {
		conn, err := amqp.Dial(c.URL)
		if err != nil {
			c.Log.Warn("consumer: dial failed", zap.Error(err), zap.Duration("retry_in", backoff))
			if !sleep(ctx, backoff) {
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
		c.Log.Warn("consumer: consume loop ended, reconnecting", zap.Error(err))
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func (c *Consumer) consumeLoop(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		c.Log.Warn("consumer: set QoS failed", zap.Error(err))
	}

	handlers := map[string]func(context.Context, []byte) error{
		SubmissionQueue: c.handleSubmission,
		ContentQueue:    c.handleContentChanged,
	}
	type delivery struct {
		queue string
		amqp.Delivery
	}
	merged := make(chan delivery)
	var wg sync.WaitGroup
	for name := range handlers {
		if _, err := ch.QueueDeclare(name, true, false, false, false, nil); err != nil {
			return fmt.Errorf("queue declare %s: %w", name, err)
		}
		msgs, err := ch.Consume(name, "", false, false, false, false, nil)
		if err != nil {
			return fmt.Errorf("queue consume %s: %w", name, err)
		}
		wg.Add(1)
		go func(name string, msgs <-chan amqp.Delivery) {
			defer wg.Done()
			for d := range msgs {
				select {
				case merged <- delivery{queue: name, Delivery: d}:
				case <-ctx.Done():
					return
				}
			}
		}(name, msgs)
	}
	go func() { wg.Wait(); close(merged) }()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-merged:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := handlers[d.queue](ctx, d.Body); err != nil {
				c.Log.Error("consumer: handle message failed", zap.String("queue", d.queue), zap.Error(err))
				_ = d.Nack(false, false) // reject without requeue to avoid tight loops
				continue
			}
			_ = d.Ack(false)
		}
	}
}

func (c *Consumer) handleSubmission(_ context.Context, body []byte) error {
	var ev SubmissionReceivedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	dir := c.LogDir
	if dir == "" {
		dir = "logs"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	f, err := os.OpenFile(filepath.Join(dir, "submissions.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	line := fmt.Sprintf("[%s] %s received | name=%q | email=%q | email_sent=%t | message=%q\n",
		ev.ReceivedAt, kindLabel(ev.Kind), ev.Name, ev.Email, ev.EmailSent, ev.Message)
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}

func kindLabel(kind string) string {
	if kind == "" {
		return "Submission"
	}
	return strings.ToUpper(kind[:1]) + kind[1:]
}

func (c *Consumer) handleContentChanged(ctx context.Context, body []byte) error {
	var ev ContentChangedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if c.Purge == nil {
		return nil
	}
	n, err := c.Purge(ctx)
	if err != nil {
		return fmt.Errorf("purge cache: %w", err)
	}
	c.Log.Debug("consumer: cache purged", zap.String("table", ev.Table), zap.String("action", ev.Action), zap.Int("keys", n))
	return nil
}
