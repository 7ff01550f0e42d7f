// Package queue carries confirmation email jobs over RabbitMQ.
package queue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// MaxAttempts bounds how many times one message is handled before it is dropped.
const MaxAttempts = 5

const attemptsHeader = "x-attempts"

// Client owns one AMQP connection and channel bound to a durable direct exchange and queue.
type Client struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	queue    string
	logger   *slog.Logger
}

// NewClient dials url and declares exchange, queue, and their binding.
func NewClient(url, exchange, queue string, logger *slog.Logger) (*Client, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open rabbitmq channel: %w", err)
	}
	c := &Client{conn: conn, channel: ch, exchange: exchange, queue: queue, logger: logger}

	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeDirect, true, false, false, false, nil); err != nil {
		c.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		c.Close()
		return nil, fmt.Errorf("declare queue %s: %w", queue, err)
	}
	if err := ch.QueueBind(queue, queue, exchange, false, nil); err != nil {
		c.Close()
		return nil, fmt.Errorf("bind queue %s: %w", queue, err)
	}
	if err := ch.Qos(10, 0, false); err != nil {
		c.Close()
		return nil, fmt.Errorf("set qos: %w", err)
	}

	logger.Info("rabbitmq initialized", "exchange", exchange, "queue", queue)
	return c, nil
}

// Publish sends a persistent JSON message routed to the client's queue.
func (c *Client) Publish(ctx context.Context, body []byte) error {
	return c.publish(ctx, body, nil)
}

func (c *Client) publish(ctx context.Context, body []byte, headers amqp.Table) error {
	err := c.channel.PublishWithContext(ctx, c.exchange, c.queue, false, false, amqp.Publishing{
		Headers:      headers,
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish to %s: %w", c.exchange, err)
	}
	return nil
}

// Consume delivers messages to handler until ctx is cancelled or the channel closes.
// Success acks the message. A handler error republishes it to the back of the queue
// with its attempt count raised, until MaxAttempts is reached and it is dropped.
func (c *Client) Consume(ctx context.Context, handler func(context.Context, []byte) error) error {
	msgs, err := c.channel.ConsumeWithContext(ctx, c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", c.queue, err)
	}
	c.logger.Info("consuming", "queue", c.queue)
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return fmt.Errorf("rabbitmq delivery channel closed")
			}
			if err := handler(ctx, d.Body); err != nil {
				c.retry(ctx, d, err)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

func (c *Client) retry(ctx context.Context, d amqp.Delivery, handlerErr error) {
	attempt, again := nextAttempt(d.Headers, MaxAttempts)
	if !again {
		c.logger.Error("dropping message after repeated failures", "queue", c.queue, "attempts", attempt, "err", handlerErr)
		// Dead-letters when the queue has a DLX configured.
		_ = d.Nack(false, false)
		return
	}
	c.logger.Warn("failed to process message, retrying", "queue", c.queue, "attempt", attempt, "err", handlerErr)
	if err := c.publish(ctx, d.Body, amqp.Table{attemptsHeader: int32(attempt)}); err != nil {
		c.logger.Warn("republish failed, requeueing", "queue", c.queue, "err", err)
		_ = d.Nack(false, true)
		return
	}
	_ = d.Ack(false)
}

// nextAttempt returns the number of the attempt that just failed and whether another is allowed.
func nextAttempt(headers amqp.Table, maxAttempts int) (int, bool) {
	done := 0
	switch v := headers[attemptsHeader].(type) {
	case int32:
		done = int(v)
	case int64:
		done = int(v)
	case int:
		done = v
	}
	attempt := done + 1
	return attempt, attempt < maxAttempts
}

// Close closes the channel and connection.
func (c *Client) Close() {
	if c.channel != nil {
		_ = c.channel.Close()
	}
	if c.conn != nil {
		_ = c.conn.Close()
	}
}
