// Package amqp publishes and consumes transaction events over RabbitMQ.
// The queue feeds the mirror worker; the tracker itself never depends on
// the broker being up.
package amqp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"tally/internal/core"
)

type Client struct {
	conn         *amqp091.Connection
	channel      *amqp091.Channel
	exchangeName string
	queueName    string
}

func NewClient(url, exchangeName, queueName string) (*Client, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	client := &Client{
		conn:         conn,
		channel:      channel,
		exchangeName: exchangeName,
		queueName:    queueName,
	}

	if err := client.setup(); err != nil {
		client.Close()
		return nil, fmt.Errorf("setup exchange and queue: %w", err)
	}

	return client, nil
}

func (c *Client) setup() error {
	err := c.channel.ExchangeDeclare(
		c.exchangeName, // name
		"direct",       // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	_, err = c.channel.QueueDeclare(
		c.queueName, // name
		true,        // durable
		false,       // delete when unused
		false,       // exclusive
		false,       // no-wait
		nil,         // arguments
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	err = c.channel.QueueBind(
		c.queueName,    // queue name
		c.queueName,    // routing key (same as queue name for direct exchange)
		c.exchangeName, // exchange
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}

	return nil
}

// PublishTransactionSync enqueues a mirror request for a newly created
// transaction.
func (c *Client) PublishTransactionSync(ctx context.Context, id int64) error {
	body, err := encodeEnvelope(TypeTransactionSync, NewTransactionSyncMessage(id))
	if err != nil {
		return err
	}
	if err := c.publish(ctx, body); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Published transaction sync message",
		"id", id,
		"exchange", c.exchangeName,
		"queue", c.queueName)
	return nil
}

// PublishTransactionDelete enqueues removal of a mirrored row for a
// transaction that was just deleted locally.
func (c *Client) PublishTransactionDelete(ctx context.Context, t core.Transaction) error {
	msg := &TransactionDeleteMessage{
		ID:          t.ID,
		Date:        t.Date.String(),
		Kind:        string(t.Kind),
		Category:    t.Category,
		AmountCents: t.Amount.Cents,
		Timestamp:   time.Now(),
	}
	body, err := encodeEnvelope(TypeTransactionDelete, msg)
	if err != nil {
		return err
	}
	if err := c.publish(ctx, body); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Published transaction delete message",
		"id", t.ID,
		"exchange", c.exchangeName,
		"queue", c.queueName)
	return nil
}

func (c *Client) publish(ctx context.Context, body []byte) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := c.channel.PublishWithContext(
		ctx,
		c.exchangeName, // exchange
		c.queueName,    // routing key
		false,          // mandatory
		false,          // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}
	return nil
}

// ConsumeMessages reads the queue until the context is cancelled,
// dispatching each envelope to the matching handler. Messages are acked
// only after the handler succeeds; handler failures are requeued,
// undecodable messages are dropped.
func (c *Client) ConsumeMessages(
	ctx context.Context,
	onSync func(context.Context, *TransactionSyncMessage) error,
	onDelete func(context.Context, *TransactionDeleteMessage) error,
) error {
	msgs, err := c.channel.Consume(
		c.queueName, // queue
		"",          // consumer
		false,       // auto-ack (we want manual ack)
		false,       // exclusive
		false,       // no-local
		false,       // no-wait
		nil,         // args
	)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	slog.InfoContext(ctx, "Started consuming transaction messages", "queue", c.queueName)

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Stopping message consumption", "reason", ctx.Err())
			return ctx.Err()
		case delivery, ok := <-msgs:
			if !ok {
				return fmt.Errorf("message channel closed")
			}
			if err := c.dispatch(ctx, delivery.Body, onSync, onDelete); err != nil {
				slog.ErrorContext(ctx, "Failed to handle message", "error", err)
				delivery.Nack(false, !isDecodeError(err)) // requeue handler failures only
				continue
			}
			delivery.Ack(false)
		}
	}
}

type decodeError struct{ err error }

func (e decodeError) Error() string { return e.err.Error() }
func (e decodeError) Unwrap() error { return e.err }

func isDecodeError(err error) bool {
	_, ok := err.(decodeError)
	return ok
}

func (c *Client) dispatch(
	ctx context.Context,
	body []byte,
	onSync func(context.Context, *TransactionSyncMessage) error,
	onDelete func(context.Context, *TransactionDeleteMessage) error,
) error {
	env, err := decodeEnvelope(body)
	if err != nil {
		return decodeError{err}
	}

	switch env.Type {
	case TypeTransactionSync:
		var msg TransactionSyncMessage
		if err := json.Unmarshal(env.Payload, &msg); err != nil {
			return decodeError{fmt.Errorf("unmarshal sync payload: %w", err)}
		}
		return onSync(ctx, &msg)
	case TypeTransactionDelete:
		var msg TransactionDeleteMessage
		if err := json.Unmarshal(env.Payload, &msg); err != nil {
			return decodeError{fmt.Errorf("unmarshal delete payload: %w", err)}
		}
		return onDelete(ctx, &msg)
	default:
		return decodeError{fmt.Errorf("unknown message type %q", env.Type)}
	}
}

func (c *Client) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
