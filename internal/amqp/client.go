package amqp

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

// Client publishes and consumes kassa messages over one direct exchange
// with two bound queues: transaction exports and bill-due reminders.
type Client struct {
	conn          *amqp091.Connection
	channel       *amqp091.Channel
	exchangeName  string
	exportQueue   string
	reminderQueue string
}

func NewClient(url, exchangeName, exportQueue string) (*Client, error) {
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
		conn:          conn,
		channel:       channel,
		exchangeName:  exchangeName,
		exportQueue:   exportQueue,
		reminderQueue: exportQueue + "_reminders",
	}

	if err := client.setup(); err != nil {
		client.Close()
		return nil, fmt.Errorf("setup exchange and queues: %w", err)
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

	for _, queue := range []string{c.exportQueue, c.reminderQueue} {
		_, err = c.channel.QueueDeclare(
			queue, // name
			true,  // durable
			false, // delete when unused
			false, // exclusive
			false, // no-wait
			nil,   // arguments
		)
		if err != nil {
			return fmt.Errorf("declare queue %s: %w", queue, err)
		}

		// Routing key matches the queue name on a direct exchange.
		if err := c.channel.QueueBind(queue, queue, c.exchangeName, false, nil); err != nil {
			return fmt.Errorf("bind queue %s: %w", queue, err)
		}
	}

	return nil
}

// PublishTransactionCreated publishes a transaction-export message.
func (c *Client) PublishTransactionCreated(ctx context.Context, msg *TransactionCreatedMessage) error {
	body, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	if err := c.publish(ctx, c.exportQueue, body); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Published transaction export message",
		"transaction_id", msg.TransactionID,
		"board_id", msg.BoardID,
		"queue", c.exportQueue)
	return nil
}

// PublishBillDue publishes a bill-due reminder message.
func (c *Client) PublishBillDue(ctx context.Context, msg *BillDueMessage) error {
	body, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	if err := c.publish(ctx, c.reminderQueue, body); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Published bill due message",
		"bill_id", msg.BillID,
		"due_date", msg.DueDate.Format(time.RFC3339),
		"queue", c.reminderQueue)
	return nil
}

func (c *Client) publish(ctx context.Context, routingKey string, body []byte) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := c.channel.PublishWithContext(
		ctx,
		c.exchangeName, // exchange
		routingKey,     // routing key
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

// ConsumeTransactions consumes transaction-export messages until the
// context is cancelled, acking on success and requeueing on handler error.
func (c *Client) ConsumeTransactions(ctx context.Context, handler func(context.Context, *TransactionCreatedMessage) error) error {
	msgs, err := c.channel.Consume(
		c.exportQueue, // queue
		"",            // consumer
		false,         // auto-ack (we want manual ack)
		false,         // exclusive
		false,         // no-local
		false,         // no-wait
		nil,           // args
	)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	slog.InfoContext(ctx, "Started consuming transaction export messages", "queue", c.exportQueue)

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Stopping message consumption", "reason", ctx.Err())
			return ctx.Err()
		case delivery, ok := <-msgs:
			if !ok {
				return fmt.Errorf("message channel closed")
			}

			msg, err := TransactionCreatedMessageFromJSON(delivery.Body)
			if err != nil {
				slog.ErrorContext(ctx, "Failed to unmarshal message", "error", err)
				delivery.Nack(false, false) // reject and don't requeue
				continue
			}

			if err := handler(ctx, msg); err != nil {
				slog.ErrorContext(ctx, "Failed to handle message",
					"error", err,
					"transaction_id", msg.TransactionID)
				delivery.Nack(false, true) // reject and requeue
				continue
			}

			delivery.Ack(false)
			slog.InfoContext(ctx, "Processed transaction export message",
				"transaction_id", msg.TransactionID)
		}
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
