package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"campusledger/internal/logger"
)

const publishTimeout = 5 * time.Second

// AMQPNotifier publishes ledger events to a durable direct exchange, one
// routing key per event type.
type AMQPNotifier struct {
	conn     *amqp091.Connection
	channel  *amqp091.Channel
	exchange string
	queue    string
}

// NewAMQPNotifier dials the broker and declares the exchange, queue and
// binding. Declarations are idempotent, so concurrent service instances can
// share a topology.
func NewAMQPNotifier(url, exchange, queue string) (*AMQPNotifier, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	n := &AMQPNotifier{
		conn:     conn,
		channel:  channel,
		exchange: exchange,
		queue:    queue,
	}

	if err := n.setup(); err != nil {
		n.Close()
		return nil, fmt.Errorf("setup exchange and queue: %w", err)
	}

	return n, nil
}

func (n *AMQPNotifier) setup() error {
	err := n.channel.ExchangeDeclare(
		n.exchange, // name
		"direct",   // type
		true,       // durable
		false,      // auto-deleted
		false,      // internal
		false,      // no-wait
		nil,        // arguments
	)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	_, err = n.channel.QueueDeclare(
		n.queue, // name
		true,    // durable
		false,   // delete when unused
		false,   // exclusive
		false,   // no-wait
		nil,     // arguments
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	err = n.channel.QueueBind(
		n.queue,    // queue name
		n.queue,    // routing key (same as queue name for direct exchange)
		n.exchange, // exchange
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}

	return nil
}

func (n *AMQPNotifier) publish(ctx context.Context, body []byte) error {
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	return n.channel.PublishWithContext(
		ctx,
		n.exchange, // exchange
		n.queue,    // routing key
		false,      // mandatory
		false,      // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
}

// PublishRecurringMaterialized publishes a recurring-charge event.
func (n *AMQPNotifier) PublishRecurringMaterialized(ctx context.Context, event RecurringMaterializedEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := n.publish(ctx, body); err != nil {
		return fmt.Errorf("publish recurring event: %w", err)
	}
	logger.Get().Infow("published recurring charge event",
		"event_id", event.EventID,
		"user_id", event.UserID,
		"transaction_id", event.TransactionID,
	)
	return nil
}

// PublishBudgetAlert publishes a budget alert event.
func (n *AMQPNotifier) PublishBudgetAlert(ctx context.Context, event BudgetAlertEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := n.publish(ctx, body); err != nil {
		return fmt.Errorf("publish budget alert: %w", err)
	}
	logger.Get().Infow("published budget alert",
		"event_id", event.EventID,
		"user_id", event.UserID,
		"budget_id", event.BudgetID,
		"percentage_spent", event.PercentageSpent,
	)
	return nil
}

// Close releases the channel and connection.
func (n *AMQPNotifier) Close() error {
	if n.channel != nil {
		n.channel.Close()
	}
	if n.conn != nil {
		return n.conn.Close()
	}
	return nil
}
