package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rma010101/ecommerce-fullstack/internal/usecase"
)

const (
	exchangeName         = "order.events"
	createdRoutingKey    = "order.created"
	statusRoutingKey     = "order.status_changed"
	createdQueueName     = "order.created.q"
	statusChangedQueueNm = "order.status_changed.q"
)

// RabbitProducer implements usecase.EventPublisher.
type RabbitProducer struct {
	ch *amqp.Channel
}

// NewRabbitProducer sets up the exchange, queues, and bindings once at
// startup.
func NewRabbitProducer(ch *amqp.Channel) (*RabbitProducer, error) {
	if err := ch.ExchangeDeclare(
		exchangeName,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	for queueName, routingKey := range map[string]string{
		createdQueueName:     createdRoutingKey,
		statusChangedQueueNm: statusRoutingKey,
	} {
		q, err := ch.QueueDeclare(
			queueName,
			true,  // durable
			false, // auto-delete
			false, // exclusive
			false, // no-wait
			nil,
		)
		if err != nil {
			return nil, fmt.Errorf("declare queue %s: %w", queueName, err)
		}
		if err := ch.QueueBind(q.Name, routingKey, exchangeName, false, nil); err != nil {
			return nil, fmt.Errorf("bind queue %s: %w", queueName, err)
		}
	}

	if err := ch.Confirm(false); err != nil {
		return nil, fmt.Errorf("enable confirm mode: %w", err)
	}

	return &RabbitProducer{ch: ch}, nil
}

var _ usecase.EventPublisher = (*RabbitProducer)(nil)

func (p *RabbitProducer) PublishOrderCreated(ctx context.Context, msg usecase.OrderCreatedMsg) error {
	return p.publish(ctx, createdRoutingKey, msg)
}

func (p *RabbitProducer) PublishStatusChanged(ctx context.Context, msg usecase.OrderStatusChangedMsg) error {
	return p.publish(ctx, statusRoutingKey, msg)
}

func (p *RabbitProducer) publish(ctx context.Context, routingKey string, msg any) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent, // survive broker restarts
		Body:         body,
	}

	if err := p.ch.PublishWithContext(
		ctx,
		exchangeName,
		routingKey,
		false, // mandatory
		false, // immediate
		pub,
	); err != nil {
		return fmt.Errorf("publish %s: %w", routingKey, err)
	}
	return nil
}
