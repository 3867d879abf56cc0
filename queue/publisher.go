package queue

import (
	"context"

	amqp "github.com/rabbitmq/amqp091-go"
)

type Publisher interface {
	Publish(ctx context.Context, body []byte) error
	Close() error
}

type publisher struct {
	ch     *amqp.Channel
	config PublishConfig
}

func NewPublisher(ch *amqp.Channel, config PublishConfig) Publisher {
	return &publisher{ch, config}
}

// Publish sends body to the configured exchange and routing key.
func (p *publisher) Publish(ctx context.Context, body []byte) error {
	return p.ch.PublishWithContext(
		ctx,
		p.config.Exchange,
		p.config.RoutingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  p.config.ContentType,
			DeliveryMode: p.config.DeliveryMode,
			Body:         body,
		},
	)
}

// Close closes the publisher's channel.
func (p *publisher) Close() error {
	return p.ch.Close()
}
