package queue

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

type Connection struct {
	Conn *amqp.Connection
	Ch   *amqp.Channel
}

// NewConnection dials the broker, opens a channel and declares the configured queue.
func NewConnection(config ConnectionConfig) (*Connection, error) {
	conn, err := amqp.Dial(config.URI)
	if err != nil {
		return nil, fmt.Errorf("failed to dial amqp: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open amqp channel: %w", err)
	}

	if q := config.QueueConfig; q != nil {
		if _, err = ch.QueueDeclare(q.Name, q.Durable, q.AutoDelete, q.Exclusive, q.NoWait, q.Args); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("failed to declare queue %s: %w", q.Name, err)
		}
	}

	return &Connection{conn, ch}, nil
}

func (c *Connection) Close() error {
	return c.Conn.Close()
}
