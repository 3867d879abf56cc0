package queue

type ConnectionConfig struct {
	// URI: The RabbitMQ connection URI, which includes the address, port, and authentication credentials if necessary
	URI string
	// QueueConfig: The queue declared on the channel before use. Nil skips the declaration.
	QueueConfig *Config
}

type Config struct {
	// Name: The name of the queue to be declared and used for message exchange.
	Name string
	// Durable: Indicates whether the queue should survive a broker restart.
	Durable bool
	// AutoDelete: Indicates whether the queue should be deleted when it is no longer in use.
	AutoDelete bool
	// Exclusive: Indicates whether the queue should be exclusive to the connection that declares it.
	Exclusive bool
	// NoWait: Indicates whether the queue declaration should not wait for a response from the server.
	NoWait bool
	// Args: Additional x- arguments for the declaration (x-message-ttl, x-max-length, x-queue-type...).
	Args map[string]interface{}
}

type PublishConfig struct {
	// Exchange: The name of the exchange to be used for message publishing. Empty is the default exchange.
	Exchange string
	// RoutingKey: The routing key; with the default exchange this is the queue name.
	RoutingKey string
	// ContentType: The MIME type of the message body, e.g. "application/json".
	ContentType string
	// DeliveryMode: amqp.Transient (1) or amqp.Persistent (2).
	DeliveryMode uint8
}
