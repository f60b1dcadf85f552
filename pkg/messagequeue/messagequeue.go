package messagequeue

import "context"

// ExchangeName is the topic exchange domain events are published to.
const ExchangeName = "revuverse.events"

// Publisher defines the interface for publishing events to a message broker.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, body []byte) error
	Close() error
}
