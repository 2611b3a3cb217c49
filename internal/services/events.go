package services

import (
	"context"
	"log"
)

// EventPublisher delivers domain events to a message broker.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, event interface{}) error
}

// publish sends event if a publisher is configured. Broker failures never
// fail the calling operation.
func publish(ctx context.Context, p EventPublisher, routingKey string, event interface{}) {
	if p == nil {
		log.Printf("No event publisher configured. Skipping %s event.", routingKey)
		return
	}
	if err := p.Publish(ctx, routingKey, event); err != nil {
		log.Printf("Warning: Failed to publish %s event: %v", routingKey, err)
		return
	}
	log.Printf("Successfully published %s event", routingKey)
}
