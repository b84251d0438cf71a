package infrastructure

import (
	"pointsbot/domain/events"
)

// NoopEventPublisher is an event publisher that does nothing.
// Admin commands use it so one-shot CLI runs don't emit events.
type NoopEventPublisher struct{}

// NewNoopEventPublisher creates a new no-op event publisher
func NewNoopEventPublisher() *NoopEventPublisher {
	return &NoopEventPublisher{}
}

// Publish does nothing with the event
func (n *NoopEventPublisher) Publish(event events.Event) error {
	return nil
}
