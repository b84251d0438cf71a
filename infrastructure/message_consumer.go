package infrastructure

import (
	"context"
	"fmt"
	"sort"
	"sync"

	log "github.com/sirupsen/logrus"
)

// MessageHandler defines a function that handles raw message bytes
type MessageHandler func(ctx context.Context, data []byte) error

// DurableSubscriber is the part of NATSClient the consumer needs
type DurableSubscriber interface {
	Subscribe(subject string, handler func([]byte) error) error
}

// ReceiveMetrics counts messages taken off NATS
type ReceiveMetrics interface {
	RecordNATSMessageReceived(subject string)
}

// MessageConsumer routes messages from durable subscriptions to handlers
type MessageConsumer struct {
	subscriber DurableSubscriber
	metrics    ReceiveMetrics
	handlers   map[string]MessageHandler
	mu         sync.RWMutex
}

// NewMessageConsumer creates a new message consumer. metrics may be nil.
func NewMessageConsumer(subscriber DurableSubscriber, metrics ReceiveMetrics) *MessageConsumer {
	return &MessageConsumer{
		subscriber: subscriber,
		metrics:    metrics,
		handlers:   make(map[string]MessageHandler),
	}
}

// RegisterHandler registers a handler for a specific subject
func (mc *MessageConsumer) RegisterHandler(subject string, handler MessageHandler) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	mc.handlers[subject] = handler
	log.WithField("subject", subject).Info("Registered message handler")
}

// Start subscribes to every registered subject. Message handling uses ctx,
// so cancelling it aborts in-flight work.
func (mc *MessageConsumer) Start(ctx context.Context) error {
	mc.mu.RLock()
	subjects := make([]string, 0, len(mc.handlers))
	for subject := range mc.handlers {
		subjects = append(subjects, subject)
	}
	mc.mu.RUnlock()
	sort.Strings(subjects)

	for _, subject := range subjects {
		if err := mc.subscribe(ctx, subject); err != nil {
			return fmt.Errorf("failed to subscribe to %s: %w", subject, err)
		}
	}

	log.WithField("subjects", subjects).Info("Message consumer started")
	return nil
}

func (mc *MessageConsumer) subscribe(ctx context.Context, subject string) error {
	return mc.subscriber.Subscribe(subject, func(data []byte) error {
		return mc.dispatch(ctx, subject, data)
	})
}

func (mc *MessageConsumer) dispatch(ctx context.Context, subject string, data []byte) error {
	mc.mu.RLock()
	handler, exists := mc.handlers[subject]
	mc.mu.RUnlock()

	if !exists {
		return fmt.Errorf("no handler registered for subject: %s", subject)
	}

	if mc.metrics != nil {
		mc.metrics.RecordNATSMessageReceived(subject)
	}

	if err := handler(ctx, data); err != nil {
		log.WithFields(log.Fields{
			"subject": subject,
			"error":   err,
		}).Error("Failed to handle message")
		return err
	}
	return nil
}
