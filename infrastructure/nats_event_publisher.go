package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"pointsbot/domain/events"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const sourceService = "pointsbot"

// EventEnvelope wraps every event published to NATS
type EventEnvelope struct {
	EventID        string          `json:"eventId"`
	EventType      string          `json:"eventType"`
	Timestamp      time.Time       `json:"timestamp"`
	SourceService  string          `json:"sourceService"`
	SourceInstance string          `json:"sourceInstance"`
	Payload        json.RawMessage `json:"payload"`
}

// PublishMetrics counts events handed to NATS
type PublishMetrics interface {
	RecordNATSMessagePublished(eventType string)
}

// LocalEventHandler handles an event inside the publishing process
type LocalEventHandler func(ctx context.Context, event events.Event) error

// NATSEventPublisher publishes domain events to NATS and invokes local
// handlers. With a nil client only local handlers run.
type NATSEventPublisher struct {
	natsClient    *NATSClient
	subjectMapper *EventSubjectMapper
	metrics       PublishMetrics
	instanceID    string

	mu            sync.RWMutex
	localHandlers map[events.EventType][]LocalEventHandler
}

// NewNATSEventPublisher creates a new NATS event publisher. metrics may be nil.
func NewNATSEventPublisher(natsClient *NATSClient, subjectMapper *EventSubjectMapper, metrics PublishMetrics) *NATSEventPublisher {
	return &NATSEventPublisher{
		natsClient:    natsClient,
		subjectMapper: subjectMapper,
		metrics:       metrics,
		instanceID:    uuid.NewString(),
		localHandlers: make(map[events.EventType][]LocalEventHandler),
	}
}

// InstanceID identifies this process in published envelopes
func (p *NATSEventPublisher) InstanceID() string {
	return p.instanceID
}

// Publish runs local handlers for the event, then publishes it to NATS
func (p *NATSEventPublisher) Publish(event events.Event) error {
	ctx := context.Background()
	eventType := event.Type()

	p.mu.RLock()
	handlers := p.localHandlers[eventType]
	p.mu.RUnlock()

	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			// local handler failures never block delivery
			log.WithFields(log.Fields{
				"eventType": eventType,
				"error":     err,
			}).Error("Local event handler failed")
		}
	}

	if p.natsClient == nil {
		return nil
	}

	envelope, err := p.newEnvelope(event)
	if err != nil {
		return err
	}

	data, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal event envelope: %w", err)
	}

	subject := p.subjectMapper.MapEventToSubject(event)
	if err := p.natsClient.Publish(ctx, subject, data); err != nil {
		if strings.Contains(err.Error(), "no response from stream") {
			log.WithField("subject", subject).Warn("No stream bound to subject, event dropped")
			return nil
		}
		return fmt.Errorf("failed to publish event to NATS: %w", err)
	}

	if p.metrics != nil {
		p.metrics.RecordNATSMessagePublished(string(eventType))
	}

	log.WithFields(log.Fields{
		"eventType": eventType,
		"eventId":   envelope.EventID,
		"subject":   subject,
	}).Debug("Published event to NATS")

	return nil
}

// RegisterLocalHandler registers a handler invoked in-process for eventType
func (p *NATSEventPublisher) RegisterLocalHandler(eventType events.EventType, handler LocalEventHandler) {
	p.mu.Lock()
	p.localHandlers[eventType] = append(p.localHandlers[eventType], handler)
	count := len(p.localHandlers[eventType])
	p.mu.Unlock()

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": count,
	}).Info("Registered local event handler")
}

// EnsurePointsStream creates the points stream covering every ledger subject
func (p *NATSEventPublisher) EnsurePointsStream() error {
	if p.natsClient == nil {
		return nil
	}
	return p.natsClient.EnsureStream(PointsStreamName, []string{"points.>"}, "Points ledger events and award requests")
}

func (p *NATSEventPublisher) newEnvelope(event events.Event) (*EventEnvelope, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event payload: %w", err)
	}
	return &EventEnvelope{
		EventID:        uuid.NewString(),
		EventType:      string(event.Type()),
		Timestamp:      time.Now().UTC(),
		SourceService:  sourceService,
		SourceInstance: p.instanceID,
		Payload:        payload,
	}, nil
}
