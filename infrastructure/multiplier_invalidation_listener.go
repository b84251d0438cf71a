package infrastructure

import (
	"encoding/json"

	"pointsbot/domain/events"
	"pointsbot/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// BroadcastSubscriber is the part of NATSClient the listener needs
type BroadcastSubscriber interface {
	SubscribeBroadcast(subject string, handler func([]byte)) error
}

// MultiplierInvalidationListener drops cached multiplier tables when another
// instance changes a guild's role multipliers
type MultiplierInvalidationListener struct {
	cache      interfaces.MultiplierCache
	instanceID string
}

// NewMultiplierInvalidationListener creates a listener that ignores
// envelopes published by instanceID
func NewMultiplierInvalidationListener(cache interfaces.MultiplierCache, instanceID string) *MultiplierInvalidationListener {
	return &MultiplierInvalidationListener{
		cache:      cache,
		instanceID: instanceID,
	}
}

// Subscribe attaches the listener to the multiplier change subject
func (l *MultiplierInvalidationListener) Subscribe(subscriber BroadcastSubscriber) error {
	return subscriber.SubscribeBroadcast(SubjectMultipliersChanged, l.HandleMessage)
}

// HandleMessage decodes one change envelope and invalidates the guild
func (l *MultiplierInvalidationListener) HandleMessage(data []byte) {
	var envelope EventEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		log.WithError(err).Warn("Dropping malformed multiplier change envelope")
		return
	}
	if envelope.SourceInstance == l.instanceID {
		return
	}

	var event events.RoleMultipliersChangedEvent
	if err := json.Unmarshal(envelope.Payload, &event); err != nil {
		log.WithFields(log.Fields{
			"eventId": envelope.EventID,
			"error":   err,
		}).Warn("Dropping malformed multiplier change payload")
		return
	}

	l.cache.Invalidate(event.GuildID)

	log.WithFields(log.Fields{
		"guildID":        event.GuildID,
		"roleID":         event.RoleID,
		"sourceInstance": envelope.SourceInstance,
	}).Debug("Invalidated role multiplier cache")
}
