package infrastructure

import (
	"fmt"

	"pointsbot/domain/events"
)

// Subjects on the points stream
const (
	PointsStreamName          = "points"
	SubjectPointsAwarded      = "points.awarded"
	SubjectRewardRedeemed     = "points.redeemed"
	SubjectMultipliersChanged = "points.multipliers_changed"
	SubjectAwardRequests      = "points.award.requests"
)

// EventSubjectMapper handles mapping between domain events and NATS subjects
type EventSubjectMapper struct{}

// NewEventSubjectMapper creates a new event subject mapper
func NewEventSubjectMapper() *EventSubjectMapper {
	return &EventSubjectMapper{}
}

// MapEventToSubject converts a domain event to its NATS subject
func (m *EventSubjectMapper) MapEventToSubject(event events.Event) string {
	switch event.Type() {
	case events.EventTypePointsAwarded:
		return SubjectPointsAwarded
	case events.EventTypeRewardRedeemed:
		return SubjectRewardRedeemed
	case events.EventTypeRoleMultipliersChanged:
		return SubjectMultipliersChanged
	default:
		return fmt.Sprintf("points.unknown.%s", event.Type())
	}
}

// MapSubjectToEventType converts a NATS subject back to an event type
func (m *EventSubjectMapper) MapSubjectToEventType(subject string) events.EventType {
	switch subject {
	case SubjectPointsAwarded:
		return events.EventTypePointsAwarded
	case SubjectRewardRedeemed:
		return events.EventTypeRewardRedeemed
	case SubjectMultipliersChanged:
		return events.EventTypeRoleMultipliersChanged
	default:
		return events.EventType(subject)
	}
}

// GetAllSubjects returns every subject stored on the points stream
func (m *EventSubjectMapper) GetAllSubjects() []string {
	return []string{
		SubjectPointsAwarded,
		SubjectRewardRedeemed,
		SubjectMultipliersChanged,
		SubjectAwardRequests,
	}
}
