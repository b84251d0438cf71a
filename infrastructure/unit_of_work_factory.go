package infrastructure

import (
	"pointsbot/database"
	"pointsbot/domain/events"
	"pointsbot/domain/interfaces"
	"pointsbot/repository"
)

// UnitOfWorkFactory creates units of work whose events are published
// through eventPublisher once the database transaction commits
type UnitOfWorkFactory struct {
	repoFactory    *repository.UnitOfWorkFactory
	eventPublisher interfaces.EventPublisher
}

// NewUnitOfWorkFactory creates a new UnitOfWorkFactory
func NewUnitOfWorkFactory(db *database.DB, eventPublisher interfaces.EventPublisher) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{
		repoFactory:    repository.NewUnitOfWorkFactory(db),
		eventPublisher: eventPublisher,
	}
}

// RegisterLocalHandler registers an in-process handler when the underlying
// publisher supports it
func (f *UnitOfWorkFactory) RegisterLocalHandler(eventType events.EventType, handler LocalEventHandler) {
	if natsPublisher, ok := f.eventPublisher.(*NATSEventPublisher); ok {
		natsPublisher.RegisterLocalHandler(eventType, handler)
	}
}

// CreateForGuild creates a new UnitOfWork with its own transactional publisher
func (f *UnitOfWorkFactory) CreateForGuild(guildID int64) interfaces.UnitOfWork {
	return f.repoFactory.CreateForGuildWithPublisher(guildID, NewTransactionalPublisher(f.eventPublisher))
}
