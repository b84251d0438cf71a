package interfaces

import "context"

// UnitOfWork groups guild-scoped repositories behind one database transaction
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction and flushes buffered events
	Commit() error

	// Rollback rolls back the transaction and discards buffered events.
	// Safe to call after Commit.
	Rollback() error

	GuildRepository() GuildRepository
	MemberRepository() MemberRepository
	TransactionRepository() TransactionRepository
	RoleMultiplierRepository() RoleMultiplierRepository
	RewardRepository() RewardRepository
	RedemptionRepository() RedemptionRepository
	ActionPointRepository() ActionPointRepository
	QuestRepository() QuestRepository
	WalletRepository() WalletRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	// CreateForGuild creates a new UnitOfWork scoped to a specific guild
	CreateForGuild(guildID int64) UnitOfWork
}
