package interfaces

import (
	"context"
	"time"

	"pointsbot/domain/entities"
	"pointsbot/domain/events"
)

// GuildRepository defines data access for tenants
type GuildRepository interface {
	// Ensure creates the scoped guild row if it does not exist
	Ensure(ctx context.Context) error

	// EnsureNamed is Ensure that also records the guild's display name.
	// An empty name keeps the stored one.
	EnsureNamed(ctx context.Context, name string) error

	// Get returns the scoped guild or nil if absent
	Get(ctx context.Context) (*entities.Guild, error)

	// ListIDs returns every known guild id
	ListIDs(ctx context.Context) ([]int64, error)
}

// MemberRepository defines data access for guild members and their balances
type MemberRepository interface {
	// Get returns the member or nil if absent
	Get(ctx context.Context, userID int64) (*entities.Member, error)

	// GetOrCreate returns the member, creating it with a zero balance if absent
	GetOrCreate(ctx context.Context, userID int64) (*entities.Member, error)

	// GetForUpdate returns the member and locks its row until the transaction ends
	GetForUpdate(ctx context.Context, userID int64) (*entities.Member, error)

	// AddToBalance atomically adds delta to the balance and returns the new balance
	AddToBalance(ctx context.Context, userID int64, delta int64) (int64, error)

	// TopByBalance returns members ordered by balance descending, user id ascending
	TopByBalance(ctx context.Context, limit int) ([]*entities.MemberPoints, error)
}

// TransactionRepository defines data access for the append-only ledger
type TransactionRepository interface {
	// Insert appends a transaction and sets its ID. Returns
	// domain.ErrDuplicateTransaction when the idempotency key already exists.
	Insert(ctx context.Context, tx *entities.PointsTransaction) error

	// ListRecentByUser returns the member's newest transactions first
	ListRecentByUser(ctx context.Context, userID int64, limit int) ([]*entities.PointsTransaction, error)

	// SumByUserSince returns per-member sums of total points since the given
	// time, ordered by points descending then user id ascending. Members whose
	// sum is <= 0 are excluded.
	SumByUserSince(ctx context.Context, since time.Time, limit int) ([]*entities.MemberPoints, error)

	// SumForUser returns the sum of total points over all of a member's transactions
	SumForUser(ctx context.Context, userID int64) (int64, error)
}

// RoleMultiplierRepository defines data access for role multiplier configuration
type RoleMultiplierRepository interface {
	// Upsert creates or replaces the multiplier for a role
	Upsert(ctx context.Context, roleID int64, multiplier entities.Multiplier) (*entities.RoleMultiplier, error)

	// Delete removes the multiplier for a role, returning false if none existed
	Delete(ctx context.Context, roleID int64) (bool, error)

	// List returns all multipliers configured for the guild
	List(ctx context.Context) ([]*entities.RoleMultiplier, error)
}

// RewardRepository defines data access for redeemable rewards
type RewardRepository interface {
	Create(ctx context.Context, reward *entities.Reward) error

	// GetByID returns the active reward or nil if absent or removed
	GetByID(ctx context.Context, id int64) (*entities.Reward, error)

	// List returns active rewards ordered by cost
	List(ctx context.Context) ([]*entities.Reward, error)

	// Remove hides the reward from future redemptions, returning false if it
	// was not active. Past redemptions keep referencing it.
	Remove(ctx context.Context, id int64) (bool, error)
}

// RedemptionRepository defines data access for the redemption audit trail
type RedemptionRepository interface {
	Create(ctx context.Context, redemption *entities.RewardRedemption) error

	// ListByUser returns the member's redemptions, newest first
	ListByUser(ctx context.Context, userID int64, limit int) ([]*entities.RewardRedemption, error)
}

// ActionPointRepository defines data access for per-guild action values
type ActionPointRepository interface {
	Upsert(ctx context.Context, value *entities.ActionPointValue) error

	// Get returns the exact (action, channel) value or nil
	Get(ctx context.Context, actionType entities.ActionType, channelID int64) (*entities.ActionPointValue, error)

	List(ctx context.Context) ([]*entities.ActionPointValue, error)
}

// QuestRepository defines data access for quests
type QuestRepository interface {
	Create(ctx context.Context, quest *entities.Quest) error

	// GetByID returns the quest or nil if absent
	GetByID(ctx context.Context, id int64) (*entities.Quest, error)

	// List returns quests newest first; a non-nil activeAt keeps only quests active at that time
	List(ctx context.Context, activeAt *time.Time) ([]*entities.Quest, error)

	// Delete removes the quest, returning false if it did not exist
	Delete(ctx context.Context, id int64) (bool, error)
}

// WalletRepository defines data access for linked wallets
type WalletRepository interface {
	// Upsert links or relinks the member's wallet
	Upsert(ctx context.Context, link *entities.WalletLink) error

	// GetByUser returns the member's wallet link or nil
	GetByUser(ctx context.Context, userID int64) (*entities.WalletLink, error)

	List(ctx context.Context) ([]*entities.WalletLink, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event) error
}

// TransactionalEventPublisher buffers events until the surrounding
// transaction commits
type TransactionalEventPublisher interface {
	EventPublisher

	// Flush publishes all pending events
	Flush(ctx context.Context) error

	// Discard drops all pending events
	Discard()
}
