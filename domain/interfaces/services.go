package interfaces

import (
	"context"
	"time"

	"pointsbot/domain/entities"
)

// LedgerStore atomically persists a transaction and applies it to the balance
type LedgerStore interface {
	RecordTransaction(ctx context.Context, tx *entities.PointsTransaction) (entities.RecordOutcome, error)
}

// MultiplierResolver resolves a member's effective multiplier
type MultiplierResolver interface {
	ResolveMultiplier(ctx context.Context, guildID, userID int64) (entities.Multiplier, error)
}

// MultiplierCache is the admin-facing side of the resolver cache
type MultiplierCache interface {
	// Refresh reloads the guild's table from storage
	Refresh(ctx context.Context, guildID int64) error

	// Invalidate drops the guild's cached table
	Invalidate(guildID int64)

	// InvalidateAll drops every cached table
	InvalidateAll()
}

// Awarder credits points for one external event. A nil transaction with a
// nil error means the event was already processed.
type Awarder interface {
	AwardPoints(ctx context.Context, req *entities.AwardRequest) (*entities.PointsTransaction, error)
}

// Redeemer exchanges points for rewards
type Redeemer interface {
	Redeem(ctx context.Context, guildID, userID, rewardID int64) (*entities.RedemptionResult, error)
}

// BasePointsResolver looks up how many base points an action is worth
type BasePointsResolver interface {
	ResolveBasePoints(ctx context.Context, guildID, channelID int64, actionType entities.ActionType) (int64, error)
}

// LeaderboardService ranks members
type LeaderboardService interface {
	GetLeaderboard(ctx context.Context, guildID int64, window entities.LeaderboardWindow, limit int) ([]*entities.LeaderboardEntry, error)
}

// MemberService exposes read accessors for a member's account
type MemberService interface {
	GetSummary(ctx context.Context, guildID, userID int64, recentLimit int) (*entities.MemberSummary, error)
}

// PointsConfigService manages per-guild points configuration
type PointsConfigService interface {
	BasePointsResolver

	SetActionPointValue(ctx context.Context, guildID int64, actionType entities.ActionType, points int64, channelID int64) (*entities.ActionPointValue, error)
	GetActionPointConfig(ctx context.Context, guildID int64) ([]*entities.ActionPointValue, error)

	SetRoleMultiplier(ctx context.Context, guildID, roleID int64, multiplier entities.Multiplier) (*entities.RoleMultiplier, error)
	RemoveRoleMultiplier(ctx context.Context, guildID, roleID int64) error
	GetRoleMultipliers(ctx context.Context, guildID int64) ([]*entities.RoleMultiplier, error)

	CreateRoleReward(ctx context.Context, guildID, roleID, cost int64) (*entities.Reward, error)
	ListRewards(ctx context.Context, guildID int64) ([]*entities.Reward, error)
	RemoveReward(ctx context.Context, guildID, rewardID int64) error
}

// QuestService manages quests and their completion
type QuestService interface {
	CreateQuest(ctx context.Context, guildID int64, title, description string, rewardPoints int64, startsAt, endsAt *time.Time) (*entities.Quest, error)
	ListQuests(ctx context.Context, guildID int64, activeOnly bool) ([]*entities.Quest, error)
	DeleteQuest(ctx context.Context, guildID, questID int64) error
	CompleteQuest(ctx context.Context, guildID, questID, userID int64) (*entities.PointsTransaction, error)
}

// WalletService manages on-chain wallet links
type WalletService interface {
	LinkWallet(ctx context.Context, guildID, userID int64, address string) (*entities.WalletLink, error)
	GetWallet(ctx context.Context, guildID, userID int64) (*entities.WalletLink, error)
	ListWallets(ctx context.Context, guildID int64) ([]*entities.WalletLink, error)
}

// LedgerMetrics records ledger activity
type LedgerMetrics interface {
	RecordAward(actionType entities.ActionType, outcome string, points int64)
	RecordRedemption(outcome string)
}
