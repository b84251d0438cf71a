package entities

import "time"

// RewardType identifies what a member receives on redemption
type RewardType string

const (
	RewardTypeRole RewardType = "role"
)

// Reward is something members can buy with points
type Reward struct {
	ID        int64
	GuildID   int64
	Type      RewardType
	RoleID    *int64
	Cost      int64
	CreatedAt time.Time
}

// RewardRedemption is the audit row written for each successful redemption
type RewardRedemption struct {
	ID            int64
	RewardID      int64
	GuildID       int64
	UserID        int64
	TransactionID int64
	Cost          int64
	RedeemedAt    time.Time
}

// RedemptionResult is returned to the caller after a successful redemption
type RedemptionResult struct {
	RemainingPoints int64
	Reward          *Reward
	Transaction     *PointsTransaction
}
