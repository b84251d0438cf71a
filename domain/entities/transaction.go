package entities

import (
	"strings"
	"time"
)

// ActionType identifies what earned or spent points
type ActionType string

const (
	// Social network interactions
	ActionTypeXLike    ActionType = "x_like"
	ActionTypeXRetweet ActionType = "x_retweet"
	ActionTypeXReply   ActionType = "x_reply"

	// In-guild activity
	ActionTypeDiscordReaction ActionType = "discord_reaction"
	ActionTypeDiscordMessage  ActionType = "discord_message"
	ActionTypeQuest           ActionType = "quest"
	ActionTypeAdminGrant      ActionType = "admin_grant"

	// On-chain holdings
	ActionTypeSolanaRole ActionType = "solana_role"

	// Debits
	ActionTypeRedeem ActionType = "redeem"
)

// AwardableActionTypes lists every action that credits points
var AwardableActionTypes = []ActionType{
	ActionTypeXLike,
	ActionTypeXRetweet,
	ActionTypeXReply,
	ActionTypeDiscordReaction,
	ActionTypeDiscordMessage,
	ActionTypeQuest,
	ActionTypeAdminGrant,
	ActionTypeSolanaRole,
}

// IsAwardable returns true if the action type credits points
func (a ActionType) IsAwardable() bool {
	for _, candidate := range AwardableActionTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// Source returns the event source family for this action type
func (a ActionType) Source() Source {
	switch {
	case strings.HasPrefix(string(a), "x_"):
		return SourceSocial
	case a == ActionTypeSolanaRole:
		return SourceChain
	default:
		return SourceTenantInternal
	}
}

// Source groups action types by where their events come from
type Source string

const (
	SourceSocial         Source = "social"
	SourceTenantInternal Source = "tenant_internal"
	SourceChain          Source = "chain"
)

// PointsTransaction is one immutable ledger entry
type PointsTransaction struct {
	ID                int64             `json:"id"`
	GuildID           int64             `json:"guildId"`
	UserID            int64             `json:"userId"`
	Source            Source            `json:"source"`
	ActionType        ActionType        `json:"actionType"`
	ReferenceID       string            `json:"referenceId"`
	BasePoints        int64             `json:"basePoints"`
	MultiplierApplied Multiplier        `json:"multiplierApplied"`
	TotalPoints       int64             `json:"totalPoints"`
	OccurredAt        time.Time         `json:"occurredAt"`
	Metadata          map[string]string `json:"metadata,omitempty"`
}

// IsCredit returns true if the transaction increased the balance
func (t *PointsTransaction) IsCredit() bool {
	return t.TotalPoints > 0
}

// MaxBasePoints bounds one award. With MaxMultiplier applied the total
// still fits comfortably in an int64 balance.
const MaxBasePoints int64 = 1_000_000_000

// AwardRequest asks the engine to credit a member for one external event
type AwardRequest struct {
	GuildID     int64             `json:"guildId"`
	UserID      int64             `json:"userId"`
	ActionType  ActionType        `json:"actionType"`
	ReferenceID string            `json:"referenceId"`
	BasePoints  int64             `json:"basePoints"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// RecordOutcome is the result of persisting a transaction
type RecordOutcome string

const (
	RecordOutcomeInserted  RecordOutcome = "inserted"
	RecordOutcomeDuplicate RecordOutcome = "duplicate"
)
