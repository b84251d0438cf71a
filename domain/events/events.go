package events

import (
	"time"

	"pointsbot/domain/entities"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypePointsAwarded          EventType = "points_awarded"
	EventTypeRewardRedeemed         EventType = "reward_redeemed"
	EventTypeRoleMultipliersChanged EventType = "role_multipliers_changed"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// GuildEvent is implemented by events scoped to one guild
type GuildEvent interface {
	Event
	GetGuildID() int64
}

// PointsAwardedEvent is emitted after an award commits
type PointsAwardedEvent struct {
	TransactionID int64               `json:"transactionId"`
	GuildID       int64               `json:"guildId"`
	UserID        int64               `json:"userId"`
	ActionType    entities.ActionType `json:"actionType"`
	ReferenceID   string              `json:"referenceId"`
	BasePoints    int64               `json:"basePoints"`
	Multiplier    entities.Multiplier `json:"multiplier"`
	TotalPoints   int64               `json:"totalPoints"`
	NewBalance    int64               `json:"newBalance"`
	OccurredAt    time.Time           `json:"occurredAt"`
}

func (e PointsAwardedEvent) Type() EventType {
	return EventTypePointsAwarded
}

func (e PointsAwardedEvent) GetGuildID() int64 {
	return e.GuildID
}

// RewardRedeemedEvent is emitted after a redemption commits
type RewardRedeemedEvent struct {
	RedemptionID     int64               `json:"redemptionId"`
	TransactionID    int64               `json:"transactionId"`
	GuildID          int64               `json:"guildId"`
	UserID           int64               `json:"userId"`
	RewardID         int64               `json:"rewardId"`
	RewardType       entities.RewardType `json:"rewardType"`
	RoleID           *int64              `json:"roleId,omitempty"`
	Cost             int64               `json:"cost"`
	RemainingBalance int64               `json:"remainingBalance"`
	RedeemedAt       time.Time           `json:"redeemedAt"`
}

func (e RewardRedeemedEvent) Type() EventType {
	return EventTypeRewardRedeemed
}

func (e RewardRedeemedEvent) GetGuildID() int64 {
	return e.GuildID
}

// RoleMultipliersChangedEvent tells other instances to drop their cached
// multiplier table for the guild
type RoleMultipliersChangedEvent struct {
	GuildID int64 `json:"guildId"`
	RoleID  int64 `json:"roleId"`
	Removed bool  `json:"removed"`
}

func (e RoleMultipliersChangedEvent) Type() EventType {
	return EventTypeRoleMultipliersChanged
}

func (e RoleMultipliersChangedEvent) GetGuildID() int64 {
	return e.GuildID
}
