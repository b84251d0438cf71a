package testutil

import (
	"strings"
	"time"

	"pointsbot/domain/entities"
)

// CreateTestTransaction creates a credit for a member with sensible defaults
func CreateTestTransaction(guildID, userID int64, actionType entities.ActionType, ref string, points int64) *entities.PointsTransaction {
	return &entities.PointsTransaction{
		GuildID:           guildID,
		UserID:            userID,
		Source:            actionType.Source(),
		ActionType:        actionType,
		ReferenceID:       ref,
		BasePoints:        points,
		MultiplierApplied: entities.DefaultMultiplier,
		TotalPoints:       points,
		OccurredAt:        time.Now().UTC(),
	}
}

// CreateTestTransactionAt creates a credit that occurred at a specific time
func CreateTestTransactionAt(guildID, userID int64, ref string, points int64, at time.Time) *entities.PointsTransaction {
	tx := CreateTestTransaction(guildID, userID, entities.ActionTypeAdminGrant, ref, points)
	tx.OccurredAt = at
	return tx
}

// CreateTestRoleReward creates a role reward costing cost points
func CreateTestRoleReward(guildID, roleID, cost int64) *entities.Reward {
	return &entities.Reward{
		GuildID: guildID,
		Type:    entities.RewardTypeRole,
		RoleID:  &roleID,
		Cost:    cost,
	}
}

const base58Digits = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

// CreateTestWallet returns a 43 character base58 address unique to seed
func CreateTestWallet(seed int) string {
	var suffix strings.Builder
	for i := 0; i < 8; i++ {
		suffix.WriteByte(base58Digits[seed%len(base58Digits)])
		seed /= len(base58Digits)
	}
	return strings.Repeat("1", 35) + suffix.String()
}
