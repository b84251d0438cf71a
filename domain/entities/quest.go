package entities

import (
	"fmt"
	"time"
)

// Quest is an admin-defined task that pays a fixed reward once per member
type Quest struct {
	ID           int64
	GuildID      int64
	Title        string
	Description  string
	RewardPoints int64
	StartsAt     *time.Time
	EndsAt       *time.Time
	CreatedAt    time.Time
}

// IsActiveAt returns true if the quest can be completed at t
func (q *Quest) IsActiveAt(t time.Time) bool {
	if q.StartsAt != nil && t.Before(*q.StartsAt) {
		return false
	}
	if q.EndsAt != nil && t.After(*q.EndsAt) {
		return false
	}
	return true
}

// CompletionReference is the idempotency reference for completing this quest
func (q *Quest) CompletionReference() string {
	return fmt.Sprintf("quest:%d", q.ID)
}
