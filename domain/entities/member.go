package entities

import "time"

// Guild is a tenant scoping balances and configuration
type Guild struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}

// Member is a user's account within one guild
type Member struct {
	GuildID   int64
	UserID    int64
	Balance   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CanAfford checks if the member's balance covers cost
func (m *Member) CanAfford(cost int64) bool {
	return m.Balance >= cost
}

// MemberSummary is a member's balance with their latest ledger entries
type MemberSummary struct {
	GuildID            int64
	UserID             int64
	Balance            int64
	RecentTransactions []*PointsTransaction
}
