package entities

import "time"

// WalletLink ties a member to an on-chain address
type WalletLink struct {
	GuildID  int64
	UserID   int64
	Address  string
	LinkedAt time.Time
}
