package interfaces

import "context"

// RoleLookup reports which roles a member currently holds
type RoleLookup interface {
	MemberRoles(ctx context.Context, guildID, userID int64) ([]int64, error)
}

// GuildLister enumerates guilds for background sweeps
type GuildLister interface {
	ListIDs(ctx context.Context) ([]int64, error)
}

// HolderSource answers whether an address holds the guild's qualifying asset
type HolderSource interface {
	IsHolder(ctx context.Context, guildID int64, address string) (bool, error)
}
