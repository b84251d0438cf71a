package entities

import "time"

// GuildWideChannel is the channel id of a guild-wide action value
const GuildWideChannel int64 = 0

// ActionPointValue overrides the base points for an action in one guild,
// optionally narrowed to a single channel
type ActionPointValue struct {
	GuildID    int64
	ActionType ActionType
	ChannelID  int64
	Points     int64
	UpdatedAt  time.Time
}

// IsChannelOverride returns true if the value applies to a single channel
func (v *ActionPointValue) IsChannelOverride() bool {
	return v.ChannelID != GuildWideChannel
}
