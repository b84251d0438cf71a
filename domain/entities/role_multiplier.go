package entities

import "time"

// RoleMultiplier boosts awards for members holding RoleID
type RoleMultiplier struct {
	GuildID    int64
	RoleID     int64
	Multiplier Multiplier
	UpdatedAt  time.Time
}

// MultiplierTable maps role id to multiplier for one guild
type MultiplierTable map[int64]Multiplier

// NewMultiplierTable indexes role multipliers by role id
func NewMultiplierTable(multipliers []*RoleMultiplier) MultiplierTable {
	table := make(MultiplierTable, len(multipliers))
	for _, rm := range multipliers {
		table[rm.RoleID] = rm.Multiplier
	}
	return table
}

// Resolve returns the highest multiplier among roles, or the default when
// none of the roles is configured. Multipliers never stack.
func (t MultiplierTable) Resolve(roles []int64) Multiplier {
	best := DefaultMultiplier
	for _, roleID := range roles {
		if m, ok := t[roleID]; ok && m > best {
			best = m
		}
	}
	return best
}
