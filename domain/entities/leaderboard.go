package entities

import (
	"fmt"
	"time"
)

// LeaderboardWindow selects the period a leaderboard covers
type LeaderboardWindow string

const (
	LeaderboardWindowDay     LeaderboardWindow = "24h"
	LeaderboardWindowWeek    LeaderboardWindow = "7d"
	LeaderboardWindowAllTime LeaderboardWindow = "all"
)

const (
	DefaultLeaderboardLimit = 10
	MaxLeaderboardLimit     = 50
)

// ParseLeaderboardWindow validates a window name
func ParseLeaderboardWindow(s string) (LeaderboardWindow, error) {
	switch w := LeaderboardWindow(s); w {
	case LeaderboardWindowDay, LeaderboardWindowWeek, LeaderboardWindowAllTime:
		return w, nil
	case "":
		return LeaderboardWindowAllTime, nil
	default:
		return "", fmt.Errorf("unknown leaderboard window %q", s)
	}
}

// Duration returns the lookback of a windowed leaderboard, zero for all-time
func (w LeaderboardWindow) Duration() time.Duration {
	switch w {
	case LeaderboardWindowDay:
		return 24 * time.Hour
	case LeaderboardWindowWeek:
		return 7 * 24 * time.Hour
	default:
		return 0
	}
}

// IsWindowed returns true for time-bounded leaderboards
func (w LeaderboardWindow) IsWindowed() bool {
	return w.Duration() > 0
}

// MemberPoints is a per-member point total before ranking
type MemberPoints struct {
	UserID int64
	Points int64
}

// LeaderboardEntry is one ranked row
type LeaderboardEntry struct {
	UserID int64 `json:"userId"`
	Points int64 `json:"points"`
	Rank   int   `json:"rank"`
}
