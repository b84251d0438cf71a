package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"pointsbot/database"
	"pointsbot/domain/entities"
)

// Output formats
const (
	FormatText = "text"
	FormatJSON = "json"
)

const timeLayout = "2006-01-02 15:04"

// Printer renders command results as text or JSON
type Printer struct {
	w      io.Writer
	format string
}

// NewPrinter creates a printer writing to w
func NewPrinter(w io.Writer, format string) *Printer {
	return &Printer{w: w, format: format}
}

func (p *Printer) emit(data any, text func(w io.Writer)) error {
	if p.format == FormatJSON {
		enc := json.NewEncoder(p.w)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	}
	text(p.w)
	return nil
}

// Message prints a one-line confirmation
func (p *Printer) Message(msg string) error {
	return p.emit(struct {
		Message string `json:"message"`
	}{msg}, func(w io.Writer) {
		fmt.Fprintln(w, msg)
	})
}

type awardView struct {
	Credited    bool                        `json:"credited"`
	Transaction *entities.PointsTransaction `json:"transaction,omitempty"`
}

// Award prints the result of an award. A nil transaction means the event
// had already been credited.
func (p *Printer) Award(tx *entities.PointsTransaction) error {
	return p.emit(awardView{Credited: tx != nil, Transaction: tx}, func(w io.Writer) {
		if tx == nil {
			fmt.Fprintln(w, "Already credited, balance unchanged")
			return
		}
		fmt.Fprintf(w, "Awarded %d points to user %d (base %d x %s, transaction #%d)\n",
			tx.TotalPoints, tx.UserID, tx.BasePoints, tx.MultiplierApplied, tx.ID)
	})
}

type redemptionView struct {
	RewardID        int64 `json:"rewardId"`
	Cost            int64 `json:"cost"`
	TransactionID   int64 `json:"transactionId"`
	RemainingPoints int64 `json:"remainingPoints"`
}

// Redemption prints a successful redemption
func (p *Printer) Redemption(result *entities.RedemptionResult) error {
	view := redemptionView{
		RewardID:        result.Reward.ID,
		Cost:            result.Reward.Cost,
		TransactionID:   result.Transaction.ID,
		RemainingPoints: result.RemainingPoints,
	}
	return p.emit(view, func(w io.Writer) {
		fmt.Fprintf(w, "Redeemed reward #%d for %d points, %d remaining\n", view.RewardID, view.Cost, view.RemainingPoints)
	})
}

type leaderboardView struct {
	Window  entities.LeaderboardWindow   `json:"window"`
	Entries []*entities.LeaderboardEntry `json:"entries"`
}

// Leaderboard prints ranked entries
func (p *Printer) Leaderboard(window entities.LeaderboardWindow, entries []*entities.LeaderboardEntry) error {
	if entries == nil {
		entries = []*entities.LeaderboardEntry{}
	}
	return p.emit(leaderboardView{Window: window, Entries: entries}, func(w io.Writer) {
		fmt.Fprintf(w, "Leaderboard (%s)\n", window)
		if len(entries) == 0 {
			fmt.Fprintln(w, "No points recorded")
			return
		}
		fmt.Fprintf(w, "%-4s  %-20s  %10s\n", "RANK", "USER", "POINTS")
		for _, entry := range entries {
			fmt.Fprintf(w, "%-4d  %-20d  %10d\n", entry.Rank, entry.UserID, entry.Points)
		}
	})
}

type summaryView struct {
	GuildID            int64                         `json:"guildId"`
	UserID             int64                         `json:"userId"`
	Balance            int64                         `json:"balance"`
	RecentTransactions []*entities.PointsTransaction `json:"recentTransactions"`
}

// Summary prints a member's balance and latest transactions
func (p *Printer) Summary(summary *entities.MemberSummary) error {
	view := summaryView{
		GuildID:            summary.GuildID,
		UserID:             summary.UserID,
		Balance:            summary.Balance,
		RecentTransactions: summary.RecentTransactions,
	}
	if view.RecentTransactions == nil {
		view.RecentTransactions = []*entities.PointsTransaction{}
	}
	return p.emit(view, func(w io.Writer) {
		fmt.Fprintf(w, "User %d in guild %d\n", view.UserID, view.GuildID)
		fmt.Fprintf(w, "Balance: %d\n", view.Balance)
		if len(view.RecentTransactions) == 0 {
			return
		}
		fmt.Fprintln(w, "Recent transactions:")
		for _, tx := range view.RecentTransactions {
			fmt.Fprintf(w, "  %s  %-16s  %+6d  %s\n",
				tx.OccurredAt.UTC().Format(timeLayout), tx.ActionType, tx.TotalPoints, tx.ReferenceID)
		}
	})
}

type roleMultiplierView struct {
	RoleID     int64               `json:"roleId"`
	Multiplier entities.Multiplier `json:"multiplier"`
}

// RoleMultipliers prints role multipliers
func (p *Printer) RoleMultipliers(multipliers []*entities.RoleMultiplier) error {
	views := make([]roleMultiplierView, 0, len(multipliers))
	for _, m := range multipliers {
		views = append(views, roleMultiplierView{RoleID: m.RoleID, Multiplier: m.Multiplier})
	}
	return p.emit(views, func(w io.Writer) {
		if len(views) == 0 {
			fmt.Fprintln(w, "No role multipliers configured")
			return
		}
		for _, v := range views {
			fmt.Fprintf(w, "role %d  x%s\n", v.RoleID, v.Multiplier)
		}
	})
}

type rewardView struct {
	ID     int64               `json:"id"`
	Type   entities.RewardType `json:"type"`
	RoleID *int64              `json:"roleId,omitempty"`
	Cost   int64               `json:"cost"`
}

// Rewards prints rewards
func (p *Printer) Rewards(rewards []*entities.Reward) error {
	views := make([]rewardView, 0, len(rewards))
	for _, r := range rewards {
		views = append(views, rewardView{ID: r.ID, Type: r.Type, RoleID: r.RoleID, Cost: r.Cost})
	}
	return p.emit(views, func(w io.Writer) {
		if len(views) == 0 {
			fmt.Fprintln(w, "No rewards available")
			return
		}
		for _, v := range views {
			if v.RoleID != nil {
				fmt.Fprintf(w, "#%d  %s %d  cost %d\n", v.ID, v.Type, *v.RoleID, v.Cost)
			} else {
				fmt.Fprintf(w, "#%d  %s  cost %d\n", v.ID, v.Type, v.Cost)
			}
		}
	})
}

type actionPointView struct {
	ActionType entities.ActionType `json:"actionType"`
	ChannelID  int64               `json:"channelId"`
	Points     int64               `json:"points"`
}

// ActionPoints prints configured action values
func (p *Printer) ActionPoints(values []*entities.ActionPointValue) error {
	views := make([]actionPointView, 0, len(values))
	for _, v := range values {
		views = append(views, actionPointView{ActionType: v.ActionType, ChannelID: v.ChannelID, Points: v.Points})
	}
	return p.emit(views, func(w io.Writer) {
		if len(views) == 0 {
			fmt.Fprintln(w, "No action values configured, defaults apply")
			return
		}
		for _, v := range views {
			scope := "guild-wide"
			if v.ChannelID != entities.GuildWideChannel {
				scope = fmt.Sprintf("channel %d", v.ChannelID)
			}
			fmt.Fprintf(w, "%-16s  %-20s  %d\n", v.ActionType, scope, v.Points)
		}
	})
}

type questView struct {
	ID           int64      `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	RewardPoints int64      `json:"rewardPoints"`
	StartsAt     *time.Time `json:"startsAt,omitempty"`
	EndsAt       *time.Time `json:"endsAt,omitempty"`
}

// Quests prints quests
func (p *Printer) Quests(quests []*entities.Quest) error {
	views := make([]questView, 0, len(quests))
	for _, q := range quests {
		views = append(views, questView{
			ID:           q.ID,
			Title:        q.Title,
			Description:  q.Description,
			RewardPoints: q.RewardPoints,
			StartsAt:     q.StartsAt,
			EndsAt:       q.EndsAt,
		})
	}
	return p.emit(views, func(w io.Writer) {
		if len(views) == 0 {
			fmt.Fprintln(w, "No quests")
			return
		}
		for _, v := range views {
			fmt.Fprintf(w, "#%d  %s  %d points", v.ID, v.Title, v.RewardPoints)
			if v.EndsAt != nil {
				fmt.Fprintf(w, "  until %s", v.EndsAt.UTC().Format(timeLayout))
			}
			fmt.Fprintln(w)
		}
	})
}

type walletView struct {
	UserID  int64  `json:"userId"`
	Address string `json:"address"`
}

// Wallets prints wallet links
func (p *Printer) Wallets(wallets []*entities.WalletLink) error {
	views := make([]walletView, 0, len(wallets))
	for _, wl := range wallets {
		views = append(views, walletView{UserID: wl.UserID, Address: wl.Address})
	}
	return p.emit(views, func(w io.Writer) {
		if len(views) == 0 {
			fmt.Fprintln(w, "No wallets linked")
			return
		}
		for _, v := range views {
			fmt.Fprintf(w, "user %d  %s\n", v.UserID, v.Address)
		}
	})
}

// MigrationStatus prints the applied schema version
func (p *Printer) MigrationStatus(status *database.MigrationStatus) error {
	return p.emit(status, func(w io.Writer) {
		if !status.Applied {
			fmt.Fprintln(w, "No migrations applied")
			return
		}
		if status.Dirty {
			fmt.Fprintf(w, "Version %d (dirty)\n", status.Version)
			return
		}
		fmt.Fprintf(w, "Version %d\n", status.Version)
	})
}
