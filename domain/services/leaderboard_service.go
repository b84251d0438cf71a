package services

import (
	"context"
	"fmt"
	"time"

	"pointsbot/domain"
	"pointsbot/domain/entities"
	"pointsbot/domain/interfaces"
)

// LeaderboardAggregator ranks members by balance or by points earned in a window
type LeaderboardAggregator struct {
	uowFactory interfaces.UnitOfWorkFactory
	now        func() time.Time
}

// NewLeaderboardAggregator creates a new LeaderboardAggregator
func NewLeaderboardAggregator(uowFactory interfaces.UnitOfWorkFactory) *LeaderboardAggregator {
	return &LeaderboardAggregator{
		uowFactory: uowFactory,
		now:        time.Now,
	}
}

// GetLeaderboard returns up to limit ranked entries. A limit of 0 uses the
// default. Ties are broken by ascending user id.
func (s *LeaderboardAggregator) GetLeaderboard(ctx context.Context, guildID int64, window entities.LeaderboardWindow, limit int) ([]*entities.LeaderboardEntry, error) {
	if limit == 0 {
		limit = entities.DefaultLeaderboardLimit
	}
	if limit < 1 || limit > entities.MaxLeaderboardLimit {
		return nil, domain.NewValidationError("limit must be between 1 and %d", entities.MaxLeaderboardLimit)
	}
	if _, err := entities.ParseLeaderboardWindow(string(window)); err != nil {
		return nil, domain.NewValidationError("%s", err.Error())
	}

	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	var (
		totals []*entities.MemberPoints
		err    error
	)
	if window.IsWindowed() {
		since := s.now().UTC().Add(-window.Duration())
		totals, err = uow.TransactionRepository().SumByUserSince(ctx, since, limit)
	} else {
		totals, err = uow.MemberRepository().TopByBalance(ctx, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s leaderboard: %w", window, err)
	}

	return rankEntries(totals, window.IsWindowed(), limit), nil
}

func rankEntries(totals []*entities.MemberPoints, dropNonPositive bool, limit int) []*entities.LeaderboardEntry {
	entries := make([]*entities.LeaderboardEntry, 0, len(totals))
	for _, total := range totals {
		if dropNonPositive && total.Points <= 0 {
			continue
		}
		if len(entries) == limit {
			break
		}
		entries = append(entries, &entities.LeaderboardEntry{
			UserID: total.UserID,
			Points: total.Points,
			Rank:   len(entries) + 1,
		})
	}
	return entries
}
