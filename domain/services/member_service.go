package services

import (
	"context"
	"fmt"

	"pointsbot/domain"
	"pointsbot/domain/entities"
	"pointsbot/domain/interfaces"
)

const (
	DefaultRecentTransactions = 5
	MaxRecentTransactions     = 50
)

// MemberService serves read accessors over a member's account
type MemberService struct {
	uowFactory interfaces.UnitOfWorkFactory
}

// NewMemberService creates a new MemberService
func NewMemberService(uowFactory interfaces.UnitOfWorkFactory) *MemberService {
	return &MemberService{uowFactory: uowFactory}
}

// GetSummary returns the member's balance and newest transactions. Unknown
// members have a zero balance and no history.
func (s *MemberService) GetSummary(ctx context.Context, guildID, userID int64, recentLimit int) (*entities.MemberSummary, error) {
	if recentLimit == 0 {
		recentLimit = DefaultRecentTransactions
	}
	if recentLimit < 1 || recentLimit > MaxRecentTransactions {
		return nil, domain.NewValidationError("recent limit must be between 1 and %d", MaxRecentTransactions)
	}

	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	summary := &entities.MemberSummary{
		GuildID:            guildID,
		UserID:             userID,
		RecentTransactions: []*entities.PointsTransaction{},
	}

	member, err := uow.MemberRepository().Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	if member == nil {
		return summary, nil
	}
	summary.Balance = member.Balance

	recent, err := uow.TransactionRepository().ListRecentByUser(ctx, userID, recentLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent transactions: %w", err)
	}
	summary.RecentTransactions = recent

	return summary, nil
}
