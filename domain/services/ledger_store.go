package services

import (
	"context"
	"errors"
	"fmt"

	"pointsbot/domain"
	"pointsbot/domain/entities"
	"pointsbot/domain/events"
	"pointsbot/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// LedgerStore writes transactions and balances in one database transaction
type LedgerStore struct {
	uowFactory interfaces.UnitOfWorkFactory
}

// NewLedgerStore creates a new LedgerStore
func NewLedgerStore(uowFactory interfaces.UnitOfWorkFactory) *LedgerStore {
	return &LedgerStore{uowFactory: uowFactory}
}

// RecordTransaction ensures the guild and member exist, appends tx and
// applies its total to the member's balance. A transaction whose idempotency
// key already exists is rolled back and reported as a duplicate.
func (s *LedgerStore) RecordTransaction(ctx context.Context, tx *entities.PointsTransaction) (entities.RecordOutcome, error) {
	uow := s.uowFactory.CreateForGuild(tx.GuildID)
	if err := uow.Begin(ctx); err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.GuildRepository().Ensure(ctx); err != nil {
		return "", fmt.Errorf("failed to ensure guild: %w", err)
	}

	if _, err := uow.MemberRepository().GetOrCreate(ctx, tx.UserID); err != nil {
		return "", fmt.Errorf("failed to ensure member: %w", err)
	}

	if err := uow.TransactionRepository().Insert(ctx, tx); err != nil {
		if errors.Is(err, domain.ErrDuplicateTransaction) {
			log.WithFields(log.Fields{
				"guildID":     tx.GuildID,
				"userID":      tx.UserID,
				"actionType":  tx.ActionType,
				"referenceID": tx.ReferenceID,
			}).Debug("Transaction already recorded")
			return entities.RecordOutcomeDuplicate, nil
		}
		return "", fmt.Errorf("failed to insert transaction: %w", err)
	}

	newBalance, err := uow.MemberRepository().AddToBalance(ctx, tx.UserID, tx.TotalPoints)
	if err != nil {
		return "", fmt.Errorf("failed to update balance: %w", err)
	}

	if err := uow.EventBus().Publish(events.PointsAwardedEvent{
		TransactionID: tx.ID,
		GuildID:       tx.GuildID,
		UserID:        tx.UserID,
		ActionType:    tx.ActionType,
		ReferenceID:   tx.ReferenceID,
		BasePoints:    tx.BasePoints,
		Multiplier:    tx.MultiplierApplied,
		TotalPoints:   tx.TotalPoints,
		NewBalance:    newBalance,
		OccurredAt:    tx.OccurredAt,
	}); err != nil {
		return "", fmt.Errorf("failed to publish points awarded event: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit transaction: %w", err)
	}

	return entities.RecordOutcomeInserted, nil
}
