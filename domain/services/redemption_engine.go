package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"pointsbot/domain"
	"pointsbot/domain/entities"
	"pointsbot/domain/events"
	"pointsbot/domain/interfaces"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Redemption outcomes reported to metrics
const (
	RedemptionOutcomeSucceeded    = "succeeded"
	RedemptionOutcomeInsufficient = "insufficient_points"
	RedemptionOutcomeNotFound     = "not_found"
	RedemptionOutcomeFailed       = "failed"
)

// RedemptionEngine exchanges points for rewards without overdrawing
type RedemptionEngine struct {
	uowFactory interfaces.UnitOfWorkFactory
	metrics    interfaces.LedgerMetrics
	now        func() time.Time
	newRef     func() string
}

// NewRedemptionEngine creates a new RedemptionEngine. metrics may be nil.
func NewRedemptionEngine(uowFactory interfaces.UnitOfWorkFactory, metrics interfaces.LedgerMetrics) *RedemptionEngine {
	if metrics == nil {
		metrics = noopLedgerMetrics{}
	}
	return &RedemptionEngine{
		uowFactory: uowFactory,
		metrics:    metrics,
		now:        time.Now,
		newRef:     func() string { return uuid.NewString() },
	}
}

// Redeem debits the reward's cost from the member and records the
// redemption. The member row stays locked from the balance check until
// commit, so concurrent redemptions by one member are serialized.
func (e *RedemptionEngine) Redeem(ctx context.Context, guildID, userID, rewardID int64) (*entities.RedemptionResult, error) {
	result, outcome, err := e.redeem(ctx, guildID, userID, rewardID)
	e.metrics.RecordRedemption(outcome)
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"guildID":   guildID,
		"userID":    userID,
		"rewardID":  rewardID,
		"cost":      result.Reward.Cost,
		"remaining": result.RemainingPoints,
	}).Info("Reward redeemed")

	return result, nil
}

func (e *RedemptionEngine) redeem(ctx context.Context, guildID, userID, rewardID int64) (*entities.RedemptionResult, string, error) {
	uow := e.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return nil, RedemptionOutcomeFailed, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	reward, err := uow.RewardRepository().GetByID(ctx, rewardID)
	if err != nil {
		return nil, RedemptionOutcomeFailed, fmt.Errorf("failed to get reward: %w", err)
	}
	if reward == nil {
		return nil, RedemptionOutcomeNotFound, domain.NewNotFoundError("reward", rewardID)
	}

	if err := uow.GuildRepository().Ensure(ctx); err != nil {
		return nil, RedemptionOutcomeFailed, fmt.Errorf("failed to ensure guild: %w", err)
	}
	if _, err := uow.MemberRepository().GetOrCreate(ctx, userID); err != nil {
		return nil, RedemptionOutcomeFailed, fmt.Errorf("failed to ensure member: %w", err)
	}

	member, err := uow.MemberRepository().GetForUpdate(ctx, userID)
	if err != nil {
		return nil, RedemptionOutcomeFailed, fmt.Errorf("failed to lock member: %w", err)
	}
	if !member.CanAfford(reward.Cost) {
		return nil, RedemptionOutcomeInsufficient, domain.NewValidationError("insufficient points")
	}

	now := e.now().UTC()
	tx := &entities.PointsTransaction{
		GuildID:           guildID,
		UserID:            userID,
		Source:            entities.ActionTypeRedeem.Source(),
		ActionType:        entities.ActionTypeRedeem,
		ReferenceID:       e.newRef(),
		BasePoints:        -reward.Cost,
		MultiplierApplied: entities.DefaultMultiplier,
		TotalPoints:       -reward.Cost,
		OccurredAt:        now,
		Metadata: map[string]string{
			"rewardId":   strconv.FormatInt(reward.ID, 10),
			"rewardType": string(reward.Type),
		},
	}
	if err := uow.TransactionRepository().Insert(ctx, tx); err != nil {
		return nil, RedemptionOutcomeFailed, fmt.Errorf("failed to insert redemption transaction: %w", err)
	}

	redemption := &entities.RewardRedemption{
		RewardID:      reward.ID,
		GuildID:       guildID,
		UserID:        userID,
		TransactionID: tx.ID,
		Cost:          reward.Cost,
		RedeemedAt:    now,
	}
	if err := uow.RedemptionRepository().Create(ctx, redemption); err != nil {
		return nil, RedemptionOutcomeFailed, fmt.Errorf("failed to record redemption: %w", err)
	}

	remaining, err := uow.MemberRepository().AddToBalance(ctx, userID, -reward.Cost)
	if err != nil {
		return nil, RedemptionOutcomeFailed, fmt.Errorf("failed to update balance: %w", err)
	}

	if err := uow.EventBus().Publish(events.RewardRedeemedEvent{
		RedemptionID:     redemption.ID,
		TransactionID:    tx.ID,
		GuildID:          guildID,
		UserID:           userID,
		RewardID:         reward.ID,
		RewardType:       reward.Type,
		RoleID:           reward.RoleID,
		Cost:             reward.Cost,
		RemainingBalance: remaining,
		RedeemedAt:       now,
	}); err != nil {
		return nil, RedemptionOutcomeFailed, fmt.Errorf("failed to publish reward redeemed event: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, RedemptionOutcomeFailed, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &entities.RedemptionResult{
		RemainingPoints: remaining,
		Reward:          reward,
		Transaction:     tx,
	}, RedemptionOutcomeSucceeded, nil
}
