package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pointsbot/domain"
	"pointsbot/domain/entities"
	"pointsbot/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// Award outcomes reported to metrics
const (
	AwardOutcomeInserted  = "inserted"
	AwardOutcomeDuplicate = "duplicate"
	AwardOutcomeFastPath  = "fast_path_duplicate"
	AwardOutcomeFailed    = "failed"
)

const maxReferenceIDLength = 255

// AwardingEngine credits points for external events exactly once
type AwardingEngine struct {
	guard    *IdempotencyGuard
	resolver interfaces.MultiplierResolver
	ledger   interfaces.LedgerStore
	metrics  interfaces.LedgerMetrics
	now      func() time.Time
}

// NewAwardingEngine creates a new AwardingEngine. metrics may be nil.
func NewAwardingEngine(
	guard *IdempotencyGuard,
	resolver interfaces.MultiplierResolver,
	ledger interfaces.LedgerStore,
	metrics interfaces.LedgerMetrics,
) *AwardingEngine {
	if metrics == nil {
		metrics = noopLedgerMetrics{}
	}
	return &AwardingEngine{
		guard:    guard,
		resolver: resolver,
		ledger:   ledger,
		metrics:  metrics,
		now:      time.Now,
	}
}

// AwardPoints processes one award request. It returns nil, nil when the
// event was already credited.
func (e *AwardingEngine) AwardPoints(ctx context.Context, req *entities.AwardRequest) (*entities.PointsTransaction, error) {
	if err := validateAwardRequest(req); err != nil {
		return nil, err
	}

	key := BuildIdempotencyKey(req)
	if transactionID, seen := e.guard.Lookup(key); seen {
		log.WithFields(log.Fields{
			"guildID":       req.GuildID,
			"userID":        req.UserID,
			"actionType":    req.ActionType,
			"referenceID":   req.ReferenceID,
			"transactionID": transactionID,
		}).Debug("Skipping award already processed")
		e.metrics.RecordAward(req.ActionType, AwardOutcomeFastPath, 0)
		return nil, nil
	}

	multiplier, err := e.resolver.ResolveMultiplier(ctx, req.GuildID, req.UserID)
	if err != nil {
		e.metrics.RecordAward(req.ActionType, AwardOutcomeFailed, 0)
		return nil, fmt.Errorf("failed to resolve multiplier: %w", err)
	}

	total, ok := multiplier.ApplyChecked(req.BasePoints)
	if !ok {
		e.metrics.RecordAward(req.ActionType, AwardOutcomeFailed, 0)
		return nil, domain.NewValidationError("%d base points at %sx exceeds the ledger range", req.BasePoints, multiplier)
	}

	tx := &entities.PointsTransaction{
		GuildID:           req.GuildID,
		UserID:            req.UserID,
		Source:            req.ActionType.Source(),
		ActionType:        req.ActionType,
		ReferenceID:       req.ReferenceID,
		BasePoints:        req.BasePoints,
		MultiplierApplied: multiplier,
		TotalPoints:       total,
		OccurredAt:        e.now().UTC(),
		Metadata:          req.Metadata,
	}

	outcome, err := e.ledger.RecordTransaction(ctx, tx)
	if err != nil {
		e.metrics.RecordAward(req.ActionType, AwardOutcomeFailed, 0)
		return nil, err
	}
	if outcome == entities.RecordOutcomeDuplicate {
		e.metrics.RecordAward(req.ActionType, AwardOutcomeDuplicate, 0)
		return nil, nil
	}

	e.guard.MarkProcessed(key, tx.ID)
	e.metrics.RecordAward(req.ActionType, AwardOutcomeInserted, tx.TotalPoints)

	log.WithFields(log.Fields{
		"guildID":       tx.GuildID,
		"userID":        tx.UserID,
		"actionType":    tx.ActionType,
		"transactionID": tx.ID,
		"basePoints":    tx.BasePoints,
		"multiplier":    tx.MultiplierApplied.String(),
		"totalPoints":   tx.TotalPoints,
	}).Info("Awarded points")

	return tx, nil
}

func validateAwardRequest(req *entities.AwardRequest) error {
	if req == nil {
		return domain.NewValidationError("award request is required")
	}
	if req.GuildID == 0 || req.UserID == 0 {
		return domain.NewValidationError("guild and user are required")
	}
	if !req.ActionType.IsAwardable() {
		return domain.NewValidationError("action type %q cannot be awarded", req.ActionType)
	}
	if strings.TrimSpace(req.ReferenceID) == "" {
		return domain.NewValidationError("reference id is required")
	}
	if len(req.ReferenceID) > maxReferenceIDLength {
		return domain.NewValidationError("reference id is longer than %d characters", maxReferenceIDLength)
	}
	if req.BasePoints < 0 {
		return domain.NewValidationError("base points must not be negative")
	}
	if req.BasePoints > entities.MaxBasePoints {
		return domain.NewValidationError("base points must not exceed %d", entities.MaxBasePoints)
	}
	return nil
}

type noopLedgerMetrics struct{}

func (noopLedgerMetrics) RecordAward(entities.ActionType, string, int64) {}

func (noopLedgerMetrics) RecordRedemption(string) {}
