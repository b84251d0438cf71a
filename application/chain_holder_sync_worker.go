package application

import (
	"context"
	"fmt"
	"time"

	"pointsbot/domain/entities"
	"pointsbot/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// Holder sync outcomes reported to metrics
const (
	HolderSyncOutcomeCompleted = "completed"
	HolderSyncOutcomePartial   = "partial"
	HolderSyncOutcomeFailed    = "failed"
)

// HolderSyncMetrics records holder sync passes
type HolderSyncMetrics interface {
	RecordHolderSyncRun(outcome string)
}

// HolderSyncResult summarizes one pass
type HolderSyncResult struct {
	GuildsScanned  int
	WalletsChecked int
	Awarded        int
	Duplicates     int
	Errors         int
}

// ChainHolderSyncWorker periodically awards members whose linked wallet
// holds the guild's qualifying asset, at most once per wallet per UTC day
type ChainHolderSyncWorker struct {
	guilds     interfaces.GuildLister
	uowFactory interfaces.UnitOfWorkFactory
	holders    interfaces.HolderSource
	awarder    interfaces.Awarder
	basePoints interfaces.BasePointsResolver
	metrics    HolderSyncMetrics
	now        func() time.Time
}

// NewChainHolderSyncWorker creates a new ChainHolderSyncWorker. metrics may be nil.
func NewChainHolderSyncWorker(
	guilds interfaces.GuildLister,
	uowFactory interfaces.UnitOfWorkFactory,
	holders interfaces.HolderSource,
	awarder interfaces.Awarder,
	basePoints interfaces.BasePointsResolver,
	metrics HolderSyncMetrics,
) *ChainHolderSyncWorker {
	return &ChainHolderSyncWorker{
		guilds:     guilds,
		uowFactory: uowFactory,
		holders:    holders,
		awarder:    awarder,
		basePoints: basePoints,
		metrics:    metrics,
		now:        time.Now,
	}
}

// Start runs a pass immediately and then every interval.
// Returns a cleanup function to stop the worker.
func (w *ChainHolderSyncWorker) Start(ctx context.Context, interval time.Duration) func() {
	ticker := time.NewTicker(interval)
	stopChan := make(chan struct{})
	done := make(chan struct{})

	run := func() {
		if _, err := w.RunOnce(ctx); err != nil {
			log.WithError(err).Error("Chain holder sync failed")
		}
	}

	go func() {
		defer close(done)
		log.WithField("interval", interval).Info("Chain holder sync worker started")

		run()

		for {
			select {
			case <-ctx.Done():
				log.Info("Chain holder sync worker shutting down (context cancelled)...")
				return
			case <-stopChan:
				log.Info("Chain holder sync worker shutting down (stop requested)...")
				return
			case <-ticker.C:
				run()
			}
		}
	}()

	return func() {
		ticker.Stop()
		close(stopChan)
		<-done
	}
}

// RunOnce checks every linked wallet in every guild once
func (w *ChainHolderSyncWorker) RunOnce(ctx context.Context) (*HolderSyncResult, error) {
	guildIDs, err := w.guilds.ListIDs(ctx)
	if err != nil {
		w.record(HolderSyncOutcomeFailed)
		return nil, fmt.Errorf("failed to list guilds: %w", err)
	}

	result := &HolderSyncResult{}
	day := w.now().UTC().Format("2006-01-02")

	for _, guildID := range guildIDs {
		if ctx.Err() != nil {
			break
		}
		result.GuildsScanned++
		if err := w.syncGuild(ctx, guildID, day, result); err != nil {
			result.Errors++
			log.WithFields(log.Fields{
				"guildID": guildID,
				"error":   err,
			}).Error("Failed to sync guild holders")
		}
	}

	outcome := HolderSyncOutcomeCompleted
	if result.Errors > 0 {
		outcome = HolderSyncOutcomePartial
	}
	w.record(outcome)

	log.WithFields(log.Fields{
		"guilds":     result.GuildsScanned,
		"wallets":    result.WalletsChecked,
		"awarded":    result.Awarded,
		"duplicates": result.Duplicates,
		"errors":     result.Errors,
	}).Info("Chain holder sync completed")

	return result, ctx.Err()
}

func (w *ChainHolderSyncWorker) syncGuild(ctx context.Context, guildID int64, day string, result *HolderSyncResult) error {
	wallets, err := w.listWallets(ctx, guildID)
	if err != nil {
		return err
	}
	if len(wallets) == 0 {
		return nil
	}

	points, err := w.basePoints.ResolveBasePoints(ctx, guildID, entities.GuildWideChannel, entities.ActionTypeSolanaRole)
	if err != nil {
		return fmt.Errorf("failed to resolve base points: %w", err)
	}
	if points == 0 {
		return nil
	}

	for _, wallet := range wallets {
		result.WalletsChecked++

		holder, err := w.holders.IsHolder(ctx, guildID, wallet.Address)
		if err != nil {
			result.Errors++
			log.WithFields(log.Fields{
				"guildID": guildID,
				"userID":  wallet.UserID,
				"error":   err,
			}).Warn("Failed to check holder status")
			continue
		}
		if !holder {
			continue
		}

		tx, err := w.awarder.AwardPoints(ctx, &entities.AwardRequest{
			GuildID:     guildID,
			UserID:      wallet.UserID,
			ActionType:  entities.ActionTypeSolanaRole,
			ReferenceID: wallet.Address + ":" + day,
			BasePoints:  points,
			Metadata:    map[string]string{"address": wallet.Address},
		})
		if err != nil {
			result.Errors++
			log.WithFields(log.Fields{
				"guildID": guildID,
				"userID":  wallet.UserID,
				"error":   err,
			}).Warn("Failed to award holder points")
			continue
		}
		if tx == nil {
			result.Duplicates++
			continue
		}
		result.Awarded++
	}
	return nil
}

func (w *ChainHolderSyncWorker) listWallets(ctx context.Context, guildID int64) ([]*entities.WalletLink, error) {
	uow := w.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	wallets, err := uow.WalletRepository().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list wallets: %w", err)
	}
	return wallets, nil
}

func (w *ChainHolderSyncWorker) record(outcome string) {
	if w.metrics != nil {
		w.metrics.RecordHolderSyncRun(outcome)
	}
}

// NoopHolderSource reports no address as a holder
type NoopHolderSource struct{}

// IsHolder always returns false
func (NoopHolderSource) IsHolder(ctx context.Context, guildID int64, address string) (bool, error) {
	return false, nil
}
