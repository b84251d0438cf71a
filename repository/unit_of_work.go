package repository

import (
	"context"
	"errors"
	"fmt"

	"pointsbot/database"
	"pointsbot/domain/interfaces"

	"github.com/jackc/pgx/v5"
	log "github.com/sirupsen/logrus"
)

// unitOfWork implements the UnitOfWork interface
type unitOfWork struct {
	db                     *database.DB
	tx                     pgx.Tx
	ctx                    context.Context
	guildID                int64
	transactionalPublisher interfaces.TransactionalEventPublisher
	guildRepo              interfaces.GuildRepository
	memberRepo             interfaces.MemberRepository
	transactionRepo        interfaces.TransactionRepository
	roleMultiplierRepo     interfaces.RoleMultiplierRepository
	rewardRepo             interfaces.RewardRepository
	redemptionRepo         interfaces.RedemptionRepository
	actionPointRepo        interfaces.ActionPointRepository
	questRepo              interfaces.QuestRepository
	walletRepo             interfaces.WalletRepository
}

// UnitOfWorkFactory creates guild-scoped units of work over one pool
type UnitOfWorkFactory struct {
	db *database.DB
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory
func NewUnitOfWorkFactory(db *database.DB) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{db: db}
}

// CreateForGuildWithPublisher creates a new UnitOfWork whose events are
// buffered in transactionalPublisher until commit
func (f *UnitOfWorkFactory) CreateForGuildWithPublisher(guildID int64, transactionalPublisher interfaces.TransactionalEventPublisher) interfaces.UnitOfWork {
	return &unitOfWork{
		db:                     f.db,
		guildID:                guildID,
		transactionalPublisher: transactionalPublisher,
	}
}

// Begin starts a new transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.ctx = ctx

	u.guildRepo = newGuildRepository(tx, u.guildID)
	u.memberRepo = newMemberRepository(tx, u.guildID)
	u.transactionRepo = newTransactionRepository(tx, u.guildID)
	u.roleMultiplierRepo = newRoleMultiplierRepository(tx, u.guildID)
	u.rewardRepo = newRewardRepository(tx, u.guildID)
	u.redemptionRepo = newRedemptionRepository(tx, u.guildID)
	u.actionPointRepo = newActionPointRepository(tx, u.guildID)
	u.questRepo = newQuestRepository(tx, u.guildID)
	u.walletRepo = newWalletRepository(tx, u.guildID)

	return nil
}

// Commit commits the transaction, then flushes pending events
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	if err := u.tx.Commit(u.ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	u.tx = nil

	if u.transactionalPublisher != nil {
		if err := u.transactionalPublisher.Flush(u.ctx); err != nil {
			log.WithFields(log.Fields{
				"guildID": u.guildID,
				"error":   err,
			}).Error("Failed to flush events after commit")
		}
	}

	return nil
}

// Rollback rolls back the transaction and discards pending events
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil
	}

	err := u.tx.Rollback(u.ctx)
	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}

	u.tx = nil

	if u.transactionalPublisher != nil {
		u.transactionalPublisher.Discard()
	}

	return nil
}

const notStarted = "unit of work not started - call Begin() first"

func (u *unitOfWork) GuildRepository() interfaces.GuildRepository {
	if u.guildRepo == nil {
		panic(notStarted)
	}
	return u.guildRepo
}

func (u *unitOfWork) MemberRepository() interfaces.MemberRepository {
	if u.memberRepo == nil {
		panic(notStarted)
	}
	return u.memberRepo
}

func (u *unitOfWork) TransactionRepository() interfaces.TransactionRepository {
	if u.transactionRepo == nil {
		panic(notStarted)
	}
	return u.transactionRepo
}

func (u *unitOfWork) RoleMultiplierRepository() interfaces.RoleMultiplierRepository {
	if u.roleMultiplierRepo == nil {
		panic(notStarted)
	}
	return u.roleMultiplierRepo
}

func (u *unitOfWork) RewardRepository() interfaces.RewardRepository {
	if u.rewardRepo == nil {
		panic(notStarted)
	}
	return u.rewardRepo
}

func (u *unitOfWork) RedemptionRepository() interfaces.RedemptionRepository {
	if u.redemptionRepo == nil {
		panic(notStarted)
	}
	return u.redemptionRepo
}

func (u *unitOfWork) ActionPointRepository() interfaces.ActionPointRepository {
	if u.actionPointRepo == nil {
		panic(notStarted)
	}
	return u.actionPointRepo
}

func (u *unitOfWork) QuestRepository() interfaces.QuestRepository {
	if u.questRepo == nil {
		panic(notStarted)
	}
	return u.questRepo
}

func (u *unitOfWork) WalletRepository() interfaces.WalletRepository {
	if u.walletRepo == nil {
		panic(notStarted)
	}
	return u.walletRepo
}

// EventBus returns the transactional event publisher for this unit of work
func (u *unitOfWork) EventBus() interfaces.EventPublisher {
	if u.transactionalPublisher == nil {
		panic(notStarted)
	}
	return u.transactionalPublisher
}
