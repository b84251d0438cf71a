package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"pointsbot/domain"
	"pointsbot/domain/entities"
	"pointsbot/domain/events"
	"pointsbot/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func sampleTransaction() *entities.PointsTransaction {
	return &entities.PointsTransaction{
		GuildID:           1,
		UserID:            42,
		Source:            entities.SourceTenantInternal,
		ActionType:        entities.ActionTypeDiscordMessage,
		ReferenceID:       "msg-1",
		BasePoints:        10,
		MultiplierApplied: 15000,
		TotalPoints:       15,
		OccurredAt:        time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestLedgerStore_RecordTransaction(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		setup       func(*testhelpers.MockUnitOfWork)
		commit      bool
		want        entities.RecordOutcome
		errContains string
	}{
		{
			name:   "inserts and credits balance",
			commit: true,
			setup: func(uow *testhelpers.MockUnitOfWork) {
				uow.GuildRepo.On("Ensure", mock.Anything).Return(nil)
				uow.MemberRepo.On("GetOrCreate", mock.Anything, int64(42)).Return(&entities.Member{GuildID: 1, UserID: 42}, nil)
				uow.TransactionRepo.On("Insert", mock.Anything, mock.Anything).
					Run(func(args mock.Arguments) {
						args.Get(1).(*entities.PointsTransaction).ID = 9
					}).Return(nil)
				uow.MemberRepo.On("AddToBalance", mock.Anything, int64(42), int64(15)).Return(int64(115), nil)
				uow.Publisher.On("Publish", mock.MatchedBy(func(e events.PointsAwardedEvent) bool {
					return e.TransactionID == 9 && e.NewBalance == 115 && e.TotalPoints == 15
				})).Return(nil)
			},
			want: entities.RecordOutcomeInserted,
		},
		{
			name: "duplicate key leaves balance untouched",
			setup: func(uow *testhelpers.MockUnitOfWork) {
				uow.GuildRepo.On("Ensure", mock.Anything).Return(nil)
				uow.MemberRepo.On("GetOrCreate", mock.Anything, int64(42)).Return(&entities.Member{GuildID: 1, UserID: 42}, nil)
				uow.TransactionRepo.On("Insert", mock.Anything, mock.Anything).Return(domain.ErrDuplicateTransaction)
			},
			want: entities.RecordOutcomeDuplicate,
		},
		{
			name: "insert failure",
			setup: func(uow *testhelpers.MockUnitOfWork) {
				uow.GuildRepo.On("Ensure", mock.Anything).Return(nil)
				uow.MemberRepo.On("GetOrCreate", mock.Anything, int64(42)).Return(&entities.Member{GuildID: 1, UserID: 42}, nil)
				uow.TransactionRepo.On("Insert", mock.Anything, mock.Anything).Return(errors.New("disk full"))
			},
			errContains: "failed to insert transaction",
		},
		{
			name: "balance update failure",
			setup: func(uow *testhelpers.MockUnitOfWork) {
				uow.GuildRepo.On("Ensure", mock.Anything).Return(nil)
				uow.MemberRepo.On("GetOrCreate", mock.Anything, int64(42)).Return(&entities.Member{GuildID: 1, UserID: 42}, nil)
				uow.TransactionRepo.On("Insert", mock.Anything, mock.Anything).Return(nil)
				uow.MemberRepo.On("AddToBalance", mock.Anything, int64(42), int64(15)).Return(int64(0), errors.New("constraint"))
			},
			errContains: "failed to update balance",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			uow := testhelpers.NewMockUnitOfWork().ExpectTransaction(tt.commit)
			tt.setup(uow)

			store := NewLedgerStore(testhelpers.NewMockUnitOfWorkFactory(uow))
			got, err := store.RecordTransaction(context.Background(), sampleTransaction())

			if tt.errContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			uow.AssertAllExpectations(t)
			if !tt.commit {
				uow.AssertNotCalled(t, "Commit")
			}
		})
	}
}
