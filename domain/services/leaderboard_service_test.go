package services

import (
	"context"
	"testing"
	"time"

	"pointsbot/domain"
	"pointsbot/domain/entities"
	"pointsbot/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestLeaderboardAggregator_GetLeaderboard(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		window entities.LeaderboardWindow
		limit  int
		setup  func(*testhelpers.MockUnitOfWork)
		want   []*entities.LeaderboardEntry
	}{
		{
			name:   "all time ranks by balance",
			window: entities.LeaderboardWindowAllTime,
			limit:  0,
			setup: func(uow *testhelpers.MockUnitOfWork) {
				uow.MemberRepo.On("TopByBalance", mock.Anything, entities.DefaultLeaderboardLimit).Return([]*entities.MemberPoints{
					{UserID: 5, Points: 300},
					{UserID: 2, Points: 100},
					{UserID: 9, Points: 100},
				}, nil)
			},
			want: []*entities.LeaderboardEntry{
				{UserID: 5, Points: 300, Rank: 1},
				{UserID: 2, Points: 100, Rank: 2},
				{UserID: 9, Points: 100, Rank: 3},
			},
		},
		{
			name:   "all time keeps zero balances",
			window: entities.LeaderboardWindowAllTime,
			limit:  2,
			setup: func(uow *testhelpers.MockUnitOfWork) {
				uow.MemberRepo.On("TopByBalance", mock.Anything, 2).Return([]*entities.MemberPoints{
					{UserID: 1, Points: 0},
				}, nil)
			},
			want: []*entities.LeaderboardEntry{{UserID: 1, Points: 0, Rank: 1}},
		},
		{
			name:   "weekly window drops non-positive sums",
			window: entities.LeaderboardWindowWeek,
			limit:  10,
			setup: func(uow *testhelpers.MockUnitOfWork) {
				uow.TransactionRepo.On("SumByUserSince", mock.Anything, now.Add(-7*24*time.Hour), 10).Return([]*entities.MemberPoints{
					{UserID: 1, Points: 50},
					{UserID: 2, Points: 0},
					{UserID: 3, Points: -10},
				}, nil)
			},
			want: []*entities.LeaderboardEntry{{UserID: 1, Points: 50, Rank: 1}},
		},
		{
			name:   "daily window",
			window: entities.LeaderboardWindowDay,
			limit:  1,
			setup: func(uow *testhelpers.MockUnitOfWork) {
				uow.TransactionRepo.On("SumByUserSince", mock.Anything, now.Add(-24*time.Hour), 1).Return([]*entities.MemberPoints{
					{UserID: 4, Points: 8},
				}, nil)
			},
			want: []*entities.LeaderboardEntry{{UserID: 4, Points: 8, Rank: 1}},
		},
		{
			name:   "empty guild",
			window: entities.LeaderboardWindowAllTime,
			limit:  5,
			setup: func(uow *testhelpers.MockUnitOfWork) {
				uow.MemberRepo.On("TopByBalance", mock.Anything, 5).Return([]*entities.MemberPoints{}, nil)
			},
			want: []*entities.LeaderboardEntry{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			uow := testhelpers.NewMockUnitOfWork().ExpectTransaction(false)
			tt.setup(uow)

			service := NewLeaderboardAggregator(testhelpers.NewMockUnitOfWorkFactory(uow))
			service.now = func() time.Time { return now }

			got, err := service.GetLeaderboard(context.Background(), 1, tt.window, tt.limit)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			uow.AssertAllExpectations(t)
		})
	}
}

func TestLeaderboardAggregator_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		window entities.LeaderboardWindow
		limit  int
	}{
		{"limit above maximum", entities.LeaderboardWindowAllTime, 51},
		{"negative limit", entities.LeaderboardWindowAllTime, -1},
		{"unknown window", entities.LeaderboardWindow("monthly"), 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			factory := new(testhelpers.MockUnitOfWorkFactory)
			service := NewLeaderboardAggregator(factory)

			_, err := service.GetLeaderboard(context.Background(), 1, tt.window, tt.limit)

			assert.True(t, domain.IsValidation(err))
			factory.AssertNotCalled(t, "CreateForGuild", mock.Anything)
		})
	}
}
