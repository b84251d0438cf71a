package testhelpers

import (
	"context"

	"pointsbot/domain/entities"

	"github.com/stretchr/testify/mock"
)

// MockLedgerStore is a mock implementation of LedgerStore
type MockLedgerStore struct {
	mock.Mock
}

func (m *MockLedgerStore) RecordTransaction(ctx context.Context, tx *entities.PointsTransaction) (entities.RecordOutcome, error) {
	args := m.Called(ctx, tx)
	return args.Get(0).(entities.RecordOutcome), args.Error(1)
}

// MockMultiplierResolver is a mock implementation of MultiplierResolver
type MockMultiplierResolver struct {
	mock.Mock
}

func (m *MockMultiplierResolver) ResolveMultiplier(ctx context.Context, guildID, userID int64) (entities.Multiplier, error) {
	args := m.Called(ctx, guildID, userID)
	return args.Get(0).(entities.Multiplier), args.Error(1)
}

// MockMultiplierCache is a mock implementation of MultiplierCache
type MockMultiplierCache struct {
	mock.Mock
}

func (m *MockMultiplierCache) Refresh(ctx context.Context, guildID int64) error {
	args := m.Called(ctx, guildID)
	return args.Error(0)
}

func (m *MockMultiplierCache) Invalidate(guildID int64) {
	m.Called(guildID)
}

func (m *MockMultiplierCache) InvalidateAll() {
	m.Called()
}

// MockAwarder is a mock implementation of Awarder
type MockAwarder struct {
	mock.Mock
}

func (m *MockAwarder) AwardPoints(ctx context.Context, req *entities.AwardRequest) (*entities.PointsTransaction, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.PointsTransaction), args.Error(1)
}

// MockBasePointsResolver is a mock implementation of BasePointsResolver
type MockBasePointsResolver struct {
	mock.Mock
}

func (m *MockBasePointsResolver) ResolveBasePoints(ctx context.Context, guildID, channelID int64, actionType entities.ActionType) (int64, error) {
	args := m.Called(ctx, guildID, channelID, actionType)
	return args.Get(0).(int64), args.Error(1)
}

// MockRoleLookup is a mock implementation of RoleLookup
type MockRoleLookup struct {
	mock.Mock
}

func (m *MockRoleLookup) MemberRoles(ctx context.Context, guildID, userID int64) ([]int64, error) {
	args := m.Called(ctx, guildID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

// MockHolderSource is a mock implementation of HolderSource
type MockHolderSource struct {
	mock.Mock
}

func (m *MockHolderSource) IsHolder(ctx context.Context, guildID int64, address string) (bool, error) {
	args := m.Called(ctx, guildID, address)
	return args.Bool(0), args.Error(1)
}

// MockGuildLister is a mock implementation of GuildLister
type MockGuildLister struct {
	mock.Mock
}

func (m *MockGuildLister) ListIDs(ctx context.Context) ([]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

// MockLedgerMetrics is a mock implementation of LedgerMetrics
type MockLedgerMetrics struct {
	mock.Mock
}

func (m *MockLedgerMetrics) RecordAward(actionType entities.ActionType, outcome string, points int64) {
	m.Called(actionType, outcome, points)
}

func (m *MockLedgerMetrics) RecordRedemption(outcome string) {
	m.Called(outcome)
}
