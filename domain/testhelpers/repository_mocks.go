package testhelpers

import (
	"context"
	"time"

	"pointsbot/domain/entities"
	"pointsbot/domain/events"

	"github.com/stretchr/testify/mock"
)

// MockGuildRepository is a mock implementation of GuildRepository
type MockGuildRepository struct {
	mock.Mock
}

func (m *MockGuildRepository) Ensure(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockGuildRepository) EnsureNamed(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

func (m *MockGuildRepository) Get(ctx context.Context) (*entities.Guild, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Guild), args.Error(1)
}

func (m *MockGuildRepository) ListIDs(ctx context.Context) ([]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

// MockMemberRepository is a mock implementation of MemberRepository
type MockMemberRepository struct {
	mock.Mock
}

func (m *MockMemberRepository) Get(ctx context.Context, userID int64) (*entities.Member, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Member), args.Error(1)
}

func (m *MockMemberRepository) GetOrCreate(ctx context.Context, userID int64) (*entities.Member, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Member), args.Error(1)
}

func (m *MockMemberRepository) GetForUpdate(ctx context.Context, userID int64) (*entities.Member, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Member), args.Error(1)
}

func (m *MockMemberRepository) AddToBalance(ctx context.Context, userID int64, delta int64) (int64, error) {
	args := m.Called(ctx, userID, delta)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMemberRepository) TopByBalance(ctx context.Context, limit int) ([]*entities.MemberPoints, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.MemberPoints), args.Error(1)
}

// MockTransactionRepository is a mock implementation of TransactionRepository
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Insert(ctx context.Context, tx *entities.PointsTransaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockTransactionRepository) ListRecentByUser(ctx context.Context, userID int64, limit int) ([]*entities.PointsTransaction, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.PointsTransaction), args.Error(1)
}

func (m *MockTransactionRepository) SumByUserSince(ctx context.Context, since time.Time, limit int) ([]*entities.MemberPoints, error) {
	args := m.Called(ctx, since, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.MemberPoints), args.Error(1)
}

func (m *MockTransactionRepository) SumForUser(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

// MockRoleMultiplierRepository is a mock implementation of RoleMultiplierRepository
type MockRoleMultiplierRepository struct {
	mock.Mock
}

func (m *MockRoleMultiplierRepository) Upsert(ctx context.Context, roleID int64, multiplier entities.Multiplier) (*entities.RoleMultiplier, error) {
	args := m.Called(ctx, roleID, multiplier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.RoleMultiplier), args.Error(1)
}

func (m *MockRoleMultiplierRepository) Delete(ctx context.Context, roleID int64) (bool, error) {
	args := m.Called(ctx, roleID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRoleMultiplierRepository) List(ctx context.Context) ([]*entities.RoleMultiplier, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.RoleMultiplier), args.Error(1)
}

// MockRewardRepository is a mock implementation of RewardRepository
type MockRewardRepository struct {
	mock.Mock
}

func (m *MockRewardRepository) Create(ctx context.Context, reward *entities.Reward) error {
	args := m.Called(ctx, reward)
	return args.Error(0)
}

func (m *MockRewardRepository) GetByID(ctx context.Context, id int64) (*entities.Reward, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Reward), args.Error(1)
}

func (m *MockRewardRepository) List(ctx context.Context) ([]*entities.Reward, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Reward), args.Error(1)
}

func (m *MockRewardRepository) Remove(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// MockRedemptionRepository is a mock implementation of RedemptionRepository
type MockRedemptionRepository struct {
	mock.Mock
}

func (m *MockRedemptionRepository) Create(ctx context.Context, redemption *entities.RewardRedemption) error {
	args := m.Called(ctx, redemption)
	return args.Error(0)
}

func (m *MockRedemptionRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]*entities.RewardRedemption, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.RewardRedemption), args.Error(1)
}

// MockActionPointRepository is a mock implementation of ActionPointRepository
type MockActionPointRepository struct {
	mock.Mock
}

func (m *MockActionPointRepository) Upsert(ctx context.Context, value *entities.ActionPointValue) error {
	args := m.Called(ctx, value)
	return args.Error(0)
}

func (m *MockActionPointRepository) Get(ctx context.Context, actionType entities.ActionType, channelID int64) (*entities.ActionPointValue, error) {
	args := m.Called(ctx, actionType, channelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ActionPointValue), args.Error(1)
}

func (m *MockActionPointRepository) List(ctx context.Context) ([]*entities.ActionPointValue, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.ActionPointValue), args.Error(1)
}

// MockQuestRepository is a mock implementation of QuestRepository
type MockQuestRepository struct {
	mock.Mock
}

func (m *MockQuestRepository) Create(ctx context.Context, quest *entities.Quest) error {
	args := m.Called(ctx, quest)
	return args.Error(0)
}

func (m *MockQuestRepository) GetByID(ctx context.Context, id int64) (*entities.Quest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Quest), args.Error(1)
}

func (m *MockQuestRepository) List(ctx context.Context, activeAt *time.Time) ([]*entities.Quest, error) {
	args := m.Called(ctx, activeAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Quest), args.Error(1)
}

func (m *MockQuestRepository) Delete(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// MockWalletRepository is a mock implementation of WalletRepository
type MockWalletRepository struct {
	mock.Mock
}

func (m *MockWalletRepository) Upsert(ctx context.Context, link *entities.WalletLink) error {
	args := m.Called(ctx, link)
	return args.Error(0)
}

func (m *MockWalletRepository) GetByUser(ctx context.Context, userID int64) (*entities.WalletLink, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.WalletLink), args.Error(1)
}

func (m *MockWalletRepository) List(ctx context.Context) ([]*entities.WalletLink, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.WalletLink), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher for testing
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) error {
	args := m.Called(event)
	return args.Error(0)
}

// MockTransactionalEventPublisher is a mock implementation of TransactionalEventPublisher
type MockTransactionalEventPublisher struct {
	mock.Mock
}

func (m *MockTransactionalEventPublisher) Publish(event events.Event) error {
	args := m.Called(event)
	return args.Error(0)
}

func (m *MockTransactionalEventPublisher) Flush(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTransactionalEventPublisher) Discard() {
	m.Called()
}

// NewPermissiveTransactionalPublisher returns a publisher mock that accepts any call
func NewPermissiveTransactionalPublisher() *MockTransactionalEventPublisher {
	publisher := new(MockTransactionalEventPublisher)
	publisher.On("Publish", mock.Anything).Return(nil).Maybe()
	publisher.On("Flush", mock.Anything).Return(nil).Maybe()
	publisher.On("Discard").Return().Maybe()
	return publisher
}
