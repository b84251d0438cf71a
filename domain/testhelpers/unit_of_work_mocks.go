package testhelpers

import (
	"context"

	"pointsbot/domain/interfaces"

	"github.com/stretchr/testify/mock"
)

// MockUnitOfWork is a mock UnitOfWork whose repositories are mocks
type MockUnitOfWork struct {
	mock.Mock

	GuildRepo          *MockGuildRepository
	MemberRepo         *MockMemberRepository
	TransactionRepo    *MockTransactionRepository
	RoleMultiplierRepo *MockRoleMultiplierRepository
	RewardRepo         *MockRewardRepository
	RedemptionRepo     *MockRedemptionRepository
	ActionPointRepo    *MockActionPointRepository
	QuestRepo          *MockQuestRepository
	WalletRepo         *MockWalletRepository
	Publisher          *MockEventPublisher
}

// NewMockUnitOfWork creates a MockUnitOfWork with fresh repository mocks
func NewMockUnitOfWork() *MockUnitOfWork {
	return &MockUnitOfWork{
		GuildRepo:          new(MockGuildRepository),
		MemberRepo:         new(MockMemberRepository),
		TransactionRepo:    new(MockTransactionRepository),
		RoleMultiplierRepo: new(MockRoleMultiplierRepository),
		RewardRepo:         new(MockRewardRepository),
		RedemptionRepo:     new(MockRedemptionRepository),
		ActionPointRepo:    new(MockActionPointRepository),
		QuestRepo:          new(MockQuestRepository),
		WalletRepo:         new(MockWalletRepository),
		Publisher:          new(MockEventPublisher),
	}
}

// ExpectTransaction sets up Begin and Rollback, plus Commit when commit is true
func (m *MockUnitOfWork) ExpectTransaction(commit bool) *MockUnitOfWork {
	m.On("Begin", mock.Anything).Return(nil)
	m.On("Rollback").Return(nil).Maybe()
	if commit {
		m.On("Commit").Return(nil)
	}
	return m
}

// AssertAllExpectations asserts the unit of work and every repository mock
func (m *MockUnitOfWork) AssertAllExpectations(t mock.TestingT) {
	m.AssertExpectations(t)
	m.GuildRepo.AssertExpectations(t)
	m.MemberRepo.AssertExpectations(t)
	m.TransactionRepo.AssertExpectations(t)
	m.RoleMultiplierRepo.AssertExpectations(t)
	m.RewardRepo.AssertExpectations(t)
	m.RedemptionRepo.AssertExpectations(t)
	m.ActionPointRepo.AssertExpectations(t)
	m.QuestRepo.AssertExpectations(t)
	m.WalletRepo.AssertExpectations(t)
	m.Publisher.AssertExpectations(t)
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) GuildRepository() interfaces.GuildRepository {
	return m.GuildRepo
}

func (m *MockUnitOfWork) MemberRepository() interfaces.MemberRepository {
	return m.MemberRepo
}

func (m *MockUnitOfWork) TransactionRepository() interfaces.TransactionRepository {
	return m.TransactionRepo
}

func (m *MockUnitOfWork) RoleMultiplierRepository() interfaces.RoleMultiplierRepository {
	return m.RoleMultiplierRepo
}

func (m *MockUnitOfWork) RewardRepository() interfaces.RewardRepository {
	return m.RewardRepo
}

func (m *MockUnitOfWork) RedemptionRepository() interfaces.RedemptionRepository {
	return m.RedemptionRepo
}

func (m *MockUnitOfWork) ActionPointRepository() interfaces.ActionPointRepository {
	return m.ActionPointRepo
}

func (m *MockUnitOfWork) QuestRepository() interfaces.QuestRepository {
	return m.QuestRepo
}

func (m *MockUnitOfWork) WalletRepository() interfaces.WalletRepository {
	return m.WalletRepo
}

func (m *MockUnitOfWork) EventBus() interfaces.EventPublisher {
	return m.Publisher
}

// MockUnitOfWorkFactory hands out the same MockUnitOfWork for every guild
type MockUnitOfWorkFactory struct {
	mock.Mock
}

// NewMockUnitOfWorkFactory returns a factory that always creates uow
func NewMockUnitOfWorkFactory(uow *MockUnitOfWork) *MockUnitOfWorkFactory {
	factory := new(MockUnitOfWorkFactory)
	factory.On("CreateForGuild", mock.Anything).Return(uow)
	return factory
}

func (f *MockUnitOfWorkFactory) CreateForGuild(guildID int64) interfaces.UnitOfWork {
	args := f.Called(guildID)
	return args.Get(0).(interfaces.UnitOfWork)
}
