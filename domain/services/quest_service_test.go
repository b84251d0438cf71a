package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"pointsbot/domain"
	"pointsbot/domain/entities"
	"pointsbot/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var questNow = time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)

func newTestQuestService(uow *testhelpers.MockUnitOfWork, awarder *testhelpers.MockAwarder) *QuestService {
	service := NewQuestService(testhelpers.NewMockUnitOfWorkFactory(uow), awarder)
	service.now = func() time.Time { return questNow }
	return service
}

func TestQuestService_CreateQuest(t *testing.T) {
	t.Parallel()

	t.Run("creates trimmed quest", func(t *testing.T) {
		t.Parallel()

		uow := testhelpers.NewMockUnitOfWork().ExpectTransaction(true)
		uow.GuildRepo.On("Ensure", mock.Anything).Return(nil)
		uow.QuestRepo.On("Create", mock.Anything, mock.MatchedBy(func(q *entities.Quest) bool {
			return q.Title == "Share the launch" && q.RewardPoints == 50
		})).Run(func(args mock.Arguments) {
			args.Get(1).(*entities.Quest).ID = 4
		}).Return(nil)

		quest, err := newTestQuestService(uow, new(testhelpers.MockAwarder)).
			CreateQuest(context.Background(), 1, "  Share the launch ", "", 50, nil, nil)

		require.NoError(t, err)
		assert.Equal(t, int64(4), quest.ID)
		uow.AssertAllExpectations(t)
	})

	start := questNow
	before := questNow.Add(-time.Hour)
	invalid := []struct {
		name   string
		title  string
		reward int64
		ends   *time.Time
	}{
		{"empty title", "   ", 10, nil},
		{"title too long", strings.Repeat("q", 201), 10, nil},
		{"zero reward", "Quest", 0, nil},
		{"ends before start", "Quest", 10, &before},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			factory := new(testhelpers.MockUnitOfWorkFactory)
			service := NewQuestService(factory, new(testhelpers.MockAwarder))

			_, err := service.CreateQuest(context.Background(), 1, tt.title, "", tt.reward, &start, tt.ends)

			assert.True(t, domain.IsValidation(err))
			factory.AssertNotCalled(t, "CreateForGuild", mock.Anything)
		})
	}
}

func TestQuestService_CompleteQuest(t *testing.T) {
	t.Parallel()

	past := questNow.Add(-48 * time.Hour)
	yesterday := questNow.Add(-24 * time.Hour)

	t.Run("awards quest reward", func(t *testing.T) {
		t.Parallel()

		uow := testhelpers.NewMockUnitOfWork().ExpectTransaction(false)
		uow.QuestRepo.On("GetByID", mock.Anything, int64(4)).
			Return(&entities.Quest{ID: 4, GuildID: 1, Title: "Share", RewardPoints: 50}, nil)
		awarder := new(testhelpers.MockAwarder)
		awarded := &entities.PointsTransaction{ID: 30, TotalPoints: 75}
		awarder.On("AwardPoints", mock.Anything, mock.MatchedBy(func(req *entities.AwardRequest) bool {
			return req.ActionType == entities.ActionTypeQuest &&
				req.ReferenceID == "quest:4" &&
				req.BasePoints == 50 &&
				req.UserID == 42
		})).Return(awarded, nil)

		tx, err := newTestQuestService(uow, awarder).CompleteQuest(context.Background(), 1, 4, 42)

		require.NoError(t, err)
		assert.Equal(t, awarded, tx)
		awarder.AssertExpectations(t)
	})

	t.Run("expired quest", func(t *testing.T) {
		t.Parallel()

		uow := testhelpers.NewMockUnitOfWork().ExpectTransaction(false)
		uow.QuestRepo.On("GetByID", mock.Anything, int64(4)).
			Return(&entities.Quest{ID: 4, Title: "Old", RewardPoints: 50, StartsAt: &past, EndsAt: &yesterday}, nil)
		awarder := new(testhelpers.MockAwarder)

		_, err := newTestQuestService(uow, awarder).CompleteQuest(context.Background(), 1, 4, 42)

		assert.True(t, domain.IsValidation(err))
		awarder.AssertNotCalled(t, "AwardPoints", mock.Anything, mock.Anything)
	})

	t.Run("unknown quest", func(t *testing.T) {
		t.Parallel()

		uow := testhelpers.NewMockUnitOfWork().ExpectTransaction(false)
		uow.QuestRepo.On("GetByID", mock.Anything, int64(4)).Return(nil, nil)

		_, err := newTestQuestService(uow, new(testhelpers.MockAwarder)).CompleteQuest(context.Background(), 1, 4, 42)

		assert.True(t, domain.IsNotFound(err))
	})
}

func TestQuestService_ListQuests(t *testing.T) {
	t.Parallel()

	uow := testhelpers.NewMockUnitOfWork().ExpectTransaction(false)
	uow.QuestRepo.On("List", mock.Anything, mock.MatchedBy(func(at *time.Time) bool {
		return at != nil && at.Equal(questNow)
	})).Return([]*entities.Quest{{ID: 1}}, nil)

	quests, err := newTestQuestService(uow, new(testhelpers.MockAwarder)).ListQuests(context.Background(), 1, true)

	require.NoError(t, err)
	assert.Len(t, quests, 1)
}
