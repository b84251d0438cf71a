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

const maxQuestTitleLength = 200

// QuestService manages quests and pays their rewards through the awarding engine
type QuestService struct {
	uowFactory interfaces.UnitOfWorkFactory
	awarder    interfaces.Awarder
	now        func() time.Time
}

// NewQuestService creates a new QuestService
func NewQuestService(uowFactory interfaces.UnitOfWorkFactory, awarder interfaces.Awarder) *QuestService {
	return &QuestService{
		uowFactory: uowFactory,
		awarder:    awarder,
		now:        time.Now,
	}
}

// CreateQuest validates and stores a new quest
func (s *QuestService) CreateQuest(ctx context.Context, guildID int64, title, description string, rewardPoints int64, startsAt, endsAt *time.Time) (*entities.Quest, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, domain.NewValidationError("title must not be empty")
	}
	if len(title) > maxQuestTitleLength {
		return nil, domain.NewValidationError("title must be at most %d characters", maxQuestTitleLength)
	}
	if rewardPoints <= 0 {
		return nil, domain.NewValidationError("reward must be positive")
	}
	if startsAt != nil && endsAt != nil && endsAt.Before(*startsAt) {
		return nil, domain.NewValidationError("quest must end after it starts")
	}

	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.GuildRepository().Ensure(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure guild: %w", err)
	}

	quest := &entities.Quest{
		GuildID:      guildID,
		Title:        title,
		Description:  strings.TrimSpace(description),
		RewardPoints: rewardPoints,
		StartsAt:     startsAt,
		EndsAt:       endsAt,
	}
	if err := uow.QuestRepository().Create(ctx, quest); err != nil {
		return nil, fmt.Errorf("failed to create quest: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"guildID": guildID,
		"questID": quest.ID,
		"reward":  rewardPoints,
	}).Info("Quest created")

	return quest, nil
}

// ListQuests returns a guild's quests, optionally only those active now
func (s *QuestService) ListQuests(ctx context.Context, guildID int64, activeOnly bool) ([]*entities.Quest, error) {
	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	var activeAt *time.Time
	if activeOnly {
		now := s.now().UTC()
		activeAt = &now
	}

	quests, err := uow.QuestRepository().List(ctx, activeAt)
	if err != nil {
		return nil, fmt.Errorf("failed to list quests: %w", err)
	}
	return quests, nil
}

// DeleteQuest removes a quest
func (s *QuestService) DeleteQuest(ctx context.Context, guildID, questID int64) error {
	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	deleted, err := uow.QuestRepository().Delete(ctx, questID)
	if err != nil {
		return fmt.Errorf("failed to delete quest: %w", err)
	}
	if !deleted {
		return domain.NewNotFoundError("quest", questID)
	}

	return uow.Commit()
}

// CompleteQuest pays the quest reward to a member. Completing the same
// quest again returns nil, nil.
func (s *QuestService) CompleteQuest(ctx context.Context, guildID, questID, userID int64) (*entities.PointsTransaction, error) {
	quest, err := s.getQuest(ctx, guildID, questID)
	if err != nil {
		return nil, err
	}
	if !quest.IsActiveAt(s.now().UTC()) {
		return nil, domain.NewValidationError("quest %q is not active", quest.Title)
	}

	return s.awarder.AwardPoints(ctx, &entities.AwardRequest{
		GuildID:     guildID,
		UserID:      userID,
		ActionType:  entities.ActionTypeQuest,
		ReferenceID: quest.CompletionReference(),
		BasePoints:  quest.RewardPoints,
		Metadata: map[string]string{
			"questTitle": quest.Title,
		},
	})
}

func (s *QuestService) getQuest(ctx context.Context, guildID, questID int64) (*entities.Quest, error) {
	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	quest, err := uow.QuestRepository().GetByID(ctx, questID)
	if err != nil {
		return nil, fmt.Errorf("failed to get quest: %w", err)
	}
	if quest == nil {
		return nil, domain.NewNotFoundError("quest", questID)
	}
	return quest, nil
}
