package services

import (
	"context"
	"fmt"

	"pointsbot/domain"
	"pointsbot/domain/entities"
	"pointsbot/domain/events"
	"pointsbot/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// PointsConfigService manages action values, role multipliers and rewards
type PointsConfigService struct {
	uowFactory      interfaces.UnitOfWorkFactory
	multiplierCache interfaces.MultiplierCache
	defaults        map[entities.ActionType]int64
}

// NewPointsConfigService creates a new PointsConfigService. defaults holds
// base points per action type used when a guild has no override.
func NewPointsConfigService(uowFactory interfaces.UnitOfWorkFactory, multiplierCache interfaces.MultiplierCache, defaults map[string]int64) *PointsConfigService {
	typed := make(map[entities.ActionType]int64, len(defaults))
	for action, points := range defaults {
		typed[entities.ActionType(action)] = points
	}
	return &PointsConfigService{
		uowFactory:      uowFactory,
		multiplierCache: multiplierCache,
		defaults:        typed,
	}
}

// SetActionPointValue sets the base points for an action in a guild, or in
// one channel when channelID is not zero
func (s *PointsConfigService) SetActionPointValue(ctx context.Context, guildID int64, actionType entities.ActionType, points int64, channelID int64) (*entities.ActionPointValue, error) {
	if !actionType.IsAwardable() {
		return nil, domain.NewValidationError("action type %q is not configurable", actionType)
	}
	if points < 0 {
		return nil, domain.NewValidationError("points must not be negative")
	}

	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.GuildRepository().Ensure(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure guild: %w", err)
	}

	value := &entities.ActionPointValue{
		GuildID:    guildID,
		ActionType: actionType,
		ChannelID:  channelID,
		Points:     points,
	}
	if err := uow.ActionPointRepository().Upsert(ctx, value); err != nil {
		return nil, fmt.Errorf("failed to save action point value: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"guildID":    guildID,
		"actionType": actionType,
		"channelID":  channelID,
		"points":     points,
	}).Info("Action point value updated")

	return value, nil
}

// GetActionPointConfig returns every override configured for a guild
func (s *PointsConfigService) GetActionPointConfig(ctx context.Context, guildID int64) ([]*entities.ActionPointValue, error) {
	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	values, err := uow.ActionPointRepository().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list action point values: %w", err)
	}
	return values, nil
}

// ResolveBasePoints returns the channel override, else the guild-wide value,
// else the configured default for the action
func (s *PointsConfigService) ResolveBasePoints(ctx context.Context, guildID, channelID int64, actionType entities.ActionType) (int64, error) {
	if !actionType.IsAwardable() {
		return 0, domain.NewValidationError("action type %q cannot be awarded", actionType)
	}

	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	repo := uow.ActionPointRepository()
	if channelID != entities.GuildWideChannel {
		value, err := repo.Get(ctx, actionType, channelID)
		if err != nil {
			return 0, fmt.Errorf("failed to get channel action value: %w", err)
		}
		if value != nil {
			return value.Points, nil
		}
	}

	value, err := repo.Get(ctx, actionType, entities.GuildWideChannel)
	if err != nil {
		return 0, fmt.Errorf("failed to get guild action value: %w", err)
	}
	if value != nil {
		return value.Points, nil
	}

	return s.defaults[actionType], nil
}

// SetRoleMultiplier configures a role's multiplier. The guild's cached
// multiplier table is refreshed before returning.
func (s *PointsConfigService) SetRoleMultiplier(ctx context.Context, guildID, roleID int64, multiplier entities.Multiplier) (*entities.RoleMultiplier, error) {
	if multiplier < entities.DefaultMultiplier {
		return nil, domain.NewValidationError("multiplier must be at least 1")
	}
	if multiplier > entities.MaxMultiplier {
		return nil, domain.NewValidationError("multiplier must be at most %s", entities.MaxMultiplier)
	}
	if roleID == 0 {
		return nil, domain.NewValidationError("role is required")
	}

	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.GuildRepository().Ensure(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure guild: %w", err)
	}

	saved, err := uow.RoleMultiplierRepository().Upsert(ctx, roleID, multiplier)
	if err != nil {
		return nil, fmt.Errorf("failed to save role multiplier: %w", err)
	}

	if err := uow.EventBus().Publish(events.RoleMultipliersChangedEvent{GuildID: guildID, RoleID: roleID}); err != nil {
		return nil, fmt.Errorf("failed to publish multiplier change: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	if err := s.refreshMultipliers(ctx, guildID); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"guildID":    guildID,
		"roleID":     roleID,
		"multiplier": multiplier.String(),
	}).Info("Role multiplier set")

	return saved, nil
}

// RemoveRoleMultiplier deletes a role's multiplier and refreshes the cache
func (s *PointsConfigService) RemoveRoleMultiplier(ctx context.Context, guildID, roleID int64) error {
	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	deleted, err := uow.RoleMultiplierRepository().Delete(ctx, roleID)
	if err != nil {
		return fmt.Errorf("failed to delete role multiplier: %w", err)
	}
	if !deleted {
		return domain.NewNotFoundError("role multiplier", roleID)
	}

	if err := uow.EventBus().Publish(events.RoleMultipliersChangedEvent{GuildID: guildID, RoleID: roleID, Removed: true}); err != nil {
		return fmt.Errorf("failed to publish multiplier change: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	if err := s.refreshMultipliers(ctx, guildID); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"guildID": guildID,
		"roleID":  roleID,
	}).Info("Role multiplier removed")

	return nil
}

// GetRoleMultipliers lists a guild's role multipliers
func (s *PointsConfigService) GetRoleMultipliers(ctx context.Context, guildID int64) ([]*entities.RoleMultiplier, error) {
	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	multipliers, err := uow.RoleMultiplierRepository().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list role multipliers: %w", err)
	}
	return multipliers, nil
}

// CreateRoleReward creates a reward that grants roleID for cost points
func (s *PointsConfigService) CreateRoleReward(ctx context.Context, guildID, roleID, cost int64) (*entities.Reward, error) {
	if cost <= 0 {
		return nil, domain.NewValidationError("cost must be positive")
	}
	if roleID == 0 {
		return nil, domain.NewValidationError("role is required")
	}

	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.GuildRepository().Ensure(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure guild: %w", err)
	}

	reward := &entities.Reward{
		GuildID: guildID,
		Type:    entities.RewardTypeRole,
		RoleID:  &roleID,
		Cost:    cost,
	}
	if err := uow.RewardRepository().Create(ctx, reward); err != nil {
		return nil, fmt.Errorf("failed to create reward: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return reward, nil
}

// ListRewards returns a guild's active rewards
func (s *PointsConfigService) ListRewards(ctx context.Context, guildID int64) ([]*entities.Reward, error) {
	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	rewards, err := uow.RewardRepository().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list rewards: %w", err)
	}
	return rewards, nil
}

// RemoveReward withdraws a reward from redemption
func (s *PointsConfigService) RemoveReward(ctx context.Context, guildID, rewardID int64) error {
	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	removed, err := uow.RewardRepository().Remove(ctx, rewardID)
	if err != nil {
		return fmt.Errorf("failed to remove reward: %w", err)
	}
	if !removed {
		return domain.NewNotFoundError("reward", rewardID)
	}

	return uow.Commit()
}

func (s *PointsConfigService) refreshMultipliers(ctx context.Context, guildID int64) error {
	if err := s.multiplierCache.Refresh(ctx, guildID); err != nil {
		return fmt.Errorf("failed to refresh multiplier cache: %w", err)
	}
	return nil
}
