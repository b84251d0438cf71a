package repository

import (
	"context"
	"errors"
	"fmt"

	"pointsbot/domain/entities"

	"github.com/jackc/pgx/v5"
)

// RewardRepository implements the RewardRepository interface
type RewardRepository struct {
	q       queryable
	guildID int64
}

func newRewardRepository(q queryable, guildID int64) *RewardRepository {
	return &RewardRepository{
		q:       q,
		guildID: guildID,
	}
}

// Create stores a new reward and sets its ID
func (r *RewardRepository) Create(ctx context.Context, reward *entities.Reward) error {
	query := `
		INSERT INTO rewards (guild_id, reward_type, role_id, cost)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query, r.guildID, string(reward.Type), reward.RoleID, reward.Cost).
		Scan(&reward.ID, &reward.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create reward in guild %d: %w", r.guildID, err)
	}
	reward.GuildID = r.guildID
	return nil
}

// GetByID retrieves an active reward
func (r *RewardRepository) GetByID(ctx context.Context, id int64) (*entities.Reward, error) {
	query := `
		SELECT id, guild_id, reward_type, role_id, cost, created_at
		FROM rewards
		WHERE id = $1 AND guild_id = $2 AND removed_at IS NULL
	`

	reward, err := scanReward(r.q.QueryRow(ctx, query, id, r.guildID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reward %d in guild %d: %w", id, r.guildID, err)
	}
	return reward, nil
}

// List returns the guild's active rewards, cheapest first
func (r *RewardRepository) List(ctx context.Context) ([]*entities.Reward, error) {
	query := `
		SELECT id, guild_id, reward_type, role_id, cost, created_at
		FROM rewards
		WHERE guild_id = $1 AND removed_at IS NULL
		ORDER BY cost ASC, id ASC
	`

	rows, err := r.q.Query(ctx, query, r.guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to list rewards in guild %d: %w", r.guildID, err)
	}
	defer rows.Close()

	rewards := []*entities.Reward{}
	for rows.Next() {
		reward, err := scanReward(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reward: %w", err)
		}
		rewards = append(rewards, reward)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rewards: %w", err)
	}
	return rewards, nil
}

// Remove marks a reward as withdrawn
func (r *RewardRepository) Remove(ctx context.Context, id int64) (bool, error) {
	query := `
		UPDATE rewards
		SET removed_at = NOW()
		WHERE id = $1 AND guild_id = $2 AND removed_at IS NULL
	`

	result, err := r.q.Exec(ctx, query, id, r.guildID)
	if err != nil {
		return false, fmt.Errorf("failed to remove reward %d in guild %d: %w", id, r.guildID, err)
	}
	return result.RowsAffected() > 0, nil
}

func scanReward(row pgx.Row) (*entities.Reward, error) {
	var (
		reward     entities.Reward
		rewardType string
	)
	err := row.Scan(
		&reward.ID,
		&reward.GuildID,
		&rewardType,
		&reward.RoleID,
		&reward.Cost,
		&reward.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	reward.Type = entities.RewardType(rewardType)
	return &reward, nil
}
