package repository

import (
	"context"
	"errors"
	"fmt"

	"pointsbot/domain/entities"

	"github.com/jackc/pgx/v5"
)

// ActionPointRepository implements the ActionPointRepository interface
type ActionPointRepository struct {
	q       queryable
	guildID int64
}

func newActionPointRepository(q queryable, guildID int64) *ActionPointRepository {
	return &ActionPointRepository{
		q:       q,
		guildID: guildID,
	}
}

// Upsert sets the base points for an action, guild-wide or for one channel
func (r *ActionPointRepository) Upsert(ctx context.Context, value *entities.ActionPointValue) error {
	query := `
		INSERT INTO action_point_values (guild_id, action_type, channel_id, points)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (guild_id, action_type, channel_id) DO UPDATE
		SET points = EXCLUDED.points, updated_at = NOW()
		RETURNING updated_at
	`

	err := r.q.QueryRow(ctx, query, r.guildID, string(value.ActionType), value.ChannelID, value.Points).
		Scan(&value.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save %s points in guild %d: %w", value.ActionType, r.guildID, err)
	}
	value.GuildID = r.guildID
	return nil
}

// Get returns the value configured for exactly this action and channel
func (r *ActionPointRepository) Get(ctx context.Context, actionType entities.ActionType, channelID int64) (*entities.ActionPointValue, error) {
	query := `
		SELECT guild_id, action_type, channel_id, points, updated_at
		FROM action_point_values
		WHERE guild_id = $1 AND action_type = $2 AND channel_id = $3
	`

	value, err := scanActionPointValue(r.q.QueryRow(ctx, query, r.guildID, string(actionType), channelID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s points in guild %d: %w", actionType, r.guildID, err)
	}
	return value, nil
}

// List returns every action value configured in the guild
func (r *ActionPointRepository) List(ctx context.Context) ([]*entities.ActionPointValue, error) {
	query := `
		SELECT guild_id, action_type, channel_id, points, updated_at
		FROM action_point_values
		WHERE guild_id = $1
		ORDER BY action_type, channel_id
	`

	rows, err := r.q.Query(ctx, query, r.guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to list action points in guild %d: %w", r.guildID, err)
	}
	defer rows.Close()

	values := []*entities.ActionPointValue{}
	for rows.Next() {
		value, err := scanActionPointValue(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan action point value: %w", err)
		}
		values = append(values, value)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating action point values: %w", err)
	}
	return values, nil
}

func scanActionPointValue(row pgx.Row) (*entities.ActionPointValue, error) {
	var (
		value      entities.ActionPointValue
		actionType string
	)
	if err := row.Scan(&value.GuildID, &actionType, &value.ChannelID, &value.Points, &value.UpdatedAt); err != nil {
		return nil, err
	}
	value.ActionType = entities.ActionType(actionType)
	return &value, nil
}
