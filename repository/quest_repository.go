package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pointsbot/domain/entities"

	"github.com/jackc/pgx/v5"
)

// QuestRepository implements the QuestRepository interface
type QuestRepository struct {
	q       queryable
	guildID int64
}

func newQuestRepository(q queryable, guildID int64) *QuestRepository {
	return &QuestRepository{
		q:       q,
		guildID: guildID,
	}
}

const questColumns = `id, guild_id, title, description, reward_points, starts_at, ends_at, created_at`

// Create stores a quest and sets its ID
func (r *QuestRepository) Create(ctx context.Context, quest *entities.Quest) error {
	query := `
		INSERT INTO quests (guild_id, title, description, reward_points, starts_at, ends_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		r.guildID,
		quest.Title,
		quest.Description,
		quest.RewardPoints,
		quest.StartsAt,
		quest.EndsAt,
	).Scan(&quest.ID, &quest.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create quest in guild %d: %w", r.guildID, err)
	}
	quest.GuildID = r.guildID
	return nil
}

// GetByID retrieves a quest of the current guild
func (r *QuestRepository) GetByID(ctx context.Context, id int64) (*entities.Quest, error) {
	query := `SELECT ` + questColumns + ` FROM quests WHERE id = $1 AND guild_id = $2`

	quest, err := scanQuest(r.q.QueryRow(ctx, query, id, r.guildID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get quest %d in guild %d: %w", id, r.guildID, err)
	}
	return quest, nil
}

// List returns the guild's quests, newest first
func (r *QuestRepository) List(ctx context.Context, activeAt *time.Time) ([]*entities.Quest, error) {
	query := `
		SELECT ` + questColumns + `
		FROM quests
		WHERE guild_id = $1
		  AND ($2::TIMESTAMPTZ IS NULL OR (
		      (starts_at IS NULL OR starts_at <= $2) AND
		      (ends_at IS NULL OR ends_at >= $2)))
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.q.Query(ctx, query, r.guildID, activeAt)
	if err != nil {
		return nil, fmt.Errorf("failed to list quests in guild %d: %w", r.guildID, err)
	}
	defer rows.Close()

	quests := []*entities.Quest{}
	for rows.Next() {
		quest, err := scanQuest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan quest: %w", err)
		}
		quests = append(quests, quest)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating quests: %w", err)
	}
	return quests, nil
}

// Delete removes a quest
func (r *QuestRepository) Delete(ctx context.Context, id int64) (bool, error) {
	result, err := r.q.Exec(ctx, `DELETE FROM quests WHERE id = $1 AND guild_id = $2`, id, r.guildID)
	if err != nil {
		return false, fmt.Errorf("failed to delete quest %d in guild %d: %w", id, r.guildID, err)
	}
	return result.RowsAffected() > 0, nil
}

func scanQuest(row pgx.Row) (*entities.Quest, error) {
	var quest entities.Quest
	err := row.Scan(
		&quest.ID,
		&quest.GuildID,
		&quest.Title,
		&quest.Description,
		&quest.RewardPoints,
		&quest.StartsAt,
		&quest.EndsAt,
		&quest.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &quest, nil
}
