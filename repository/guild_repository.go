package repository

import (
	"context"
	"errors"
	"fmt"

	"pointsbot/database"
	"pointsbot/domain/entities"

	"github.com/jackc/pgx/v5"
)

// GuildRepository implements the GuildRepository interface
type GuildRepository struct {
	q       queryable
	guildID int64
}

// NewGuildRepository creates an unscoped guild repository for listing tenants
func NewGuildRepository(db *database.DB) *GuildRepository {
	return &GuildRepository{q: db.Pool}
}

func newGuildRepository(q queryable, guildID int64) *GuildRepository {
	return &GuildRepository{
		q:       q,
		guildID: guildID,
	}
}

// Ensure creates the scoped guild if it does not exist
func (r *GuildRepository) Ensure(ctx context.Context) error {
	query := `
		INSERT INTO guilds (guild_id)
		VALUES ($1)
		ON CONFLICT (guild_id) DO NOTHING
	`

	if _, err := r.q.Exec(ctx, query, r.guildID); err != nil {
		return fmt.Errorf("failed to ensure guild %d: %w", r.guildID, err)
	}
	return nil
}

// EnsureNamed creates the scoped guild if needed and records its name
func (r *GuildRepository) EnsureNamed(ctx context.Context, name string) error {
	query := `
		INSERT INTO guilds (guild_id, name)
		VALUES ($1, NULLIF($2, ''))
		ON CONFLICT (guild_id) DO UPDATE
		SET name = COALESCE(EXCLUDED.name, guilds.name)
	`

	if _, err := r.q.Exec(ctx, query, r.guildID, name); err != nil {
		return fmt.Errorf("failed to ensure guild %d: %w", r.guildID, err)
	}
	return nil
}

// Get returns the scoped guild, or nil if it has never been seen
func (r *GuildRepository) Get(ctx context.Context) (*entities.Guild, error) {
	query := `
		SELECT guild_id, COALESCE(name, ''), created_at
		FROM guilds
		WHERE guild_id = $1
	`

	var guild entities.Guild
	err := r.q.QueryRow(ctx, query, r.guildID).Scan(&guild.ID, &guild.Name, &guild.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get guild %d: %w", r.guildID, err)
	}
	return &guild, nil
}

// ListIDs returns the ids of every guild that has used the bot
func (r *GuildRepository) ListIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.q.Query(ctx, `SELECT guild_id FROM guilds ORDER BY guild_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list guilds: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan guild id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating guilds: %w", err)
	}
	return ids, nil
}
