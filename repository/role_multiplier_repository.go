package repository

import (
	"context"
	"fmt"

	"pointsbot/domain/entities"
)

// RoleMultiplierRepository implements the RoleMultiplierRepository interface
type RoleMultiplierRepository struct {
	q       queryable
	guildID int64
}

func newRoleMultiplierRepository(q queryable, guildID int64) *RoleMultiplierRepository {
	return &RoleMultiplierRepository{
		q:       q,
		guildID: guildID,
	}
}

// Upsert sets the multiplier for a role
func (r *RoleMultiplierRepository) Upsert(ctx context.Context, roleID int64, multiplier entities.Multiplier) (*entities.RoleMultiplier, error) {
	query := `
		INSERT INTO role_multipliers (guild_id, role_id, multiplier_bp)
		VALUES ($1, $2, $3)
		ON CONFLICT (guild_id, role_id) DO UPDATE
		SET multiplier_bp = EXCLUDED.multiplier_bp, updated_at = NOW()
		RETURNING updated_at
	`

	saved := &entities.RoleMultiplier{
		GuildID:    r.guildID,
		RoleID:     roleID,
		Multiplier: multiplier,
	}
	err := r.q.QueryRow(ctx, query, r.guildID, roleID, multiplier.BasisPoints()).Scan(&saved.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to save multiplier for role %d in guild %d: %w", roleID, r.guildID, err)
	}
	return saved, nil
}

// Delete removes a role's multiplier
func (r *RoleMultiplierRepository) Delete(ctx context.Context, roleID int64) (bool, error) {
	result, err := r.q.Exec(ctx, `DELETE FROM role_multipliers WHERE guild_id = $1 AND role_id = $2`, r.guildID, roleID)
	if err != nil {
		return false, fmt.Errorf("failed to delete multiplier for role %d in guild %d: %w", roleID, r.guildID, err)
	}
	return result.RowsAffected() > 0, nil
}

// List returns the guild's role multipliers, highest first
func (r *RoleMultiplierRepository) List(ctx context.Context) ([]*entities.RoleMultiplier, error) {
	query := `
		SELECT guild_id, role_id, multiplier_bp, updated_at
		FROM role_multipliers
		WHERE guild_id = $1
		ORDER BY multiplier_bp DESC, role_id ASC
	`

	rows, err := r.q.Query(ctx, query, r.guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to list role multipliers in guild %d: %w", r.guildID, err)
	}
	defer rows.Close()

	multipliers := []*entities.RoleMultiplier{}
	for rows.Next() {
		var (
			rm entities.RoleMultiplier
			bp int64
		)
		if err := rows.Scan(&rm.GuildID, &rm.RoleID, &bp, &rm.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan role multiplier: %w", err)
		}
		rm.Multiplier = entities.Multiplier(bp)
		multipliers = append(multipliers, &rm)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating role multipliers: %w", err)
	}
	return multipliers, nil
}
