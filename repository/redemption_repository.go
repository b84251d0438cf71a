package repository

import (
	"context"
	"fmt"

	"pointsbot/domain/entities"
)

// RedemptionRepository implements the RedemptionRepository interface
type RedemptionRepository struct {
	q       queryable
	guildID int64
}

func newRedemptionRepository(q queryable, guildID int64) *RedemptionRepository {
	return &RedemptionRepository{
		q:       q,
		guildID: guildID,
	}
}

// Create records a redemption and sets its ID
func (r *RedemptionRepository) Create(ctx context.Context, redemption *entities.RewardRedemption) error {
	query := `
		INSERT INTO reward_redemptions (reward_id, guild_id, user_id, transaction_id, cost, redeemed_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	err := r.q.QueryRow(ctx, query,
		redemption.RewardID,
		r.guildID,
		redemption.UserID,
		redemption.TransactionID,
		redemption.Cost,
		redemption.RedeemedAt,
	).Scan(&redemption.ID)
	if err != nil {
		return fmt.Errorf("failed to record redemption of reward %d: %w", redemption.RewardID, err)
	}
	redemption.GuildID = r.guildID
	return nil
}

// ListByUser returns the member's redemptions, newest first
func (r *RedemptionRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]*entities.RewardRedemption, error) {
	query := `
		SELECT id, reward_id, guild_id, user_id, transaction_id, cost, redeemed_at
		FROM reward_redemptions
		WHERE guild_id = $1 AND user_id = $2
		ORDER BY redeemed_at DESC, id DESC
		LIMIT $3
	`

	rows, err := r.q.Query(ctx, query, r.guildID, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list redemptions for member %d: %w", userID, err)
	}
	defer rows.Close()

	redemptions := []*entities.RewardRedemption{}
	for rows.Next() {
		var redemption entities.RewardRedemption
		err := rows.Scan(
			&redemption.ID,
			&redemption.RewardID,
			&redemption.GuildID,
			&redemption.UserID,
			&redemption.TransactionID,
			&redemption.Cost,
			&redemption.RedeemedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan redemption: %w", err)
		}
		redemptions = append(redemptions, &redemption)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating redemptions: %w", err)
	}
	return redemptions, nil
}
