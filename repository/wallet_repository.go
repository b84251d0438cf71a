package repository

import (
	"context"
	"errors"
	"fmt"

	"pointsbot/domain/entities"

	"github.com/jackc/pgx/v5"
)

// WalletRepository implements the WalletRepository interface
type WalletRepository struct {
	q       queryable
	guildID int64
}

func newWalletRepository(q queryable, guildID int64) *WalletRepository {
	return &WalletRepository{
		q:       q,
		guildID: guildID,
	}
}

// Upsert links or relinks a member's wallet
func (r *WalletRepository) Upsert(ctx context.Context, link *entities.WalletLink) error {
	query := `
		INSERT INTO wallet_links (guild_id, user_id, address)
		VALUES ($1, $2, $3)
		ON CONFLICT (guild_id, user_id) DO UPDATE
		SET address = EXCLUDED.address, linked_at = NOW()
		RETURNING linked_at
	`

	if err := r.q.QueryRow(ctx, query, r.guildID, link.UserID, link.Address).Scan(&link.LinkedAt); err != nil {
		return fmt.Errorf("failed to link wallet for member %d in guild %d: %w", link.UserID, r.guildID, err)
	}
	link.GuildID = r.guildID
	return nil
}

// GetByUser returns a member's wallet link
func (r *WalletRepository) GetByUser(ctx context.Context, userID int64) (*entities.WalletLink, error) {
	query := `
		SELECT guild_id, user_id, address, linked_at
		FROM wallet_links
		WHERE guild_id = $1 AND user_id = $2
	`

	var link entities.WalletLink
	err := r.q.QueryRow(ctx, query, r.guildID, userID).Scan(&link.GuildID, &link.UserID, &link.Address, &link.LinkedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet for member %d in guild %d: %w", userID, r.guildID, err)
	}
	return &link, nil
}

// List returns every wallet linked in the guild
func (r *WalletRepository) List(ctx context.Context) ([]*entities.WalletLink, error) {
	query := `
		SELECT guild_id, user_id, address, linked_at
		FROM wallet_links
		WHERE guild_id = $1
		ORDER BY user_id
	`

	rows, err := r.q.Query(ctx, query, r.guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to list wallets in guild %d: %w", r.guildID, err)
	}
	defer rows.Close()

	links := []*entities.WalletLink{}
	for rows.Next() {
		var link entities.WalletLink
		if err := rows.Scan(&link.GuildID, &link.UserID, &link.Address, &link.LinkedAt); err != nil {
			return nil, fmt.Errorf("failed to scan wallet link: %w", err)
		}
		links = append(links, &link)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating wallet links: %w", err)
	}
	return links, nil
}
