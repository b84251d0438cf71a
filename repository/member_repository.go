package repository

import (
	"context"
	"errors"
	"fmt"

	"pointsbot/domain/entities"

	"github.com/jackc/pgx/v5"
)

// MemberRepository implements the MemberRepository interface
type MemberRepository struct {
	q       queryable
	guildID int64
}

func newMemberRepository(q queryable, guildID int64) *MemberRepository {
	return &MemberRepository{
		q:       q,
		guildID: guildID,
	}
}

const memberColumns = `guild_id, user_id, balance, created_at, updated_at`

// Get retrieves a member of the current guild
func (r *MemberRepository) Get(ctx context.Context, userID int64) (*entities.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE guild_id = $1 AND user_id = $2`

	member, err := scanMember(r.q.QueryRow(ctx, query, r.guildID, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get member %d in guild %d: %w", userID, r.guildID, err)
	}
	return member, nil
}

// GetOrCreate retrieves a member, creating it with a zero balance if needed
func (r *MemberRepository) GetOrCreate(ctx context.Context, userID int64) (*entities.Member, error) {
	query := `
		INSERT INTO members (guild_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (guild_id, user_id) DO UPDATE SET guild_id = EXCLUDED.guild_id
		RETURNING ` + memberColumns

	member, err := scanMember(r.q.QueryRow(ctx, query, r.guildID, userID))
	if err != nil {
		return nil, fmt.Errorf("failed to get or create member %d in guild %d: %w", userID, r.guildID, err)
	}
	return member, nil
}

// GetForUpdate retrieves a member and locks the row for the rest of the transaction
func (r *MemberRepository) GetForUpdate(ctx context.Context, userID int64) (*entities.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE guild_id = $1 AND user_id = $2 FOR UPDATE`

	member, err := scanMember(r.q.QueryRow(ctx, query, r.guildID, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("member %d not found in guild %d", userID, r.guildID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock member %d in guild %d: %w", userID, r.guildID, err)
	}
	return member, nil
}

// AddToBalance adds delta to the member's balance and returns the result.
// The balance CHECK constraint rejects updates that would go negative.
func (r *MemberRepository) AddToBalance(ctx context.Context, userID int64, delta int64) (int64, error) {
	query := `
		UPDATE members
		SET balance = balance + $3, updated_at = NOW()
		WHERE guild_id = $1 AND user_id = $2
		RETURNING balance
	`

	var balance int64
	err := r.q.QueryRow(ctx, query, r.guildID, userID, delta).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("member %d not found in guild %d", userID, r.guildID)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to update balance for member %d in guild %d: %w", userID, r.guildID, err)
	}
	return balance, nil
}

// TopByBalance returns the richest members of the guild
func (r *MemberRepository) TopByBalance(ctx context.Context, limit int) ([]*entities.MemberPoints, error) {
	query := `
		SELECT user_id, balance
		FROM members
		WHERE guild_id = $1
		ORDER BY balance DESC, user_id ASC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, r.guildID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top members in guild %d: %w", r.guildID, err)
	}
	defer rows.Close()

	return scanMemberPoints(rows)
}

func scanMember(row pgx.Row) (*entities.Member, error) {
	var member entities.Member
	err := row.Scan(
		&member.GuildID,
		&member.UserID,
		&member.Balance,
		&member.CreatedAt,
		&member.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func scanMemberPoints(rows pgx.Rows) ([]*entities.MemberPoints, error) {
	totals := []*entities.MemberPoints{}
	for rows.Next() {
		var total entities.MemberPoints
		if err := rows.Scan(&total.UserID, &total.Points); err != nil {
			return nil, fmt.Errorf("failed to scan member points: %w", err)
		}
		totals = append(totals, &total)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating member points: %w", err)
	}
	return totals, nil
}
