package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pointsbot/domain"
	"pointsbot/domain/entities"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	uniqueViolationCode = "23505"
	idempotencyKeyName  = "points_transactions_idempotency_key"
)

// TransactionRepository implements the TransactionRepository interface
type TransactionRepository struct {
	q       queryable
	guildID int64
}

func newTransactionRepository(q queryable, guildID int64) *TransactionRepository {
	return &TransactionRepository{
		q:       q,
		guildID: guildID,
	}
}

// Insert appends a ledger entry and sets its ID
func (r *TransactionRepository) Insert(ctx context.Context, tx *entities.PointsTransaction) error {
	query := `
		INSERT INTO points_transactions (
			guild_id, user_id, source, action_type, reference_id,
			base_points, multiplier_bp, total_points, occurred_at, metadata
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`

	metadata := tx.Metadata
	if metadata == nil {
		metadata = map[string]string{}
	}

	err := r.q.QueryRow(ctx, query,
		r.guildID,
		tx.UserID,
		string(tx.Source),
		string(tx.ActionType),
		tx.ReferenceID,
		tx.BasePoints,
		tx.MultiplierApplied.BasisPoints(),
		tx.TotalPoints,
		tx.OccurredAt,
		metadata,
	).Scan(&tx.ID)
	if err != nil {
		if isIdempotencyViolation(err) {
			return domain.ErrDuplicateTransaction
		}
		return fmt.Errorf("failed to insert transaction for member %d in guild %d: %w", tx.UserID, r.guildID, err)
	}

	tx.GuildID = r.guildID
	return nil
}

// ListRecentByUser returns the member's newest transactions
func (r *TransactionRepository) ListRecentByUser(ctx context.Context, userID int64, limit int) ([]*entities.PointsTransaction, error) {
	query := `
		SELECT id, guild_id, user_id, source, action_type, reference_id,
		       base_points, multiplier_bp, total_points, occurred_at, metadata
		FROM points_transactions
		WHERE guild_id = $1 AND user_id = $2
		ORDER BY occurred_at DESC, id DESC
		LIMIT $3
	`

	rows, err := r.q.Query(ctx, query, r.guildID, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions for member %d: %w", userID, err)
	}
	defer rows.Close()

	transactions := []*entities.PointsTransaction{}
	for rows.Next() {
		var (
			tx           entities.PointsTransaction
			source       string
			actionType   string
			multiplierBP int64
		)
		err := rows.Scan(
			&tx.ID,
			&tx.GuildID,
			&tx.UserID,
			&source,
			&actionType,
			&tx.ReferenceID,
			&tx.BasePoints,
			&multiplierBP,
			&tx.TotalPoints,
			&tx.OccurredAt,
			&tx.Metadata,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		tx.Source = entities.Source(source)
		tx.ActionType = entities.ActionType(actionType)
		tx.MultiplierApplied = entities.Multiplier(multiplierBP)
		transactions = append(transactions, &tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}
	return transactions, nil
}

// SumByUserSince totals each member's transactions since the given time
func (r *TransactionRepository) SumByUserSince(ctx context.Context, since time.Time, limit int) ([]*entities.MemberPoints, error) {
	query := `
		SELECT user_id, SUM(total_points)::BIGINT AS points
		FROM points_transactions
		WHERE guild_id = $1 AND occurred_at >= $2
		GROUP BY user_id
		HAVING SUM(total_points) > 0
		ORDER BY points DESC, user_id ASC
		LIMIT $3
	`

	rows, err := r.q.Query(ctx, query, r.guildID, since, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to sum transactions in guild %d: %w", r.guildID, err)
	}
	defer rows.Close()

	return scanMemberPoints(rows)
}

// SumForUser totals every transaction of one member
func (r *TransactionRepository) SumForUser(ctx context.Context, userID int64) (int64, error) {
	query := `
		SELECT COALESCE(SUM(total_points), 0)::BIGINT
		FROM points_transactions
		WHERE guild_id = $1 AND user_id = $2
	`

	var total int64
	if err := r.q.QueryRow(ctx, query, r.guildID, userID).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to sum transactions for member %d: %w", userID, err)
	}
	return total, nil
}

func isIdempotencyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == uniqueViolationCode && pgErr.ConstraintName == idempotencyKeyName
}
