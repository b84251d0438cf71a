package repository

import (
	"context"
	"testing"
	"time"

	"pointsbot/domain"
	"pointsbot/domain/entities"
	"pointsbot/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedMember(t *testing.T, ctx context.Context, q queryable, guildID, userID int64) {
	t.Helper()
	require.NoError(t, newGuildRepository(q, guildID).Ensure(ctx))
	_, err := newMemberRepository(q, guildID).GetOrCreate(ctx, userID)
	require.NoError(t, err)
}

func TestTransactionRepository_Insert(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	seedMember(t, ctx, testDB.DB.Pool, 1, 42)
	repo := newTransactionRepository(testDB.DB.Pool, 1)

	t.Run("sets id and round trips metadata", func(t *testing.T) {
		tx := testutil.CreateTestTransaction(1, 42, entities.ActionTypeXLike, "tweet-1", 5)
		tx.MultiplierApplied = 15000
		tx.TotalPoints = 7
		tx.Metadata = map[string]string{"tweetUrl": "https://x.com/p/1"}

		require.NoError(t, repo.Insert(ctx, tx))
		assert.NotZero(t, tx.ID)

		recent, err := repo.ListRecentByUser(ctx, 42, 10)
		require.NoError(t, err)
		require.Len(t, recent, 1)
		assert.Equal(t, entities.Multiplier(15000), recent[0].MultiplierApplied)
		assert.Equal(t, entities.SourceSocial, recent[0].Source)
		assert.Equal(t, "https://x.com/p/1", recent[0].Metadata["tweetUrl"])
	})

	t.Run("same key is a duplicate", func(t *testing.T) {
		tx := testutil.CreateTestTransaction(1, 42, entities.ActionTypeXLike, "tweet-1", 5)
		err := repo.Insert(ctx, tx)
		assert.ErrorIs(t, err, domain.ErrDuplicateTransaction)
	})

	t.Run("same reference for another action is distinct", func(t *testing.T) {
		tx := testutil.CreateTestTransaction(1, 42, entities.ActionTypeXRetweet, "tweet-1", 8)
		require.NoError(t, repo.Insert(ctx, tx))
	})

	t.Run("nil metadata is stored as empty", func(t *testing.T) {
		tx := testutil.CreateTestTransaction(1, 42, entities.ActionTypeXReply, "tweet-2", 10)
		require.NoError(t, repo.Insert(ctx, tx))
	})

	t.Run("sum for user", func(t *testing.T) {
		total, err := repo.SumForUser(ctx, 42)
		require.NoError(t, err)
		assert.Equal(t, int64(7+8+10), total)

		total, err = repo.SumForUser(ctx, 999)
		require.NoError(t, err)
		assert.Zero(t, total)
	})
}

func TestTransactionRepository_SumByUserSince(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	now := time.Now().UTC()
	for _, userID := range []int64{1, 2, 3, 4, 5} {
		seedMember(t, ctx, testDB.DB.Pool, 10, userID)
	}
	seedMember(t, ctx, testDB.DB.Pool, 20, 1)

	repo := newTransactionRepository(testDB.DB.Pool, 10)
	inserts := []*entities.PointsTransaction{
		testutil.CreateTestTransactionAt(10, 1, "a", 50, now.Add(-time.Hour)),
		testutil.CreateTestTransactionAt(10, 2, "b", 30, now.Add(-time.Hour)),
		testutil.CreateTestTransactionAt(10, 3, "c", 30, now.Add(-2*time.Hour)),
		testutil.CreateTestTransactionAt(10, 4, "d", 10, now.Add(-time.Hour)),
		testutil.CreateTestTransactionAt(10, 4, "e", -10, now.Add(-time.Minute)),
		testutil.CreateTestTransactionAt(10, 5, "f", 500, now.Add(-48*time.Hour)),
	}
	for _, tx := range inserts {
		require.NoError(t, repo.Insert(ctx, tx))
	}
	require.NoError(t, newTransactionRepository(testDB.DB.Pool, 20).
		Insert(ctx, testutil.CreateTestTransactionAt(20, 1, "a", 1000, now)))

	totals, err := repo.SumByUserSince(ctx, now.Add(-24*time.Hour), 10)
	require.NoError(t, err)

	assert.Equal(t, []*entities.MemberPoints{
		{UserID: 1, Points: 50},
		{UserID: 2, Points: 30},
		{UserID: 3, Points: 30},
	}, totals)

	limited, err := repo.SumByUserSince(ctx, now.Add(-24*time.Hour), 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}
