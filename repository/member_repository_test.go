package repository

import (
	"context"
	"testing"

	"pointsbot/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemberRepository(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	require.NoError(t, newGuildRepository(testDB.DB.Pool, 1).Ensure(ctx))
	repo := newMemberRepository(testDB.DB.Pool, 1)

	t.Run("missing member", func(t *testing.T) {
		member, err := repo.Get(ctx, 42)
		require.NoError(t, err)
		assert.Nil(t, member)
	})

	t.Run("get or create is idempotent", func(t *testing.T) {
		created, err := repo.GetOrCreate(ctx, 42)
		require.NoError(t, err)
		assert.Equal(t, int64(0), created.Balance)

		_, err = repo.AddToBalance(ctx, 42, 25)
		require.NoError(t, err)

		again, err := repo.GetOrCreate(ctx, 42)
		require.NoError(t, err)
		assert.Equal(t, int64(25), again.Balance)
	})

	t.Run("balance cannot go negative", func(t *testing.T) {
		_, err := repo.AddToBalance(ctx, 42, -26)
		assert.Error(t, err)
	})

	t.Run("top by balance breaks ties by user id", func(t *testing.T) {
		for _, userID := range []int64{7, 3} {
			_, err := repo.GetOrCreate(ctx, userID)
			require.NoError(t, err)
			_, err = repo.AddToBalance(ctx, userID, 25)
			require.NoError(t, err)
		}

		top, err := repo.TopByBalance(ctx, 2)
		require.NoError(t, err)
		require.Len(t, top, 2)
		assert.Equal(t, int64(3), top[0].UserID)
		assert.Equal(t, int64(7), top[1].UserID)
	})

	t.Run("members are scoped by guild", func(t *testing.T) {
		require.NoError(t, newGuildRepository(testDB.DB.Pool, 2).Ensure(ctx))
		other := newMemberRepository(testDB.DB.Pool, 2)

		member, err := other.Get(ctx, 42)
		require.NoError(t, err)
		assert.Nil(t, member)

		ids, err := NewGuildRepository(testDB.DB).ListIDs(ctx)
		require.NoError(t, err)
		assert.Equal(t, []int64{1, 2}, ids)
	})
}
