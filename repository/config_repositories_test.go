package repository

import (
	"context"
	"testing"
	"time"

	"pointsbot/domain/entities"
	"pointsbot/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleMultiplierRepository(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	require.NoError(t, newGuildRepository(testDB.DB.Pool, 1).Ensure(ctx))
	repo := newRoleMultiplierRepository(testDB.DB.Pool, 1)

	_, err := repo.Upsert(ctx, 10, 12000)
	require.NoError(t, err)
	_, err = repo.Upsert(ctx, 20, 15000)
	require.NoError(t, err)
	saved, err := repo.Upsert(ctx, 10, 13000)
	require.NoError(t, err)
	assert.Equal(t, entities.Multiplier(13000), saved.Multiplier)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, int64(20), list[0].RoleID)
	assert.Equal(t, entities.Multiplier(13000), list[1].Multiplier)

	_, err = repo.Upsert(ctx, 30, 9000)
	assert.Error(t, err, "multipliers below 1 violate the check constraint")

	deleted, err := repo.Delete(ctx, 10)
	require.NoError(t, err)
	assert.True(t, deleted)
	deleted, err = repo.Delete(ctx, 10)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestRewardRepository(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	require.NoError(t, newGuildRepository(testDB.DB.Pool, 1).Ensure(ctx))
	repo := newRewardRepository(testDB.DB.Pool, 1)

	expensive := testutil.CreateTestRoleReward(1, 777, 500)
	cheap := testutil.CreateTestRoleReward(1, 778, 50)
	require.NoError(t, repo.Create(ctx, expensive))
	require.NoError(t, repo.Create(ctx, cheap))

	got, err := repo.GetByID(ctx, expensive.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.NotNil(t, got.RoleID)
	assert.Equal(t, int64(777), *got.RoleID)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, cheap.ID, list[0].ID)

	removed, err := repo.Remove(ctx, expensive.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	got, err = repo.GetByID(ctx, expensive.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	removed, err = repo.Remove(ctx, expensive.ID)
	require.NoError(t, err)
	assert.False(t, removed)

	otherGuild, err := newRewardRepository(testDB.DB.Pool, 2).GetByID(ctx, cheap.ID)
	require.NoError(t, err)
	assert.Nil(t, otherGuild)
}

func TestActionPointRepository(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	require.NoError(t, newGuildRepository(testDB.DB.Pool, 1).Ensure(ctx))
	repo := newActionPointRepository(testDB.DB.Pool, 1)

	require.NoError(t, repo.Upsert(ctx, &entities.ActionPointValue{ActionType: entities.ActionTypeDiscordMessage, Points: 2}))
	require.NoError(t, repo.Upsert(ctx, &entities.ActionPointValue{ActionType: entities.ActionTypeDiscordMessage, ChannelID: 55, Points: 6}))
	require.NoError(t, repo.Upsert(ctx, &entities.ActionPointValue{ActionType: entities.ActionTypeDiscordMessage, Points: 3}))

	guildWide, err := repo.Get(ctx, entities.ActionTypeDiscordMessage, entities.GuildWideChannel)
	require.NoError(t, err)
	assert.Equal(t, int64(3), guildWide.Points)

	channel, err := repo.Get(ctx, entities.ActionTypeDiscordMessage, 55)
	require.NoError(t, err)
	assert.True(t, channel.IsChannelOverride())

	missing, err := repo.Get(ctx, entities.ActionTypeXLike, entities.GuildWideChannel)
	require.NoError(t, err)
	assert.Nil(t, missing)

	values, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, values, 2)
}

func TestQuestRepository(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	require.NoError(t, newGuildRepository(testDB.DB.Pool, 1).Ensure(ctx))
	repo := newQuestRepository(testDB.DB.Pool, 1)

	now := time.Now().UTC()
	past := now.Add(-48 * time.Hour)
	yesterday := now.Add(-24 * time.Hour)

	open := &entities.Quest{Title: "Open", RewardPoints: 10}
	expired := &entities.Quest{Title: "Expired", RewardPoints: 10, StartsAt: &past, EndsAt: &yesterday}
	require.NoError(t, repo.Create(ctx, open))
	require.NoError(t, repo.Create(ctx, expired))

	all, err := repo.List(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	active, err := repo.List(ctx, &now)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, open.ID, active[0].ID)

	got, err := repo.GetByID(ctx, expired.ID)
	require.NoError(t, err)
	require.NotNil(t, got.EndsAt)

	deleted, err := repo.Delete(ctx, expired.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
	got, err = repo.GetByID(ctx, expired.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestWalletRepository(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	seedMember(t, ctx, testDB.DB.Pool, 1, 42)
	repo := newWalletRepository(testDB.DB.Pool, 1)

	require.NoError(t, repo.Upsert(ctx, &entities.WalletLink{UserID: 42, Address: testutil.CreateTestWallet(1)}))
	require.NoError(t, repo.Upsert(ctx, &entities.WalletLink{UserID: 42, Address: testutil.CreateTestWallet(2)}))

	link, err := repo.GetByUser(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, testutil.CreateTestWallet(2), link.Address)

	links, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, links, 1)

	missing, err := repo.GetByUser(ctx, 7)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestGuildRepository_EnsureNamed(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()
	repo := newGuildRepository(testDB.DB.Pool, 7)

	guild, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, guild)

	require.NoError(t, repo.Ensure(ctx))
	guild, err = repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "", guild.Name)

	require.NoError(t, repo.EnsureNamed(ctx, "Points HQ"))
	guild, err = repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Points HQ", guild.Name)

	// an unnamed ensure keeps the recorded name
	require.NoError(t, repo.Ensure(ctx))
	require.NoError(t, repo.EnsureNamed(ctx, ""))
	guild, err = repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Points HQ", guild.Name)

	require.NoError(t, repo.EnsureNamed(ctx, "Renamed"))
	guild, err = repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", guild.Name)
	assert.Equal(t, int64(7), guild.ID)
}
