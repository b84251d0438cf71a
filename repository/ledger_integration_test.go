package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"pointsbot/domain"
	"pointsbot/domain/entities"
	"pointsbot/domain/services"
	"pointsbot/domain/testhelpers"
	"pointsbot/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestLedger_ConcurrentDuplicateAwards(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	factory := newTestUnitOfWorkFactory(testDB.DB)
	store := services.NewLedgerStore(factory)

	const attempts = 10
	outcomes := make(chan entities.RecordOutcome, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tx := testutil.CreateTestTransaction(1, 42, entities.ActionTypeXLike, "tweet-1", 5)
			outcome, err := store.RecordTransaction(ctx, tx)
			assert.NoError(t, err)
			outcomes <- outcome
		}()
	}
	wg.Wait()
	close(outcomes)

	inserted := 0
	for outcome := range outcomes {
		if outcome == entities.RecordOutcomeInserted {
			inserted++
		}
	}
	assert.Equal(t, 1, inserted)

	member, err := newMemberRepository(testDB.DB.Pool, 1).Get(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(5), member.Balance)
}

func TestLedger_ConcurrentRedemptionsNeverOverdraw(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	factory := newTestUnitOfWorkFactory(testDB.DB)
	store := services.NewLedgerStore(factory)
	_, err := store.RecordTransaction(ctx, testutil.CreateTestTransaction(1, 42, entities.ActionTypeAdminGrant, "seed", 100))
	require.NoError(t, err)

	reward := testutil.CreateTestRoleReward(1, 777, 60)
	require.NoError(t, newRewardRepository(testDB.DB.Pool, 1).Create(ctx, reward))

	engine := services.NewRedemptionEngine(factory, nil)

	var (
		wg           sync.WaitGroup
		mu           sync.Mutex
		succeeded    int
		insufficient int
	)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := engine.Redeem(ctx, 1, 42, reward.ID)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case domain.IsValidation(err):
				insufficient++
			default:
				t.Errorf("unexpected redemption error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, insufficient)

	member, err := newMemberRepository(testDB.DB.Pool, 1).Get(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(40), member.Balance)

	sum, err := newTransactionRepository(testDB.DB.Pool, 1).SumForUser(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, member.Balance, sum)

	redemptions, err := newRedemptionRepository(testDB.DB.Pool, 1).ListByUser(ctx, 42, 10)
	require.NoError(t, err)
	assert.Len(t, redemptions, 1)
}

func TestLedger_BalanceMatchesLedgerAcrossGuilds(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	factory := newTestUnitOfWorkFactory(testDB.DB)
	roles := new(testhelpers.MockRoleLookup)
	roles.On("MemberRoles", mock.Anything, mock.Anything, mock.Anything).Return([]int64{10}, nil)
	resolver := services.NewMultiplierResolver(factory, roles, 10)
	engine := services.NewAwardingEngine(services.NewIdempotencyGuard(100), resolver, services.NewLedgerStore(factory), nil)

	config := services.NewPointsConfigService(factory, resolver, nil)
	_, err := config.SetRoleMultiplier(ctx, 1, 10, 15000)
	require.NoError(t, err)

	for guildID := int64(1); guildID <= 2; guildID++ {
		for i := 0; i < 3; i++ {
			_, err := engine.AwardPoints(ctx, &entities.AwardRequest{
				GuildID:     guildID,
				UserID:      42,
				ActionType:  entities.ActionTypeDiscordMessage,
				ReferenceID: fmt.Sprintf("msg-%d", i),
				BasePoints:  5,
			})
			require.NoError(t, err)
		}
	}

	expected := map[int64]int64{1: 3 * 7, 2: 3 * 5}
	for guildID, want := range expected {
		member, err := newMemberRepository(testDB.DB.Pool, guildID).Get(ctx, 42)
		require.NoError(t, err)
		assert.Equal(t, want, member.Balance, "guild %d", guildID)

		sum, err := newTransactionRepository(testDB.DB.Pool, guildID).SumForUser(ctx, 42)
		require.NoError(t, err)
		assert.Equal(t, want, sum, "guild %d", guildID)
	}
}
