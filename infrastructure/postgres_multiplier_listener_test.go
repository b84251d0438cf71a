package infrastructure

import (
	"context"
	"testing"
	"time"

	"pointsbot/domain/entities"
	"pointsbot/domain/testhelpers"
	"pointsbot/repository"
	"pointsbot/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// invalidationRecorder reports invalidated guild ids on a channel
type invalidationRecorder struct {
	guilds chan int64
}

func newInvalidationRecorder() *invalidationRecorder {
	return &invalidationRecorder{guilds: make(chan int64, 16)}
}

func (r *invalidationRecorder) Refresh(ctx context.Context, guildID int64) error { return nil }

func (r *invalidationRecorder) Invalidate(guildID int64) { r.guilds <- guildID }

func (r *invalidationRecorder) InvalidateAll() {}

func (r *invalidationRecorder) next(t *testing.T) int64 {
	t.Helper()
	select {
	case guildID := <-r.guilds:
		return guildID
	case <-time.After(10 * time.Second):
		t.Fatal("no invalidation received")
		return 0
	}
}

func TestPostgresMultiplierListener_HandleNotification(t *testing.T) {
	cache := new(testhelpers.MockMultiplierCache)
	cache.On("Invalidate", int64(123456789012345678)).Return().Once()
	listener := NewPostgresMultiplierListener(nil, cache)

	listener.HandleNotification("123456789012345678")
	listener.HandleNotification("not-a-guild")

	cache.AssertExpectations(t)
}

func TestPostgresMultiplierListener_InvalidatesOnCommittedChanges(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	testDB := testutil.SetupTestDatabase(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cache := newInvalidationRecorder()
	listener := NewPostgresMultiplierListener(testDB.DB, cache)
	require.NoError(t, listener.Start(ctx))

	factory := repository.NewUnitOfWorkFactory(testDB.DB)
	const guildID = int64(987654321)

	// set
	uow := factory.CreateForGuildWithPublisher(guildID, testhelpers.NewPermissiveTransactionalPublisher())
	require.NoError(t, uow.Begin(ctx))
	require.NoError(t, uow.GuildRepository().Ensure(ctx))
	_, err := uow.RoleMultiplierRepository().Upsert(ctx, 10, entities.Multiplier(15000))
	require.NoError(t, err)
	require.NoError(t, uow.Commit())
	assert.Equal(t, guildID, cache.next(t))

	// rolled back changes are never announced
	uow = factory.CreateForGuildWithPublisher(guildID, testhelpers.NewPermissiveTransactionalPublisher())
	require.NoError(t, uow.Begin(ctx))
	_, err = uow.RoleMultiplierRepository().Upsert(ctx, 10, entities.Multiplier(30000))
	require.NoError(t, err)
	require.NoError(t, uow.Rollback())

	// remove
	uow = factory.CreateForGuildWithPublisher(guildID, testhelpers.NewPermissiveTransactionalPublisher())
	require.NoError(t, uow.Begin(ctx))
	deleted, err := uow.RoleMultiplierRepository().Delete(ctx, 10)
	require.NoError(t, err)
	require.True(t, deleted)
	require.NoError(t, uow.Commit())
	assert.Equal(t, guildID, cache.next(t))

	select {
	case extra := <-cache.guilds:
		t.Fatalf("unexpected invalidation for guild %d", extra)
	default:
	}
}
