package services

import (
	"fmt"
	"sync"
	"testing"

	"pointsbot/domain/entities"

	"github.com/stretchr/testify/assert"
)

func testKey(guildID int64, ref string) IdempotencyKey {
	return IdempotencyKey{
		GuildID:     guildID,
		UserID:      42,
		ActionType:  entities.ActionTypeXLike,
		ReferenceID: ref,
	}
}

func TestIdempotencyGuard_MarkAndLookup(t *testing.T) {
	t.Parallel()

	guard := NewIdempotencyGuard(10)
	key := testKey(1, "tweet-1")

	assert.False(t, guard.WasProcessed(key))

	guard.MarkProcessed(key, 99)

	txID, seen := guard.Lookup(key)
	assert.True(t, seen)
	assert.Equal(t, int64(99), txID)
	assert.True(t, guard.WasProcessed(key))

	// Keys differing in any component are distinct
	other := key
	other.ActionType = entities.ActionTypeXRetweet
	assert.False(t, guard.WasProcessed(other))
	assert.False(t, guard.WasProcessed(testKey(2, "tweet-1")))
}

func TestIdempotencyGuard_EvictsOldestPerGuild(t *testing.T) {
	t.Parallel()

	guard := NewIdempotencyGuard(3)
	for i := 0; i < 5; i++ {
		guard.MarkProcessed(testKey(1, fmt.Sprintf("ref-%d", i)), int64(i))
	}
	guard.MarkProcessed(testKey(2, "ref-0"), 100)

	assert.Equal(t, 3, guard.Len(1))
	assert.Equal(t, 1, guard.Len(2))
	assert.False(t, guard.WasProcessed(testKey(1, "ref-0")))
	assert.False(t, guard.WasProcessed(testKey(1, "ref-1")))
	assert.True(t, guard.WasProcessed(testKey(1, "ref-2")))
	assert.True(t, guard.WasProcessed(testKey(1, "ref-4")))
	assert.True(t, guard.WasProcessed(testKey(2, "ref-0")))
}

func TestIdempotencyGuard_MarkTwiceKeepsFirst(t *testing.T) {
	t.Parallel()

	guard := NewIdempotencyGuard(3)
	key := testKey(1, "ref")
	guard.MarkProcessed(key, 1)
	guard.MarkProcessed(key, 2)

	txID, _ := guard.Lookup(key)
	assert.Equal(t, int64(1), txID)
	assert.Equal(t, 1, guard.Len(1))
}

func TestIdempotencyGuard_Invalidate(t *testing.T) {
	t.Parallel()

	guard := NewIdempotencyGuard(0)
	guard.MarkProcessed(testKey(1, "a"), 1)
	guard.MarkProcessed(testKey(2, "a"), 2)

	guard.Invalidate(1)

	assert.False(t, guard.WasProcessed(testKey(1, "a")))
	assert.True(t, guard.WasProcessed(testKey(2, "a")))
	assert.Equal(t, 0, guard.Len(1))
}

func TestIdempotencyGuard_Concurrent(t *testing.T) {
	t.Parallel()

	guard := NewIdempotencyGuard(1000)
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				key := testKey(int64(worker%2+1), fmt.Sprintf("ref-%d-%d", worker, i))
				guard.MarkProcessed(key, int64(i))
				assert.True(t, guard.WasProcessed(key))
			}
		}(g)
	}
	wg.Wait()

	assert.Equal(t, 400, guard.Len(1))
	assert.Equal(t, 400, guard.Len(2))
}
