package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActionType_Source(t *testing.T) {
	assert.Equal(t, SourceSocial, ActionTypeXLike.Source())
	assert.Equal(t, SourceSocial, ActionTypeXReply.Source())
	assert.Equal(t, SourceChain, ActionTypeSolanaRole.Source())
	assert.Equal(t, SourceTenantInternal, ActionTypeQuest.Source())
	assert.Equal(t, SourceTenantInternal, ActionTypeRedeem.Source())

	assert.True(t, ActionTypeXRetweet.IsAwardable())
	assert.False(t, ActionTypeRedeem.IsAwardable())
	assert.False(t, ActionType("bogus").IsAwardable())
}

func TestParseLeaderboardWindow(t *testing.T) {
	w, err := ParseLeaderboardWindow("7d")
	require.NoError(t, err)
	assert.Equal(t, 7*24*time.Hour, w.Duration())
	assert.True(t, w.IsWindowed())

	w, err = ParseLeaderboardWindow("")
	require.NoError(t, err)
	assert.Equal(t, LeaderboardWindowAllTime, w)
	assert.False(t, w.IsWindowed())

	_, err = ParseLeaderboardWindow("30d")
	assert.Error(t, err)
}

func TestQuest_IsActiveAt(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	start := now.Add(-time.Hour)
	end := now.Add(time.Hour)

	assert.True(t, (&Quest{}).IsActiveAt(now))
	assert.True(t, (&Quest{StartsAt: &start, EndsAt: &end}).IsActiveAt(now))
	assert.False(t, (&Quest{StartsAt: &end}).IsActiveAt(now))
	assert.False(t, (&Quest{EndsAt: &start}).IsActiveAt(now))
	assert.Equal(t, "quest:42", (&Quest{ID: 42}).CompletionReference())
}
