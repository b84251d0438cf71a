package cmd

import (
	"context"
	"testing"

	"pointsbot/bot"
	"pointsbot/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "pointsbot", cmd.Use)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, FormatText, formatFlag.DefValue)
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := [][]string{
		{"serve"},
		{"migrate", "up"},
		{"migrate", "down"},
		{"migrate", "status"},
		{"award"},
		{"redeem"},
		{"leaderboard"},
		{"balance"},
		{"multiplier", "set"},
		{"reward", "create"},
		{"action-points", "set"},
		{"quest", "complete"},
		{"wallet", "link"},
	}

	for _, path := range commands {
		t.Run(path[len(path)-1], func(t *testing.T) {
			subCmd, _, err := cmd.Find(path)
			require.NoError(t, err)
			assert.Equal(t, path[len(path)-1], subCmd.Name())
		})
	}
}

func TestAwardCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	awardCmd, _, err := cmd.Find([]string{"award"})
	require.NoError(t, err)

	action := awardCmd.Flags().Lookup("action")
	require.NotNil(t, action)
	assert.Equal(t, "admin_grant", action.DefValue)
	assert.NotNil(t, awardCmd.Flags().Lookup("role"))
	assert.NotNil(t, awardCmd.Flags().Lookup("ref"))
}

func TestInvalidFormatRejected(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"--format", "yaml", "migrate", "status"})
	cmd.SilenceErrors = true

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestParseOptionalTime(t *testing.T) {
	got, err := parseOptionalTime("")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = parseOptionalTime("2024-05-01T12:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, 2024, got.Year())

	_, err = parseOptionalTime("tomorrow")
	assert.Error(t, err)
}

func TestAdminRoleLookup(t *testing.T) {
	ctx := context.Background()

	t.Run("role override wins over Discord", func(t *testing.T) {
		lookup, err := adminRoleLookup(&config.Config{DiscordToken: "token"}, []int64{10, 20})
		require.NoError(t, err)

		roles, err := lookup.MemberRoles(ctx, 1, 42)
		require.NoError(t, err)
		assert.Equal(t, []int64{10, 20}, roles)
	})

	t.Run("Discord member roles when a token is configured", func(t *testing.T) {
		lookup, err := adminRoleLookup(&config.Config{DiscordToken: "token"}, nil)
		require.NoError(t, err)
		assert.IsType(t, &bot.MemberRoleLookup{}, lookup)
	})

	t.Run("no role source fails the lookup", func(t *testing.T) {
		lookup, err := adminRoleLookup(&config.Config{}, nil)
		require.NoError(t, err)

		roles, err := lookup.MemberRoles(ctx, 1, 42)
		assert.Nil(t, roles)
		assert.ErrorIs(t, err, errRolesUnavailable)
	})
}
