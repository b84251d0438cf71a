package bot

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"pointsbot/domain/entities"
	"pointsbot/domain/events"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockMemberSource struct {
	mock.Mock
}

func (m *mockMemberSource) StateMember(guildID, userID string) (*discordgo.Member, error) {
	args := m.Called(guildID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*discordgo.Member), args.Error(1)
}

func (m *mockMemberSource) GuildMember(ctx context.Context, guildID, userID string) (*discordgo.Member, error) {
	args := m.Called(ctx, guildID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*discordgo.Member), args.Error(1)
}

type mockRoleAdder struct {
	mock.Mock
}

func (m *mockRoleAdder) GuildMemberRoleAdd(guildID, userID, roleID string, options ...discordgo.RequestOption) error {
	return m.Called(guildID, userID, roleID).Error(0)
}

func TestMemberRoleLookup_MemberRoles(t *testing.T) {
	ctx := context.Background()

	t.Run("state cache hit", func(t *testing.T) {
		members := new(mockMemberSource)
		members.On("StateMember", "1", "2").Return(&discordgo.Member{Roles: []string{"10", "20"}}, nil)

		roles, err := NewMemberRoleLookup(members).MemberRoles(ctx, 1, 2)

		require.NoError(t, err)
		assert.Equal(t, []int64{10, 20}, roles)
		members.AssertNotCalled(t, "GuildMember", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("falls back to rest", func(t *testing.T) {
		members := new(mockMemberSource)
		members.On("StateMember", "1", "2").Return(nil, discordgo.ErrStateNotFound)
		members.On("GuildMember", mock.Anything, "1", "2").Return(&discordgo.Member{Roles: []string{"30", "bad"}}, nil)

		roles, err := NewMemberRoleLookup(members).MemberRoles(ctx, 1, 2)

		require.NoError(t, err)
		assert.Equal(t, []int64{30}, roles)
	})

	t.Run("member left guild", func(t *testing.T) {
		members := new(mockMemberSource)
		members.On("StateMember", "1", "2").Return(nil, discordgo.ErrStateNotFound)
		members.On("GuildMember", mock.Anything, "1", "2").Return(nil, &discordgo.RESTError{
			Response: &http.Response{StatusCode: http.StatusNotFound},
		})

		roles, err := NewMemberRoleLookup(members).MemberRoles(ctx, 1, 2)

		require.NoError(t, err)
		assert.Empty(t, roles)
	})

	t.Run("rest failure", func(t *testing.T) {
		members := new(mockMemberSource)
		members.On("StateMember", "1", "2").Return(nil, discordgo.ErrStateNotFound)
		members.On("GuildMember", mock.Anything, "1", "2").Return(nil, errors.New("gateway timeout"))

		_, err := NewMemberRoleLookup(members).MemberRoles(ctx, 1, 2)

		assert.Error(t, err)
	})
}

func TestRewardRoleGranter_HandleRewardRedeemed(t *testing.T) {
	ctx := context.Background()
	roleID := int64(555)

	t.Run("grants role reward", func(t *testing.T) {
		adder := new(mockRoleAdder)
		adder.On("GuildMemberRoleAdd", "1", "2", "555").Return(nil)

		err := NewRewardRoleGranter(adder).HandleRewardRedeemed(ctx, events.RewardRedeemedEvent{
			GuildID:    1,
			UserID:     2,
			RewardType: entities.RewardTypeRole,
			RoleID:     &roleID,
		})

		require.NoError(t, err)
		adder.AssertExpectations(t)
	})

	t.Run("ignores other events", func(t *testing.T) {
		adder := new(mockRoleAdder)

		err := NewRewardRoleGranter(adder).HandleRewardRedeemed(ctx, events.PointsAwardedEvent{GuildID: 1})

		require.NoError(t, err)
		adder.AssertNotCalled(t, "GuildMemberRoleAdd", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("propagates discord errors", func(t *testing.T) {
		adder := new(mockRoleAdder)
		adder.On("GuildMemberRoleAdd", "1", "2", "555").Return(errors.New("missing permissions"))

		err := NewRewardRoleGranter(adder).HandleRewardRedeemed(ctx, events.RewardRedeemedEvent{
			GuildID:    1,
			UserID:     2,
			RewardType: entities.RewardTypeRole,
			RoleID:     &roleID,
		})

		assert.Error(t, err)
	})
}

func TestSnowflake(t *testing.T) {
	id, err := ParseSnowflake("1234567890123456789")
	require.NoError(t, err)
	assert.Equal(t, int64(1234567890123456789), id)
	assert.Equal(t, "1234567890123456789", FormatSnowflake(id))

	_, err = ParseSnowflake("abc")
	assert.Error(t, err)
}

type mockGuildRegistrar struct {
	mock.Mock
}

func (m *mockGuildRegistrar) RegisterGuild(ctx context.Context, guildID int64, name string) error {
	return m.Called(ctx, guildID, name).Error(0)
}

func TestGuildCreateHandler(t *testing.T) {
	t.Run("registers guild with its name", func(t *testing.T) {
		registrar := new(mockGuildRegistrar)
		registrar.On("RegisterGuild", mock.Anything, int64(123456789012345678), "Points HQ").Return(nil)

		guildCreateHandler(registrar)(nil, &discordgo.GuildCreate{
			Guild: &discordgo.Guild{ID: "123456789012345678", Name: "Points HQ"},
		})

		registrar.AssertExpectations(t)
	})

	t.Run("skips unavailable and malformed guilds", func(t *testing.T) {
		registrar := new(mockGuildRegistrar)
		handler := guildCreateHandler(registrar)

		handler(nil, &discordgo.GuildCreate{Guild: &discordgo.Guild{ID: "1", Unavailable: true}})
		handler(nil, &discordgo.GuildCreate{Guild: &discordgo.Guild{ID: "not-a-snowflake", Name: "x"}})
		handler(nil, &discordgo.GuildCreate{})

		registrar.AssertNotCalled(t, "RegisterGuild", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("registration failure is logged", func(t *testing.T) {
		registrar := new(mockGuildRegistrar)
		registrar.On("RegisterGuild", mock.Anything, int64(5), "Five").Return(errors.New("db down"))

		assert.NotPanics(t, func() {
			guildCreateHandler(registrar)(nil, &discordgo.GuildCreate{Guild: &discordgo.Guild{ID: "5", Name: "Five"}})
		})
		registrar.AssertExpectations(t)
	})
}
