package bot

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// memberSource fetches guild members from the state cache or the REST API
type memberSource interface {
	StateMember(guildID, userID string) (*discordgo.Member, error)
	GuildMember(ctx context.Context, guildID, userID string) (*discordgo.Member, error)
}

type sessionMembers struct {
	session *discordgo.Session
}

func (s sessionMembers) StateMember(guildID, userID string) (*discordgo.Member, error) {
	return s.session.State.Member(guildID, userID)
}

func (s sessionMembers) GuildMember(ctx context.Context, guildID, userID string) (*discordgo.Member, error) {
	return s.session.GuildMember(guildID, userID, discordgo.WithContext(ctx))
}

// MemberRoleLookup reports a member's roles, preferring the gateway state
// cache and falling back to the REST API
type MemberRoleLookup struct {
	members memberSource
}

// NewMemberRoleLookup creates a new MemberRoleLookup
func NewMemberRoleLookup(members memberSource) *MemberRoleLookup {
	return &MemberRoleLookup{members: members}
}

// MemberRoles returns the role ids held by userID. A member who is no
// longer in the guild holds no roles.
func (l *MemberRoleLookup) MemberRoles(ctx context.Context, guildID, userID int64) ([]int64, error) {
	guild := FormatSnowflake(guildID)
	user := FormatSnowflake(userID)

	member, err := l.members.StateMember(guild, user)
	if err != nil || member == nil {
		member, err = l.members.GuildMember(ctx, guild, user)
		if err != nil {
			if isNotFound(err) {
				return nil, nil
			}
			return nil, fmt.Errorf("failed to fetch guild member: %w", err)
		}
	}

	roles := make([]int64, 0, len(member.Roles))
	for _, id := range member.Roles {
		roleID, err := ParseSnowflake(id)
		if err != nil {
			log.WithFields(log.Fields{
				"guildID": guildID,
				"userID":  userID,
				"roleID":  id,
			}).Warn("Skipping malformed role id")
			continue
		}
		roles = append(roles, roleID)
	}
	return roles, nil
}

func isNotFound(err error) bool {
	var restErr *discordgo.RESTError
	return errors.As(err, &restErr) && restErr.Response != nil && restErr.Response.StatusCode == http.StatusNotFound
}
