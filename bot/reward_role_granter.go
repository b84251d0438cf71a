package bot

import (
	"context"
	"fmt"

	"pointsbot/domain/entities"
	"pointsbot/domain/events"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// roleAdder is satisfied by *discordgo.Session
type roleAdder interface {
	GuildMemberRoleAdd(guildID, userID, roleID string, options ...discordgo.RequestOption) error
}

// RewardRoleGranter gives members the role they redeemed
type RewardRoleGranter struct {
	roles roleAdder
}

// NewRewardRoleGranter creates a new RewardRoleGranter
func NewRewardRoleGranter(roles roleAdder) *RewardRoleGranter {
	return &RewardRoleGranter{roles: roles}
}

// HandleRewardRedeemed grants the reward's role. Other event and reward
// types are ignored.
func (g *RewardRoleGranter) HandleRewardRedeemed(ctx context.Context, event events.Event) error {
	redeemed, ok := event.(events.RewardRedeemedEvent)
	if !ok || redeemed.RewardType != entities.RewardTypeRole || redeemed.RoleID == nil {
		return nil
	}

	err := g.roles.GuildMemberRoleAdd(
		FormatSnowflake(redeemed.GuildID),
		FormatSnowflake(redeemed.UserID),
		FormatSnowflake(*redeemed.RoleID),
		discordgo.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("failed to grant role %d to user %d: %w", *redeemed.RoleID, redeemed.UserID, err)
	}

	log.WithFields(log.Fields{
		"guildID":      redeemed.GuildID,
		"userID":       redeemed.UserID,
		"roleID":       *redeemed.RoleID,
		"redemptionID": redeemed.RedemptionID,
	}).Info("Granted reward role")
	return nil
}
