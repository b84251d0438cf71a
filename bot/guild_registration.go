package bot

import (
	"context"
	"time"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// GuildRegistrar records a guild and its display name
type GuildRegistrar interface {
	RegisterGuild(ctx context.Context, guildID int64, name string) error
}

// RegisterGuilds records every guild the session joins or becomes
// available in, keeping stored names current
func (b *Bot) RegisterGuilds(registrar GuildRegistrar) {
	b.session.AddHandler(guildCreateHandler(registrar))
}

func guildCreateHandler(registrar GuildRegistrar) func(*discordgo.Session, *discordgo.GuildCreate) {
	return func(s *discordgo.Session, g *discordgo.GuildCreate) {
		if g.Guild == nil || g.Unavailable {
			return
		}

		guildID, err := ParseSnowflake(g.ID)
		if err != nil {
			log.WithError(err).Warn("Ignoring guild with malformed id")
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := registrar.RegisterGuild(ctx, guildID, g.Name); err != nil {
			log.WithFields(log.Fields{
				"guildID": guildID,
				"error":   err,
			}).Error("Failed to register guild")
		}
	}
}
