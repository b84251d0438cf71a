package bot

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Config holds bot configuration
type Config struct {
	Token string
}

// Bot owns the Discord gateway session used for role lookups and grants
type Bot struct {
	config  Config
	session *discordgo.Session
}

// New creates a bot session. The connection is opened by Open.
func New(config Config) (*Bot, error) {
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMembers
	dg.StateEnabled = true
	dg.State.TrackMembers = true
	dg.State.TrackRoles = true

	dg.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		log.WithFields(log.Fields{
			"user":   r.User.Username,
			"guilds": len(r.Guilds),
		}).Info("Discord session ready")
	})

	return &Bot{
		config:  config,
		session: dg,
	}, nil
}

// Open connects to the Discord gateway
func (b *Bot) Open() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("error opening connection: %w", err)
	}
	return nil
}

// Close disconnects from the gateway
func (b *Bot) Close() error {
	return b.session.Close()
}

// Session returns the underlying discordgo session
func (b *Bot) Session() *discordgo.Session {
	return b.session
}

// RoleLookup returns a role lookup backed by this session
func (b *Bot) RoleLookup() *MemberRoleLookup {
	return NewMemberRoleLookup(sessionMembers{session: b.session})
}

// RoleGranter returns a reward role granter backed by this session
func (b *Bot) RoleGranter() *RewardRoleGranter {
	return NewRewardRoleGranter(b.session)
}
