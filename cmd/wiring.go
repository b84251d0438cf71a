package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pointsbot/bot"
	"pointsbot/config"
	"pointsbot/database"
	"pointsbot/domain/interfaces"
	"pointsbot/domain/services"
	"pointsbot/infrastructure"
)

// ledgerServices is the set of domain services shared by serve and the
// admin commands
type ledgerServices struct {
	resolver     *services.MultiplierResolver
	awarder      *services.AwardingEngine
	redeemer     *services.RedemptionEngine
	leaderboard  *services.LeaderboardAggregator
	members      *services.MemberService
	pointsConfig *services.PointsConfigService
	quests       *services.QuestService
	wallets      *services.WalletService
	guilds       *services.GuildService
}

func newLedgerServices(uowFactory interfaces.UnitOfWorkFactory, roles interfaces.RoleLookup, cfg *config.Config, metrics interfaces.LedgerMetrics) *ledgerServices {
	resolver := services.NewMultiplierResolver(uowFactory, roles, cfg.MultiplierCacheGuilds)
	guard := services.NewIdempotencyGuard(cfg.IdempotencyCacheSize)
	ledger := services.NewLedgerStore(uowFactory)
	awarder := services.NewAwardingEngine(guard, resolver, ledger, metrics)

	return &ledgerServices{
		resolver:     resolver,
		awarder:      awarder,
		redeemer:     services.NewRedemptionEngine(uowFactory, metrics),
		leaderboard:  services.NewLeaderboardAggregator(uowFactory),
		members:      services.NewMemberService(uowFactory),
		pointsConfig: services.NewPointsConfigService(uowFactory, resolver, cfg.DefaultActionPoints),
		quests:       services.NewQuestService(uowFactory, awarder),
		wallets:      services.NewWalletService(uowFactory),
		guilds:       services.NewGuildService(uowFactory),
	}
}

// adminApp is the short-lived wiring behind one admin command
type adminApp struct {
	*ledgerServices

	db         *database.DB
	natsClient *infrastructure.NATSClient
}

// newAdminApp connects to the database and, when enabled, to NATS so
// configuration changes reach running instances. roleOverride, when set,
// replaces the member's Discord roles for multiplier resolution.
func newAdminApp(ctx context.Context, cfg *config.Config, roleOverride []int64) (*adminApp, error) {
	roles, err := adminRoleLookup(cfg, roleOverride)
	if err != nil {
		return nil, err
	}

	db, err := database.NewConnection(ctx, database.ConstructDatabaseURL(cfg.DatabaseURL, cfg.DatabaseName))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	app := &adminApp{db: db}

	var publisher interfaces.EventPublisher = infrastructure.NewNoopEventPublisher()
	if cfg.NATSEnabled {
		app.natsClient = infrastructure.NewNATSClient(cfg.NATSServers)
		if err := app.natsClient.Connect(ctx); err != nil {
			db.Close()
			return nil, err
		}
		publisher = infrastructure.NewNATSEventPublisher(app.natsClient, infrastructure.NewEventSubjectMapper(), nil)
	}

	uowFactory := infrastructure.NewUnitOfWorkFactory(db, publisher)
	app.ledgerServices = newLedgerServices(uowFactory, roles, cfg, nil)
	return app, nil
}

func (a *adminApp) Close() {
	if a.natsClient != nil {
		_ = a.natsClient.Close()
	}
	a.db.Close()
}

// adminRoleLookup picks where admin commands read member roles from: the
// explicit override, else Discord's REST API when a token is configured
func adminRoleLookup(cfg *config.Config, override []int64) (interfaces.RoleLookup, error) {
	if len(override) > 0 {
		return staticRoleLookup(override), nil
	}
	if strings.TrimSpace(cfg.DiscordToken) == "" {
		return unavailableRoleLookup{}, nil
	}

	discordBot, err := bot.New(bot.Config{Token: cfg.DiscordToken})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Discord session: %w", err)
	}
	return discordBot.RoleLookup(), nil
}

var errRolesUnavailable = errors.New("member roles unavailable: set DISCORD_TOKEN or pass --role")

// unavailableRoleLookup fails every lookup. Guilds without role
// multipliers never ask for roles, so awards there still succeed.
type unavailableRoleLookup struct{}

func (unavailableRoleLookup) MemberRoles(ctx context.Context, guildID, userID int64) ([]int64, error) {
	return nil, errRolesUnavailable
}

// staticRoleLookup reports the same roles for every member
type staticRoleLookup []int64

func (s staticRoleLookup) MemberRoles(ctx context.Context, guildID, userID int64) ([]int64, error) {
	return s, nil
}
