package cmd

import (
	"context"
	"fmt"
	"time"

	"pointsbot/application"
	"pointsbot/bot"
	"pointsbot/config"
	"pointsbot/database"
	"pointsbot/domain/events"
	"pointsbot/infrastructure"
	"pointsbot/infrastructure/observability"
	"pointsbot/repository"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewServeCommand creates the serve command
func NewServeCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the bot, award consumer and background workers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return Serve(cmd.Context(), opts.cfg)
		},
	}
}

// Serve runs until ctx is cancelled
func Serve(ctx context.Context, cfg *config.Config) error {
	log.WithField("environment", cfg.Environment).Info("Starting pointsbot...")

	if err := cfg.RequireDiscord(); err != nil {
		return err
	}

	metrics := observability.NewMetricsProvider(cfg)
	if err := metrics.Initialize(ctx); err != nil {
		return fmt.Errorf("failed to initialize metrics: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := metrics.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("Failed to shut down metrics")
		}
	}()

	databaseURL := database.ConstructDatabaseURL(cfg.DatabaseURL, cfg.DatabaseName)
	if err := database.MigrateUp(databaseURL); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	db, err := database.NewConnection(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()
	log.Info("Database connection established")

	var natsClient *infrastructure.NATSClient
	if cfg.NATSEnabled {
		natsClient = infrastructure.NewNATSClient(cfg.NATSServers)
		if err := natsClient.Connect(ctx); err != nil {
			return err
		}
		defer natsClient.Close()
	}

	publisher := infrastructure.NewNATSEventPublisher(natsClient, infrastructure.NewEventSubjectMapper(), metrics)
	if err := publisher.EnsurePointsStream(); err != nil {
		return fmt.Errorf("failed to ensure points stream: %w", err)
	}
	uowFactory := infrastructure.NewUnitOfWorkFactory(db, publisher)

	discordBot, err := bot.New(bot.Config{Token: cfg.DiscordToken})
	if err != nil {
		return fmt.Errorf("failed to initialize Discord bot: %w", err)
	}

	svc := newLedgerServices(uowFactory, discordBot.RoleLookup(), cfg, metrics)
	uowFactory.RegisterLocalHandler(events.EventTypeRewardRedeemed, discordBot.RoleGranter().HandleRewardRedeemed)
	discordBot.RegisterGuilds(svc.guilds)

	multiplierListener := infrastructure.NewPostgresMultiplierListener(db, svc.resolver)
	if err := multiplierListener.Start(ctx); err != nil {
		return fmt.Errorf("failed to start role multiplier listener: %w", err)
	}

	if err := discordBot.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}
	defer func() {
		if err := discordBot.Close(); err != nil {
			log.WithError(err).Error("Error closing Discord bot")
		}
	}()

	if natsClient != nil {
		listener := infrastructure.NewMultiplierInvalidationListener(svc.resolver, publisher.InstanceID())
		if err := listener.Subscribe(natsClient); err != nil {
			return err
		}

		consumer := infrastructure.NewMessageConsumer(natsClient, metrics)
		awardHandler := infrastructure.NewAwardRequestHandler(svc.awarder, svc.pointsConfig)
		consumer.RegisterHandler(infrastructure.SubjectAwardRequests, awardHandler.HandleAwardRequest)
		if err := consumer.Start(ctx); err != nil {
			return fmt.Errorf("failed to start message consumer: %w", err)
		}
	}

	if cfg.HolderSyncEnabled {
		worker := application.NewChainHolderSyncWorker(
			repository.NewGuildRepository(db),
			uowFactory,
			application.NoopHolderSource{},
			svc.awarder,
			svc.pointsConfig,
			metrics,
		)
		stop := worker.Start(ctx, cfg.HolderSyncInterval)
		defer stop()
	}

	log.Info("pointsbot is running")
	<-ctx.Done()
	log.Info("Shutting down pointsbot...")

	return nil
}
