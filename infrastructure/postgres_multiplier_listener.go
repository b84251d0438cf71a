package infrastructure

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"pointsbot/database"
	"pointsbot/domain/interfaces"

	"github.com/jackc/pgx/v5"
	log "github.com/sirupsen/logrus"
)

// RoleMultipliersChannel is the Postgres notification channel the
// role_multipliers trigger writes the changed guild id to
const RoleMultipliersChannel = "role_multipliers_changed"

// PostgresMultiplierListener invalidates cached multiplier tables when
// role_multipliers changes, whichever process made the change
type PostgresMultiplierListener struct {
	db         *database.DB
	cache      interfaces.MultiplierCache
	retryDelay time.Duration
}

// NewPostgresMultiplierListener creates a listener on db
func NewPostgresMultiplierListener(db *database.DB, cache interfaces.MultiplierCache) *PostgresMultiplierListener {
	return &PostgresMultiplierListener{
		db:         db,
		cache:      cache,
		retryDelay: 5 * time.Second,
	}
}

// Start issues LISTEN and then waits for notifications in the background
// until ctx is cancelled
func (l *PostgresMultiplierListener) Start(ctx context.Context) error {
	conn, err := l.listen(ctx)
	if err != nil {
		return err
	}

	go l.run(ctx, conn)

	log.WithField("channel", RoleMultipliersChannel).Info("Listening for role multiplier changes")
	return nil
}

// HandleNotification invalidates the guild named in payload
func (l *PostgresMultiplierListener) HandleNotification(payload string) {
	guildID, err := strconv.ParseInt(payload, 10, 64)
	if err != nil {
		log.WithField("payload", payload).Warn("Dropping malformed role multiplier notification")
		return
	}

	l.cache.Invalidate(guildID)
	log.WithField("guildID", guildID).Debug("Invalidated role multiplier cache")
}

// listen takes a connection out of the pool so it can hold the LISTEN
// for as long as the process runs
func (l *PostgresMultiplierListener) listen(ctx context.Context) (*pgx.Conn, error) {
	pooled, err := l.db.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire listener connection: %w", err)
	}
	conn := pooled.Hijack()

	if _, err := conn.Exec(ctx, "LISTEN "+RoleMultipliersChannel); err != nil {
		conn.Close(context.Background())
		return nil, fmt.Errorf("failed to listen on %s: %w", RoleMultipliersChannel, err)
	}
	return conn, nil
}

func (l *PostgresMultiplierListener) run(ctx context.Context, conn *pgx.Conn) {
	for {
		err := l.wait(ctx, conn)
		conn.Close(context.Background())
		if ctx.Err() != nil {
			return
		}

		log.WithError(err).Warn("Role multiplier listener lost its connection, reconnecting")

		conn = l.reconnect(ctx)
		if conn == nil {
			return
		}

		// Changes made while disconnected were never delivered
		l.cache.InvalidateAll()
	}
}

func (l *PostgresMultiplierListener) wait(ctx context.Context, conn *pgx.Conn) error {
	for {
		notification, err := conn.WaitForNotification(ctx)
		if err != nil {
			return err
		}
		l.HandleNotification(notification.Payload)
	}
}

func (l *PostgresMultiplierListener) reconnect(ctx context.Context) *pgx.Conn {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(l.retryDelay):
		}

		conn, err := l.listen(ctx)
		if err == nil {
			return conn
		}
		log.WithError(err).Warn("Failed to re-establish role multiplier listener")
	}
}
