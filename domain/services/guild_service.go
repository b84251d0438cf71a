package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"pointsbot/domain"
	"pointsbot/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

const maxGuildNameLength = 100

// GuildService records the guilds the bot serves
type GuildService struct {
	uowFactory interfaces.UnitOfWorkFactory
}

// NewGuildService creates a new GuildService
func NewGuildService(uowFactory interfaces.UnitOfWorkFactory) *GuildService {
	return &GuildService{uowFactory: uowFactory}
}

// RegisterGuild creates the guild if needed and records its display name
func (s *GuildService) RegisterGuild(ctx context.Context, guildID int64, name string) error {
	if guildID == 0 {
		return domain.NewValidationError("guild is required")
	}
	name = truncateRunes(strings.TrimSpace(name), maxGuildNameLength)

	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.GuildRepository().EnsureNamed(ctx, name); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"guildID": guildID,
		"name":    name,
	}).Debug("Guild registered")
	return nil
}

func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}
