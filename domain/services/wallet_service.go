package services

import (
	"context"
	"fmt"
	"strings"

	"pointsbot/domain"
	"pointsbot/domain/entities"
	"pointsbot/domain/interfaces"
)

const base58Alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

// WalletService links members to on-chain addresses
type WalletService struct {
	uowFactory interfaces.UnitOfWorkFactory
}

// NewWalletService creates a new WalletService
func NewWalletService(uowFactory interfaces.UnitOfWorkFactory) *WalletService {
	return &WalletService{uowFactory: uowFactory}
}

// LinkWallet links address to the member, replacing any previous link
func (s *WalletService) LinkWallet(ctx context.Context, guildID, userID int64, address string) (*entities.WalletLink, error) {
	address = strings.TrimSpace(address)
	if err := validateAddress(address); err != nil {
		return nil, err
	}

	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.GuildRepository().Ensure(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure guild: %w", err)
	}
	if _, err := uow.MemberRepository().GetOrCreate(ctx, userID); err != nil {
		return nil, fmt.Errorf("failed to ensure member: %w", err)
	}

	link := &entities.WalletLink{
		GuildID: guildID,
		UserID:  userID,
		Address: address,
	}
	if err := uow.WalletRepository().Upsert(ctx, link); err != nil {
		return nil, fmt.Errorf("failed to link wallet: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return link, nil
}

// GetWallet returns the member's linked wallet
func (s *WalletService) GetWallet(ctx context.Context, guildID, userID int64) (*entities.WalletLink, error) {
	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	link, err := uow.WalletRepository().GetByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	if link == nil {
		return nil, domain.NewNotFoundError("wallet for user", userID)
	}
	return link, nil
}

// ListWallets returns every wallet linked in a guild
func (s *WalletService) ListWallets(ctx context.Context, guildID int64) ([]*entities.WalletLink, error) {
	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	links, err := uow.WalletRepository().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list wallets: %w", err)
	}
	return links, nil
}

func validateAddress(address string) error {
	if address == "" {
		return domain.NewValidationError("wallet address must not be empty")
	}
	if len(address) < 32 || len(address) > 44 {
		return domain.NewValidationError("wallet address must be 32 to 44 characters")
	}
	for _, r := range address {
		if !strings.ContainsRune(base58Alphabet, r) {
			return domain.NewValidationError("wallet address contains invalid character %q", r)
		}
	}
	return nil
}
