package services

import (
	"context"
	"strings"
	"testing"

	"pointsbot/domain"
	"pointsbot/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGuildService_RegisterGuild(t *testing.T) {
	t.Parallel()

	t.Run("records trimmed name", func(t *testing.T) {
		t.Parallel()

		uow := testhelpers.NewMockUnitOfWork().ExpectTransaction(true)
		uow.GuildRepo.On("EnsureNamed", mock.Anything, "Points HQ").Return(nil)

		service := NewGuildService(testhelpers.NewMockUnitOfWorkFactory(uow))
		require.NoError(t, service.RegisterGuild(context.Background(), 1, "  Points HQ "))

		uow.AssertAllExpectations(t)
	})

	t.Run("truncates long names", func(t *testing.T) {
		t.Parallel()

		uow := testhelpers.NewMockUnitOfWork().ExpectTransaction(true)
		uow.GuildRepo.On("EnsureNamed", mock.Anything, strings.Repeat("é", maxGuildNameLength)).Return(nil)

		service := NewGuildService(testhelpers.NewMockUnitOfWorkFactory(uow))
		require.NoError(t, service.RegisterGuild(context.Background(), 1, strings.Repeat("é", 150)))

		uow.AssertAllExpectations(t)
	})

	t.Run("requires a guild", func(t *testing.T) {
		t.Parallel()

		factory := new(testhelpers.MockUnitOfWorkFactory)
		service := NewGuildService(factory)

		err := service.RegisterGuild(context.Background(), 0, "x")
		assert.True(t, domain.IsValidation(err))
		factory.AssertNotCalled(t, "CreateForGuild", mock.Anything)
	})
}
