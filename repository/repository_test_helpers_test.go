package repository

import (
	"pointsbot/database"
	"pointsbot/domain/interfaces"
	"pointsbot/domain/testhelpers"
)

// testUnitOfWorkFactory hands out real units of work with permissive publishers
type testUnitOfWorkFactory struct {
	db *database.DB
}

func newTestUnitOfWorkFactory(db *database.DB) *testUnitOfWorkFactory {
	return &testUnitOfWorkFactory{db: db}
}

func (f *testUnitOfWorkFactory) CreateForGuild(guildID int64) interfaces.UnitOfWork {
	return CreateTestUnitOfWork(f.db, guildID, testhelpers.NewPermissiveTransactionalPublisher())
}
