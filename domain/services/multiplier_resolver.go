package services

import (
	"context"
	"fmt"
	"sync"

	"pointsbot/domain/entities"
	"pointsbot/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// MultiplierResolver resolves a member's multiplier as the maximum over the
// configured roles they hold. Per-guild tables are cached and only dropped
// through Invalidate or Refresh.
type MultiplierResolver struct {
	uowFactory interfaces.UnitOfWorkFactory
	roles      interfaces.RoleLookup
	maxGuilds  int

	mu          sync.RWMutex
	tables      map[int64]entities.MultiplierTable
	generations map[int64]uint64
	epoch       uint64
}

// cacheVersion identifies the cache state a load started from
type cacheVersion struct {
	generation uint64
	epoch      uint64
}

// NewMultiplierResolver creates a resolver caching at most maxGuilds tables
func NewMultiplierResolver(uowFactory interfaces.UnitOfWorkFactory, roles interfaces.RoleLookup, maxGuilds int) *MultiplierResolver {
	if maxGuilds <= 0 {
		maxGuilds = 1000
	}
	return &MultiplierResolver{
		uowFactory:  uowFactory,
		roles:       roles,
		maxGuilds:   maxGuilds,
		tables:      make(map[int64]entities.MultiplierTable),
		generations: make(map[int64]uint64),
	}
}

// ResolveMultiplier returns the member's effective multiplier
func (r *MultiplierResolver) ResolveMultiplier(ctx context.Context, guildID, userID int64) (entities.Multiplier, error) {
	table, err := r.table(ctx, guildID)
	if err != nil {
		return 0, err
	}
	if len(table) == 0 {
		return entities.DefaultMultiplier, nil
	}

	roles, err := r.roles.MemberRoles(ctx, guildID, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to look up roles for user %d: %w", userID, err)
	}

	return table.Resolve(roles), nil
}

// Invalidate drops the cached table for one guild. Loads that started
// before the call will not repopulate the cache.
func (r *MultiplierResolver) Invalidate(guildID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.tables, guildID)
	r.generations[guildID]++
}

// InvalidateAll drops every cached table. Like Invalidate, loads already
// in flight are not stored.
func (r *MultiplierResolver) InvalidateAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	clear(r.tables)
	r.epoch++
}

// Refresh invalidates and reloads the table for one guild
func (r *MultiplierResolver) Refresh(ctx context.Context, guildID int64) error {
	r.mu.Lock()
	delete(r.tables, guildID)
	r.generations[guildID]++
	version := r.versionLocked(guildID)
	r.mu.Unlock()

	table, err := r.load(ctx, guildID)
	if err != nil {
		return err
	}
	r.store(guildID, table, version)

	log.WithFields(log.Fields{
		"guildID": guildID,
		"roles":   len(table),
	}).Debug("Refreshed role multiplier cache")
	return nil
}

// CachedGuilds returns the number of guild tables held in memory
func (r *MultiplierResolver) CachedGuilds() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tables)
}

func (r *MultiplierResolver) table(ctx context.Context, guildID int64) (entities.MultiplierTable, error) {
	r.mu.RLock()
	table, ok := r.tables[guildID]
	version := r.versionLocked(guildID)
	r.mu.RUnlock()
	if ok {
		return table, nil
	}

	table, err := r.load(ctx, guildID)
	if err != nil {
		return nil, err
	}
	r.store(guildID, table, version)
	return table, nil
}

func (r *MultiplierResolver) load(ctx context.Context, guildID int64) (entities.MultiplierTable, error) {
	uow := r.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	multipliers, err := uow.RoleMultiplierRepository().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load role multipliers for guild %d: %w", guildID, err)
	}

	return entities.NewMultiplierTable(multipliers), nil
}

func (r *MultiplierResolver) versionLocked(guildID int64) cacheVersion {
	return cacheVersion{generation: r.generations[guildID], epoch: r.epoch}
}

func (r *MultiplierResolver) store(guildID int64, table entities.MultiplierTable, version cacheVersion) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.versionLocked(guildID) != version {
		return
	}
	if _, exists := r.tables[guildID]; !exists && len(r.tables) >= r.maxGuilds {
		for evict := range r.tables {
			delete(r.tables, evict)
			break
		}
	}
	r.tables[guildID] = table
}
