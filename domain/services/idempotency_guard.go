package services

import (
	"container/list"
	"sync"

	"pointsbot/domain/entities"
)

// IdempotencyKey identifies a unique source event
type IdempotencyKey struct {
	GuildID     int64
	UserID      int64
	ActionType  entities.ActionType
	ReferenceID string
}

// BuildIdempotencyKey derives the key for an award request
func BuildIdempotencyKey(req *entities.AwardRequest) IdempotencyKey {
	return IdempotencyKey{
		GuildID:     req.GuildID,
		UserID:      req.UserID,
		ActionType:  req.ActionType,
		ReferenceID: req.ReferenceID,
	}
}

// IdempotencyGuard remembers recently processed events so repeats can be
// rejected before touching storage. It is a fast path only: the ledger's
// unique index decides what is a duplicate.
type IdempotencyGuard struct {
	mu       sync.RWMutex
	guilds   map[int64]*processedSet
	capacity int
}

// processedSet is a bounded FIFO of keys for one guild
type processedSet struct {
	mu      sync.RWMutex
	entries map[IdempotencyKey]*list.Element
	order   *list.List
}

type processedEntry struct {
	key           IdempotencyKey
	transactionID int64
}

// NewIdempotencyGuard creates a guard holding at most capacityPerGuild keys per guild
func NewIdempotencyGuard(capacityPerGuild int) *IdempotencyGuard {
	if capacityPerGuild <= 0 {
		capacityPerGuild = 10000
	}
	return &IdempotencyGuard{
		guilds:   make(map[int64]*processedSet),
		capacity: capacityPerGuild,
	}
}

// WasProcessed reports whether key is known to have been recorded
func (g *IdempotencyGuard) WasProcessed(key IdempotencyKey) bool {
	_, seen := g.Lookup(key)
	return seen
}

// Lookup returns the transaction that recorded key, if remembered
func (g *IdempotencyGuard) Lookup(key IdempotencyKey) (int64, bool) {
	g.mu.RLock()
	set, ok := g.guilds[key.GuildID]
	g.mu.RUnlock()
	if !ok {
		return 0, false
	}

	set.mu.RLock()
	defer set.mu.RUnlock()
	element, seen := set.entries[key]
	if !seen {
		return 0, false
	}
	return element.Value.(processedEntry).transactionID, true
}

// MarkProcessed records key as persisted by transactionID
func (g *IdempotencyGuard) MarkProcessed(key IdempotencyKey, transactionID int64) {
	set := g.setFor(key.GuildID)

	set.mu.Lock()
	defer set.mu.Unlock()

	if _, seen := set.entries[key]; seen {
		return
	}
	for set.order.Len() >= g.capacity {
		oldest := set.order.Front()
		set.order.Remove(oldest)
		delete(set.entries, oldest.Value.(processedEntry).key)
	}
	set.entries[key] = set.order.PushBack(processedEntry{key: key, transactionID: transactionID})
}

// Invalidate forgets every key of one guild
func (g *IdempotencyGuard) Invalidate(guildID int64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.guilds, guildID)
}

// Len returns the number of keys held for a guild
func (g *IdempotencyGuard) Len(guildID int64) int {
	g.mu.RLock()
	set, ok := g.guilds[guildID]
	g.mu.RUnlock()
	if !ok {
		return 0
	}

	set.mu.RLock()
	defer set.mu.RUnlock()
	return set.order.Len()
}

func (g *IdempotencyGuard) setFor(guildID int64) *processedSet {
	g.mu.RLock()
	set, ok := g.guilds[guildID]
	g.mu.RUnlock()
	if ok {
		return set
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if set, ok = g.guilds[guildID]; ok {
		return set
	}
	set = &processedSet{
		entries: make(map[IdempotencyKey]*list.Element),
		order:   list.New(),
	}
	g.guilds[guildID] = set
	return set
}
