// Package services – ListCoordinator
//
// ListCoordinator holds one list snapshot per owner. A snapshot is fetched the
// first time an owner's list is requested and re-fetched when Refresh is
// called (after a create, update or delete) or when the store's aggregate
// stats show the owner's set changed behind our back, e.g. a write from
// another instance. There is no pagination; lists are whole.
//
// Snapshots live in a bounded LRU with an idle TTL, so memory is capped by
// the number of recently active owners rather than every owner ever seen.
package services

import (
	"context"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"gorm.io/gorm"

	"github.com/tbourn/go-beanlog-backend/internal/beanlog"

	// OpenTelemetry
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ListSnapshot is an owner's full bean log list with the stats it was taken at.
type ListSnapshot struct {
	Records      []beanlog.Record
	Count        int64
	MaxUpdatedAt *time.Time
}

func (s ListSnapshot) clone() ListSnapshot {
	out := s
	out.Records = make([]beanlog.Record, len(s.Records))
	copy(out.Records, s.Records)
	return out
}

// Snapshot cache bounds used by NewListCoordinator.
const (
	DefaultListCacheSize = 1024
	DefaultListCacheTTL  = 15 * time.Minute
)

// ListCoordinator serves per-owner list snapshots. It is safe for concurrent use.
type ListCoordinator struct {
	DB    *gorm.DB
	Store LogStore

	snaps *expirable.LRU[string, ListSnapshot]
}

// NewListCoordinator returns a coordinator with the default cache bounds.
func NewListCoordinator(db *gorm.DB, store LogStore) *ListCoordinator {
	return NewBoundedListCoordinator(db, store, DefaultListCacheSize, DefaultListCacheTTL)
}

// NewBoundedListCoordinator holds at most size snapshots; a snapshot not
// refreshed within ttl is dropped. Non-positive values select the defaults.
func NewBoundedListCoordinator(db *gorm.DB, store LogStore, size int, ttl time.Duration) *ListCoordinator {
	if size <= 0 {
		size = DefaultListCacheSize
	}
	if ttl <= 0 {
		ttl = DefaultListCacheTTL
	}
	return &ListCoordinator{
		DB:    db,
		Store: store,
		snaps: expirable.NewLRU[string, ListSnapshot](size, nil, ttl),
	}
}

// Held reports how many owner snapshots are cached.
func (c *ListCoordinator) Held() int { return c.snaps.Len() }

// Records returns the owner's list. See Snapshot.
func (c *ListCoordinator) Records(ctx context.Context, owner string) ([]beanlog.Record, error) {
	s, err := c.Snapshot(ctx, owner)
	return s.Records, err
}

// Snapshot returns the held list for owner, fetching it when none is held or
// the held one is stale. An empty owner yields an empty list without touching
// the store.
func (c *ListCoordinator) Snapshot(ctx context.Context, owner string) (ListSnapshot, error) {
	if strings.TrimSpace(owner) == "" {
		return ListSnapshot{Records: []beanlog.Record{}}, nil
	}

	tr := otel.Tracer("services/ListCoordinator")
	ctx, span := tr.Start(ctx, "Snapshot", trace.WithAttributes(attribute.String("owner", owner)))
	defer span.End()

	count, maxAt, err := c.Store.Stats(ctx, c.DB, owner)
	if observeStore("stats", err) != nil {
		span.RecordError(err)
		return ListSnapshot{}, persistErr("fetch", err)
	}

	held, ok := c.snaps.Get(owner)
	if ok && held.Count == count && sameInstant(held.MaxUpdatedAt, maxAt) {
		span.SetAttributes(attribute.Bool("snapshot.hit", true))
		return held.clone(), nil
	}
	span.SetAttributes(attribute.Bool("snapshot.hit", false))
	return c.fetch(ctx, owner, count, maxAt)
}

// Refresh re-fetches owner's list unconditionally.
func (c *ListCoordinator) Refresh(ctx context.Context, owner string) error {
	if strings.TrimSpace(owner) == "" {
		return nil
	}
	count, maxAt, err := c.Store.Stats(ctx, c.DB, owner)
	if observeStore("stats", err) != nil {
		return persistErr("fetch", err)
	}
	_, err = c.fetch(ctx, owner, count, maxAt)
	return err
}

// Forget drops the snapshot held for owner.
func (c *ListCoordinator) Forget(owner string) {
	c.snaps.Remove(owner)
}

func (c *ListCoordinator) fetch(ctx context.Context, owner string, count int64, maxAt *time.Time) (ListSnapshot, error) {
	recs, err := c.Store.FetchAll(ctx, c.DB, owner)
	if observeStore("fetch", err) != nil {
		return ListSnapshot{}, persistErr("fetch", err)
	}
	snap := ListSnapshot{Records: recs, Count: count, MaxUpdatedAt: maxAt}.clone()

	c.snaps.Add(owner, snap)
	return snap.clone(), nil
}

func sameInstant(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}
