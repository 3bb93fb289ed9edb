package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-beanlog-backend/internal/beanlog"
	"github.com/tbourn/go-beanlog-backend/internal/domain"
	"github.com/tbourn/go-beanlog-backend/internal/repo"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", uuid.NewString())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

// ----- SQL-backed stores (repo functions) -----

type sqlLogs struct{}

func (sqlLogs) FetchAll(ctx context.Context, db *gorm.DB, owner string) ([]beanlog.Record, error) {
	return repo.FetchAll(ctx, db, owner)
}
func (sqlLogs) Get(ctx context.Context, db *gorm.DB, owner, id string) (beanlog.Record, error) {
	return repo.GetBeanLog(ctx, db, owner, id)
}
func (sqlLogs) Create(ctx context.Context, db *gorm.DB, owner string, rec beanlog.Record) (beanlog.Record, error) {
	return repo.CreateBeanLog(ctx, db, owner, rec)
}
func (sqlLogs) Update(ctx context.Context, db *gorm.DB, owner, id string, rec beanlog.Record) (beanlog.Record, error) {
	return repo.UpdateBeanLog(ctx, db, owner, id, rec)
}
func (sqlLogs) Delete(ctx context.Context, db *gorm.DB, owner, id string) error {
	return repo.DeleteBeanLog(ctx, db, owner, id)
}
func (sqlLogs) DeleteAllForOwner(ctx context.Context, db *gorm.DB, owner string) (int64, error) {
	return repo.DeleteAllForOwner(ctx, db, owner)
}
func (sqlLogs) Stats(ctx context.Context, db *gorm.DB, owner string) (int64, *time.Time, error) {
	return repo.BeanLogsStats(ctx, db, owner)
}

type sqlUsers struct{}

func (sqlUsers) CreateUser(ctx context.Context, db *gorm.DB, u *domain.User) error {
	return repo.CreateUser(ctx, db, u)
}
func (sqlUsers) GetUser(ctx context.Context, db *gorm.DB, id string) (*domain.User, error) {
	return repo.GetUser(ctx, db, id)
}
func (sqlUsers) GetUserByEmail(ctx context.Context, db *gorm.DB, email string) (*domain.User, error) {
	return repo.GetUserByEmail(ctx, db, email)
}
func (sqlUsers) DeleteUser(ctx context.Context, db *gorm.DB, id string) error {
	return repo.DeleteUser(ctx, db, id)
}

// ----- In-memory fake -----

type memLogs struct {
	mu   sync.Mutex
	rows map[string]beanlog.Record
	seq  int

	// call counters
	creates, updates, fetches, stats int

	// context error observed by the last write
	writeCtxErr error

	createErr, updateErr, deleteErr, deleteAllErr, fetchErr, statsErr error
}

func newMemLogs() *memLogs { return &memLogs{rows: map[string]beanlog.Record{}} }

func (m *memLogs) stamp() string {
	m.seq++
	return beanlog.FormatTimestamp(time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(m.seq) * time.Second))
}

func (m *memLogs) FetchAll(_ context.Context, _ *gorm.DB, owner string) ([]beanlog.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetches++
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	var out []beanlog.Record
	for _, r := range m.rows {
		if r.Owner == owner {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memLogs) Get(_ context.Context, _ *gorm.DB, owner, id string) (beanlog.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id]
	if !ok || r.Owner != owner {
		return beanlog.Record{}, repo.ErrNotFound
	}
	return r, nil
}

func (m *memLogs) Create(ctx context.Context, _ *gorm.DB, owner string, rec beanlog.Record) (beanlog.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creates++
	m.writeCtxErr = ctx.Err()
	if m.createErr != nil {
		return beanlog.Record{}, m.createErr
	}
	rec.CreatedAt = m.stamp()
	rec.ID = fmt.Sprintf("b%03d", m.seq)
	rec.Owner = owner
	rec.UpdatedAt = rec.CreatedAt
	m.rows[rec.ID] = rec
	return rec, nil
}

func (m *memLogs) Update(ctx context.Context, _ *gorm.DB, owner, id string, rec beanlog.Record) (beanlog.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updates++
	m.writeCtxErr = ctx.Err()
	if m.updateErr != nil {
		return beanlog.Record{}, m.updateErr
	}
	cur, ok := m.rows[id]
	if !ok || cur.Owner != owner {
		return beanlog.Record{}, repo.ErrNotFound
	}
	rec.ID, rec.Owner = id, owner
	if rec.CreatedAt == "" {
		rec.CreatedAt = cur.CreatedAt
	}
	rec.UpdatedAt = m.stamp()
	m.rows[id] = rec
	return rec, nil
}

func (m *memLogs) Delete(_ context.Context, _ *gorm.DB, owner, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return m.deleteErr
	}
	r, ok := m.rows[id]
	if !ok || r.Owner != owner {
		return repo.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

func (m *memLogs) DeleteAllForOwner(_ context.Context, _ *gorm.DB, owner string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteAllErr != nil {
		return 0, m.deleteAllErr
	}
	var n int64
	for id, r := range m.rows {
		if r.Owner == owner {
			delete(m.rows, id)
			n++
		}
	}
	return n, nil
}

func (m *memLogs) Stats(_ context.Context, _ *gorm.DB, owner string) (int64, *time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats++
	if m.statsErr != nil {
		return 0, nil, m.statsErr
	}
	var (
		n   int64
		max *time.Time
	)
	for _, r := range m.rows {
		if r.Owner != owner {
			continue
		}
		n++
		t, _ := beanlog.ParseTimestamp(r.UpdatedAt)
		if max == nil || t.After(*max) {
			tt := t
			max = &tt
		}
	}
	return n, max, nil
}
