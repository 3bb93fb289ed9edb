// Package services – LogStore
//
// This file declares the persistence contract the bean log services depend
// on and the Prometheus counter every store call is recorded in. The contract
// mirrors the repo free functions one-to-one, with the *gorm.DB handle passed
// through explicitly so calls can be scoped to a transaction.
package services

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"

	"github.com/tbourn/go-beanlog-backend/internal/beanlog"
	"github.com/tbourn/go-beanlog-backend/internal/repo"
)

// LogStore defines the repository contract for bean logs. Every method is
// scoped to owner; implementations must never return another owner's data.
type LogStore interface {
	// FetchAll returns all bean logs of owner, in no particular order.
	FetchAll(ctx context.Context, db *gorm.DB, owner string) ([]beanlog.Record, error)

	// Get fetches one bean log.
	Get(ctx context.Context, db *gorm.DB, owner, id string) (beanlog.Record, error)

	// Create inserts rec and returns it with its new id and timestamps.
	Create(ctx context.Context, db *gorm.DB, owner string, rec beanlog.Record) (beanlog.Record, error)

	// Update merges rec into the bean log id and returns the stored result.
	Update(ctx context.Context, db *gorm.DB, owner, id string, rec beanlog.Record) (beanlog.Record, error)

	// Delete removes one bean log.
	Delete(ctx context.Context, db *gorm.DB, owner, id string) error

	// DeleteAllForOwner removes every bean log of owner atomically.
	DeleteAllForOwner(ctx context.Context, db *gorm.DB, owner string) (int64, error)

	// Stats returns the row count and latest updated_at for owner.
	Stats(ctx context.Context, db *gorm.DB, owner string) (int64, *time.Time, error)
}

// storeOps counts store calls by operation and outcome.
var storeOps = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "beanlog_store_ops_total",
		Help: "Bean log store operations by op and result.",
	},
	[]string{"op", "result"},
)

func init() {
	prometheus.MustRegister(storeOps)
}

// observeStore records the outcome of one store call and passes err through.
func observeStore(op string, err error) error {
	result := "ok"
	switch {
	case err == nil:
	case IsUnavailable(err):
		result = "unavailable"
	case errors.Is(err, repo.ErrNotFound):
		result = "not_found"
	default:
		result = "error"
	}
	storeOps.WithLabelValues(op, result).Inc()
	return err
}
