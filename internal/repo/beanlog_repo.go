// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides the store functions for bean logs.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations. Every
// function takes the owner explicitly and scopes its query to it; nothing
// here reads the current user from ambient state.
//
// Error semantics:
//   - A nil or closed handle yields ErrUnavailable (possibly wrapped), so
//     callers can tell "store not reachable" apart from a rejected write.
//   - When a bean log is not found for the owner, functions return
//     ErrNotFound (an alias of gorm.ErrRecordNotFound).
//   - Other DB errors are propagated raw.
//
// Functions:
//
//   - FetchAll(ctx, db, owner) -> []beanlog.Record, error
//   - GetBeanLog(ctx, db, owner, id) -> beanlog.Record, error
//   - CreateBeanLog(ctx, db, owner, rec) -> beanlog.Record, error
//   - UpdateBeanLog(ctx, db, owner, id, rec) -> beanlog.Record, error
//   - DeleteBeanLog(ctx, db, owner, id) -> error
//   - DeleteAllForOwner(ctx, db, owner) -> int64, error
package repo

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-beanlog-backend/internal/beanlog"
	"github.com/tbourn/go-beanlog-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// ErrUnavailable is returned when the store is not configured or can no
// longer be reached.
var ErrUnavailable = errors.New("store unavailable")

// ErrNoOwner is returned when an operation is attempted without an owner.
var ErrNoOwner = errors.New("owner is required")

// now is the store clock. Millisecond precision matches the rendered
// timestamps, so consecutive writes stay distinguishable to clients.
var now = func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) }

// FetchAll returns every bean log owned by owner. Order is left to the
// database; callers must not rely on it.
func FetchAll(ctx context.Context, db *gorm.DB, owner string) ([]beanlog.Record, error) {
	if err := guard(db, owner); err != nil {
		return nil, err
	}
	var rows []domain.BeanLog
	if err := db.WithContext(ctx).Where("owner = ?", owner).Find(&rows).Error; err != nil {
		return nil, storeErr(err)
	}
	out := make([]beanlog.Record, 0, len(rows))
	for _, b := range rows {
		out = append(out, DecodeDates(b))
	}
	return out, nil
}

// GetBeanLog fetches a single bean log by id, scoped to owner.
func GetBeanLog(ctx context.Context, db *gorm.DB, owner, id string) (beanlog.Record, error) {
	if err := guard(db, owner); err != nil {
		return beanlog.Record{}, err
	}
	var b domain.BeanLog
	if err := db.WithContext(ctx).Where("id = ? AND owner = ?", id, owner).First(&b).Error; err != nil {
		return beanlog.Record{}, storeErr(err)
	}
	return DecodeDates(b), nil
}

// CreateBeanLog writes a new bean log for owner and returns it as stored.
// The id is a fresh UUID, owner is forced to the argument regardless of
// rec.Owner, and created_at/updated_at are both stamped with the same instant.
func CreateBeanLog(ctx context.Context, db *gorm.DB, owner string, rec beanlog.Record) (beanlog.Record, error) {
	if err := guard(db, owner); err != nil {
		return beanlog.Record{}, err
	}
	b, err := EncodeDates(rec)
	if err != nil {
		return beanlog.Record{}, err
	}
	t := now()
	b.ID = uuid.NewString()
	b.Owner = owner
	b.CreatedAt = t
	b.UpdatedAt = t
	if err := db.WithContext(ctx).Create(&b).Error; err != nil {
		return beanlog.Record{}, storeErr(err)
	}
	return DecodeDates(b), nil
}

// UpdateBeanLog merges rec into the existing bean log id owned by owner.
//
// Only the record's own columns are written; owner and id never change.
// created_at takes the caller-supplied value (the stored one when rec has
// none) and updated_at is re-stamped, always strictly later than before.
// Returns ErrNotFound when the bean log does not exist for owner.
func UpdateBeanLog(ctx context.Context, db *gorm.DB, owner, id string, rec beanlog.Record) (beanlog.Record, error) {
	if err := guard(db, owner); err != nil {
		return beanlog.Record{}, err
	}
	b, err := EncodeDates(rec)
	if err != nil {
		return beanlog.Record{}, err
	}

	var out domain.BeanLog
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cur domain.BeanLog
		if err := tx.Where("id = ? AND owner = ?", id, owner).First(&cur).Error; err != nil {
			return err
		}

		created := b.CreatedAt
		if created.IsZero() {
			created = cur.CreatedAt
		}
		updated := now()
		if !updated.After(cur.UpdatedAt) {
			updated = cur.UpdatedAt.Add(time.Millisecond)
		}

		cols := map[string]any{
			"shop_name":     b.ShopName,
			"country_name":  b.CountryName,
			"region_name":   b.RegionName,
			"district_name": b.DistrictName,
			"farm":          b.Farm,
			"product_name":  b.ProductName,
			"flavor":        b.Flavor,
			"generation":    b.Generation,
			"roast_level":   b.RoastLevel,
			"is_blend":      b.IsBlend,
			"price":         b.Price,
			"volume":        b.Volume,
			"comment":       b.Comment,
			"purchase_date": b.PurchaseDate,
			"roast_date":    b.RoastDate,
			"exp_date":      b.ExpDate,
			"created_at":    created,
			"updated_at":    updated,
		}
		if err := tx.Model(&domain.BeanLog{}).Where("id = ? AND owner = ?", id, owner).Updates(cols).Error; err != nil {
			return err
		}
		return tx.Where("id = ? AND owner = ?", id, owner).First(&out).Error
	})
	if err != nil {
		return beanlog.Record{}, storeErr(err)
	}
	return DecodeDates(out), nil
}

// DeleteBeanLog removes exactly one bean log. If nothing was deleted (missing
// or owned by someone else) it returns ErrNotFound.
func DeleteBeanLog(ctx context.Context, db *gorm.DB, owner, id string) error {
	if err := guard(db, owner); err != nil {
		return err
	}
	res := db.WithContext(ctx).Where("id = ? AND owner = ?", id, owner).Delete(&domain.BeanLog{})
	if res.Error != nil {
		return storeErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteAllForOwner removes every bean log of owner in a single transaction:
// either all of them are gone afterwards or none are. It returns the number
// of rows deleted.
func DeleteAllForOwner(ctx context.Context, db *gorm.DB, owner string) (int64, error) {
	if err := guard(db, owner); err != nil {
		return 0, err
	}
	var n int64
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("owner = ?", owner).Delete(&domain.BeanLog{})
		if res.Error != nil {
			return res.Error
		}
		n = res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, storeErr(err)
	}
	return n, nil
}

// guard rejects calls that have no store or no owner to scope by.
func guard(db *gorm.DB, owner string) error {
	if db == nil {
		return ErrUnavailable
	}
	if strings.TrimSpace(owner) == "" {
		return ErrNoOwner
	}
	return nil
}

// storeErr marks connectivity failures as ErrUnavailable and passes other
// errors through unchanged.
func storeErr(err error) error {
	if err == nil || errors.Is(err, ErrNotFound) {
		return err
	}
	if errors.Is(err, sql.ErrConnDone) || errors.Is(err, driver.ErrBadConn) ||
		strings.Contains(strings.ToLower(err.Error()), "database is closed") {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return err
}
