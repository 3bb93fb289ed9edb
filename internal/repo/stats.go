// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides small aggregate/statistics queries used
// for conditional responses (ETag generation) in the HTTP layer and for
// deciding whether a cached list snapshot is stale.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-beanlog-backend/internal/domain"
)

// BeanLogsStats returns aggregate metadata for an owner's bean logs: the total
// number of rows and the maximum UpdatedAt timestamp among those rows.
//
// It executes two lightweight queries against the bean_logs table scoped to
// the provided owner. When the owner has no bean logs, the returned count is 0
// and maxUpdatedAt is nil.
//
// Return values:
//   - count:        total bean logs for owner
//   - maxUpdatedAt: pointer to the greatest UpdatedAt, or nil if no rows
//   - err:          database error, if any
func BeanLogsStats(ctx context.Context, db *gorm.DB, owner string) (count int64, maxUpdatedAt *time.Time, err error) {
	if err = guard(db, owner); err != nil {
		return 0, nil, err
	}
	scoped := func() *gorm.DB {
		return db.WithContext(ctx).Model(&domain.BeanLog{}).Where("owner = ?", owner)
	}

	// Count
	if err = scoped().Count(&count).Error; err != nil {
		return 0, nil, storeErr(err)
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Get latest updated_at (avoid MAX() -> TEXT in SQLite)
	var row struct {
		UpdatedAt time.Time
	}
	if err = scoped().Select("updated_at").Order("updated_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, storeErr(err)
	}
	return count, &row.UpdatedAt, nil
}
