// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for users, the
// identities that own bean logs.
package repo

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/tbourn/go-beanlog-backend/internal/domain"
)

// CreateUser inserts u. A second user with the same email yields ErrDuplicate.
func CreateUser(ctx context.Context, db *gorm.DB, u *domain.User) error {
	if db == nil {
		return ErrUnavailable
	}
	if u.Email != nil {
		e := strings.ToLower(strings.TrimSpace(*u.Email))
		u.Email = &e
	}
	if err := db.WithContext(ctx).Create(u).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return storeErr(err)
	}
	return nil
}

// GetUser loads a user by id.
func GetUser(ctx context.Context, db *gorm.DB, id string) (*domain.User, error) {
	if db == nil {
		return nil, ErrUnavailable
	}
	var u domain.User
	if err := db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, storeErr(err)
	}
	return &u, nil
}

// GetUserByEmail loads a user by email, compared case-insensitively.
func GetUserByEmail(ctx context.Context, db *gorm.DB, email string) (*domain.User, error) {
	if db == nil {
		return nil, ErrUnavailable
	}
	var u domain.User
	err := db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&u).Error
	if err != nil {
		return nil, storeErr(err)
	}
	return &u, nil
}

// DeleteUser removes the user row. It returns ErrNotFound when no row matched.
func DeleteUser(ctx context.Context, db *gorm.DB, id string) error {
	if db == nil {
		return ErrUnavailable
	}
	res := db.WithContext(ctx).Where("id = ?", id).Delete(&domain.User{})
	if res.Error != nil {
		return storeErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
