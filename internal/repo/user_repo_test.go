package repo

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/tbourn/go-beanlog-backend/internal/domain"
)

func TestCreateUser_NormalizesEmailAndRejectsDuplicate(t *testing.T) {
	db := newTestDB(t, &domain.User{})
	ctx := context.Background()

	email := "  Alice@Example.com "
	u := &domain.User{ID: uuid.NewString(), Email: &email, PasswordHash: "h"}
	if err := CreateUser(ctx, db, u); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if *u.Email != "alice@example.com" {
		t.Fatalf("email not normalized: %q", *u.Email)
	}

	again := "ALICE@example.com"
	if err := CreateUser(ctx, db, &domain.User{ID: uuid.NewString(), Email: &again}); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	got, err := GetUserByEmail(ctx, db, "alice@EXAMPLE.com")
	if err != nil || got.ID != u.ID {
		t.Fatalf("GetUserByEmail: got=%+v err=%v", got, err)
	}
}

func TestCreateUser_GuestsWithoutEmail(t *testing.T) {
	db := newTestDB(t, &domain.User{})
	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if err := CreateUser(ctx, db, &domain.User{ID: uuid.NewString(), Anonymous: true}); err != nil {
			t.Fatalf("guest %d: %v", i, err)
		}
	}
}

func TestGetAndDeleteUser(t *testing.T) {
	db := newTestDB(t, &domain.User{})
	ctx := context.Background()

	u := &domain.User{ID: uuid.NewString(), Anonymous: true}
	if err := CreateUser(ctx, db, u); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if got, err := GetUser(ctx, db, u.ID); err != nil || !got.Anonymous {
		t.Fatalf("GetUser: got=%+v err=%v", got, err)
	}
	if err := DeleteUser(ctx, db, u.ID); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}
	if err := DeleteUser(ctx, db, u.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete: expected ErrNotFound, got %v", err)
	}
	if _, err := GetUser(ctx, db, u.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("get after delete: expected ErrNotFound, got %v", err)
	}
}

func TestUserRepo_NilDB(t *testing.T) {
	ctx := context.Background()
	if err := CreateUser(ctx, nil, &domain.User{}); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if _, err := GetUser(ctx, nil, "x"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}
