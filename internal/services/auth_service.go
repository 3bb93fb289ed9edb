// Package services – AuthService
//
// AuthService is the identity provider bean logs are scoped by. It registers
// email/password users (bcrypt hashes), creates anonymous guest users, and
// issues HS256 session tokens whose subject is the user id. The rest of the
// system only ever sees that id.
//
// Account deletion removes the identity first and the owner's bean logs
// second. When the second step fails the identity stays deleted and the
// result reports the failed cleanup; there is no rollback across the two.
package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/tbourn/go-beanlog-backend/internal/domain"
	"github.com/tbourn/go-beanlog-backend/internal/repo"

	// OpenTelemetry
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// MinPasswordLen is the shortest accepted password, in runes.
const MinPasswordLen = 8

// CleanupWarning is reported when an account was deleted but its bean logs
// could not be.
const CleanupWarning = "account deleted, but some records could not be removed"

// UserStore defines the repository contract for users.
type UserStore interface {
	CreateUser(ctx context.Context, db *gorm.DB, u *domain.User) error
	GetUser(ctx context.Context, db *gorm.DB, id string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, db *gorm.DB, email string) (*domain.User, error)
	DeleteUser(ctx context.Context, db *gorm.DB, id string) error
}

// Session is an issued session token and the user it belongs to.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      domain.User
}

// AccountDeletion describes the outcome of DeleteAccount.
type AccountDeletion struct {
	Deleted       bool
	LogsDeleted   int64
	CleanupFailed bool
	Warning       string
}

// sessionClaims are the claims carried by a session token.
type sessionClaims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

// AuthService manages users and session tokens.
type AuthService struct {
	DB    *gorm.DB
	Users UserStore
	Logs  LogStore
	Lists *ListCoordinator

	Secret     []byte
	TokenTTL   time.Duration
	BcryptCost int
	Now        func() time.Time
}

// NewAuthService returns an AuthService with default token lifetime and
// bcrypt cost.
func NewAuthService(db *gorm.DB, users UserStore, logs LogStore, lists *ListCoordinator, secret []byte) *AuthService {
	return &AuthService{
		DB:         db,
		Users:      users,
		Logs:       logs,
		Lists:      lists,
		Secret:     secret,
		TokenTTL:   7 * 24 * time.Hour,
		BcryptCost: bcrypt.DefaultCost,
		Now:        time.Now,
	}
}

// Register creates an email/password user and signs them in.
func (s *AuthService) Register(ctx context.Context, email, password string) (Session, error) {
	tr := otel.Tracer("services/AuthService")
	ctx, span := tr.Start(ctx, "Register")
	defer span.End()

	email, err := normalizeEmail(email)
	if err != nil {
		return Session{}, err
	}
	if utf8.RuneCountInString(password) < MinPasswordLen {
		return Session{}, ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost())
	if err != nil {
		return Session{}, fmt.Errorf("hash password: %w", err)
	}

	now := s.now().UTC()
	u := &domain.User{
		ID:           uuid.NewString(),
		Email:        &email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Users.CreateUser(ctx, s.DB, u); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return Session{}, ErrEmailTaken
		}
		return Session{}, err
	}
	span.SetAttributes(attribute.String("user.id", u.ID))
	return s.session(*u)
}

// Login signs in an existing email/password user.
func (s *AuthService) Login(ctx context.Context, email, password string) (Session, error) {
	tr := otel.Tracer("services/AuthService")
	ctx, span := tr.Start(ctx, "Login")
	defer span.End()

	email, err := normalizeEmail(email)
	if err != nil {
		return Session{}, ErrInvalidCredentials
	}
	u, err := s.Users.GetUserByEmail(ctx, s.DB, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return Session{}, ErrInvalidCredentials
	}
	span.SetAttributes(attribute.String("user.id", u.ID))
	return s.session(*u)
}

// GuestLogin creates an anonymous user and signs them in.
func (s *AuthService) GuestLogin(ctx context.Context) (Session, error) {
	tr := otel.Tracer("services/AuthService")
	ctx, span := tr.Start(ctx, "GuestLogin")
	defer span.End()

	now := s.now().UTC()
	u := &domain.User{ID: uuid.NewString(), Anonymous: true, CreatedAt: now, UpdatedAt: now}
	if err := s.Users.CreateUser(ctx, s.DB, u); err != nil {
		return Session{}, err
	}
	span.SetAttributes(attribute.String("user.id", u.ID))
	return s.session(*u)
}

// CurrentUser loads the user a session refers to.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	u, err := s.Users.GetUser(ctx, s.DB, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return u, err
}

// UserExists reports whether userID is still on record. It backs the
// protected-route check so a deleted account's tokens stop working.
func (s *AuthService) UserExists(ctx context.Context, userID string) (bool, error) {
	_, err := s.CurrentUser(ctx, userID)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrUserNotFound):
		return false, nil
	default:
		return false, err
	}
}

// IssueToken signs a session token for userID.
func (s *AuthService) IssueToken(userID string) (string, time.Time, error) {
	now := s.now()
	exp := now.Add(s.ttl())
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})
	signed, err := token.SignedString(s.Secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// ParseToken verifies a session token and returns the user id it carries.
func (s *AuthService) ParseToken(raw string) (string, error) {
	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.Secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}
	if strings.TrimSpace(claims.UserID) == "" || claims.UserID != claims.Subject {
		return "", ErrInvalidToken
	}
	return claims.UserID, nil
}

// DeleteAccount deletes the user and then all of their bean logs.
//
// Password users must confirm with their password; guests have none. The
// returned AccountDeletion has Deleted set once the identity is gone, even
// when removing the bean logs failed afterwards.
func (s *AuthService) DeleteAccount(ctx context.Context, userID, password string) (AccountDeletion, error) {
	tr := otel.Tracer("services/AuthService")
	ctx, span := tr.Start(ctx, "DeleteAccount", trace.WithAttributes(attribute.String("user.id", userID)))
	defer span.End()

	u, err := s.CurrentUser(ctx, userID)
	if err != nil {
		return AccountDeletion{}, err
	}
	if !u.Anonymous {
		if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
			return AccountDeletion{}, ErrInvalidCredentials
		}
	}

	ctx = context.WithoutCancel(ctx)
	if err := s.Users.DeleteUser(ctx, s.DB, userID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return AccountDeletion{}, ErrUserNotFound
		}
		return AccountDeletion{}, err
	}

	if s.Lists != nil {
		s.Lists.Forget(userID)
	}

	out := AccountDeletion{Deleted: true}
	n, err := s.Logs.DeleteAllForOwner(ctx, s.DB, userID)
	observeStore("delete_all", err)
	if err != nil {
		span.RecordError(err)
		out.CleanupFailed = true
		out.Warning = CleanupWarning
		return out, nil
	}
	out.LogsDeleted = n
	return out, nil
}

func (s *AuthService) session(u domain.User) (Session, error) {
	tok, exp, err := s.IssueToken(u.ID)
	if err != nil {
		return Session{}, err
	}
	return Session{Token: tok, ExpiresAt: exp, User: u}, nil
}

func (s *AuthService) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func (s *AuthService) ttl() time.Duration {
	if s.TokenTTL <= 0 {
		return 7 * 24 * time.Hour
	}
	return s.TokenTTL
}

func (s *AuthService) cost() int {
	if s.BcryptCost == 0 {
		return bcrypt.DefaultCost
	}
	return s.BcryptCost
}

// normalizeEmail lower-cases and validates a bare address.
func normalizeEmail(raw string) (string, error) {
	e := strings.ToLower(strings.TrimSpace(raw))
	addr, err := mail.ParseAddress(e)
	if err != nil || addr.Address != e {
		return "", ErrInvalidEmail
	}
	return e, nil
}
