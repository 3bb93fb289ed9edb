// Identity HTTP handlers.
//
// This file exposes the session endpoints and the account resource:
//   - POST   /auth/register   (email + password)
//   - POST   /auth/login
//   - POST   /auth/guest      (anonymous account)
//   - POST   /auth/logout
//   - GET    /account
//   - DELETE /account         (identity first, then every bean log)
//
// Successful sign-ins return the session token in the body and also set it as
// an HttpOnly cookie, so browser clients never have to store it themselves.
package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-beanlog-backend/internal/domain"
	"github.com/tbourn/go-beanlog-backend/internal/http/middleware"
	"github.com/tbourn/go-beanlog-backend/internal/services"
)

//
// DTOs
//

// CredentialsRequest is the JSON payload for register and login.
type CredentialsRequest struct {
	Email    string `json:"email"    binding:"required" example:"barista@example.com"`
	Password string `json:"password" binding:"required" example:"correct horse"`
}

// SessionResponse is returned by every sign-in endpoint.
type SessionResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      domain.User `json:"user"`
}

// DeleteAccountRequest carries the password confirming an account deletion.
// Guest accounts have no password and may omit it.
type DeleteAccountRequest struct {
	Password string `json:"password" example:"correct horse"`
}

// AccountDeletionResponse reports what an account deletion removed.
// CleanupFailed means the account is gone but some bean logs remain.
type AccountDeletionResponse struct {
	Deleted       bool   `json:"deleted"`
	LogsDeleted   int64  `json:"logs_deleted"`
	CleanupFailed bool   `json:"cleanup_failed"`
	Warning       string `json:"warning,omitempty"`
}

//
// Helpers
//

func (h *Handlers) setSession(c *gin.Context, s services.Session) {
	maxAge := int(time.Until(s.ExpiresAt).Seconds())
	if maxAge < 1 {
		maxAge = 1
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, s.Token, maxAge, "/", "", h.cfg.CookieSecure, true)
}

func (h *Handlers) clearSession(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", h.cfg.CookieSecure, true)
}

// failAuth maps identity errors to the HTTP error envelope.
func failAuth(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidEmail):
		failFields(c, http.StatusUnprocessableEntity, ErrCodeValidation, "invalid email address", []string{"email"})
	case errors.Is(err, services.ErrWeakPassword):
		failFields(c, http.StatusUnprocessableEntity, ErrCodeValidation, "password must be at least 8 characters", []string{"password"})
	case errors.Is(err, services.ErrEmailTaken):
		fail(c, http.StatusConflict, ErrCodeConflict, "email already registered")
	case errors.Is(err, services.ErrInvalidCredentials):
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "invalid email or password")
	case errors.Is(err, services.ErrUserNotFound):
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "session no longer valid")
	case services.IsUnavailable(err):
		fail(c, http.StatusServiceUnavailable, ErrCodeStoreUnavailable, "store unavailable, please try again later")
	default:
		lg := middleware.LoggerFrom(c)
		lg.Error().Err(err).Msg("identity operation failed")
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "internal server error")
	}
}

//
// Handlers
//

// Register godoc
// @ID          register
// @Summary     Create an account
// @Tags        Auth
// @Accept      json
// @Produce     json
// @Param       body  body  handlers.CredentialsRequest  true  "Email and password"
// @Success     201  {object} handlers.SessionResponse
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     409  {object} handlers.ErrorResponse "Email already registered"
// @Failure     422  {object} handlers.ErrorResponse "Invalid email or weak password"
// @Router      /auth/register [post]
func (h *Handlers) Register(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "email and password required")
		return
	}
	s, err := h.authSvc.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		failAuth(c, err)
		return
	}
	h.setSession(c, s)
	ok(c, http.StatusCreated, SessionResponse{Token: s.Token, ExpiresAt: s.ExpiresAt, User: s.User})
}

// Login godoc
// @ID          login
// @Summary     Sign in with email and password
// @Tags        Auth
// @Accept      json
// @Produce     json
// @Param       body  body  handlers.CredentialsRequest  true  "Email and password"
// @Success     200  {object} handlers.SessionResponse
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     401  {object} handlers.ErrorResponse "Invalid credentials"
// @Router      /auth/login [post]
func (h *Handlers) Login(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "email and password required")
		return
	}
	s, err := h.authSvc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		failAuth(c, err)
		return
	}
	h.setSession(c, s)
	ok(c, http.StatusOK, SessionResponse{Token: s.Token, ExpiresAt: s.ExpiresAt, User: s.User})
}

// GuestLogin godoc
// @ID          guestLogin
// @Summary     Sign in as a guest
// @Description Creates an anonymous account and signs it in.
// @Tags        Auth
// @Produce     json
// @Success     201  {object} handlers.SessionResponse
// @Failure     503  {object} handlers.ErrorResponse "Store unavailable"
// @Router      /auth/guest [post]
func (h *Handlers) GuestLogin(c *gin.Context) {
	s, err := h.authSvc.GuestLogin(c.Request.Context())
	if err != nil {
		failAuth(c, err)
		return
	}
	h.setSession(c, s)
	ok(c, http.StatusCreated, SessionResponse{Token: s.Token, ExpiresAt: s.ExpiresAt, User: s.User})
}

// Logout godoc
// @ID          logout
// @Summary     Sign out
// @Description Clears the session cookie. Bearer tokens simply stop being sent by the client.
// @Tags        Auth
// @Success     204  {string} string "No Content"
// @Router      /auth/logout [post]
func (h *Handlers) Logout(c *gin.Context) {
	h.clearSession(c)
	noContent(c)
}

// GetAccount godoc
// @ID          getAccount
// @Summary     Current user
// @Tags        Account
// @Produce     json
// @Security    BearerAuth
// @Success     200  {object} domain.User
// @Failure     401  {object} handlers.ErrorResponse "Sign in required"
// @Router      /account [get]
func (h *Handlers) GetAccount(c *gin.Context) {
	u, err := h.authSvc.CurrentUser(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		failAuth(c, err)
		return
	}
	ok(c, http.StatusOK, u)
}

// DeleteAccount godoc
// @ID          deleteAccount
// @Summary     Delete the current account
// @Description Deletes the identity first and then every bean log it owns. When removing the logs
// @Description fails, the account stays deleted and the response carries cleanup_failed and a warning.
// @Tags        Account
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       body  body  handlers.DeleteAccountRequest  false  "Password confirmation"
// @Success     200  {object} handlers.AccountDeletionResponse
// @Failure     401  {object} handlers.ErrorResponse "Wrong password or sign in required"
// @Failure     503  {object} handlers.ErrorResponse "Store unavailable"
// @Router      /account [delete]
func (h *Handlers) DeleteAccount(c *gin.Context) {
	var req DeleteAccountRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
			return
		}
	}

	res, err := h.authSvc.DeleteAccount(c.Request.Context(), middleware.UserID(c), req.Password)
	if err != nil {
		failAuth(c, err)
		return
	}
	if res.CleanupFailed {
		lg := middleware.LoggerFrom(c)
		lg.Warn().Msg("account deleted but bean log cleanup failed")
	}
	h.clearSession(c)
	ok(c, http.StatusOK, AccountDeletionResponse{
		Deleted:       res.Deleted,
		LogsDeleted:   res.LogsDeleted,
		CleanupFailed: res.CleanupFailed,
		Warning:       res.Warning,
	})
}
