// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file resolves the caller's identity from a session token. Authenticate
// runs on every request and only annotates the context; RequireAuth rejects
// requests that carry no valid identity. The token is read from the
// Authorization bearer header first and the session cookie second.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// UserIDKey is the Gin context key holding the authenticated user id.
const UserIDKey = "userID"

// SessionCookie is the name of the HttpOnly cookie carrying the session token.
const SessionCookie = "beanlog_session"

// TokenParser verifies a session token and returns the user id it carries.
type TokenParser func(token string) (userID string, err error)

// UserCheck reports whether the user a session names still exists. A signed
// token outlives its account, so protected routes re-resolve the user.
type UserCheck func(ctx context.Context, userID string) (bool, error)

// Authenticate stores the user id of a valid session token under UserIDKey
// and enriches the request-scoped logger with it. Invalid or missing tokens
// leave the request anonymous; it is up to RequireAuth to reject it.
func Authenticate(parse TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tok := sessionToken(c); tok != "" && parse != nil {
			if uid, err := parse(tok); err == nil && uid != "" {
				c.Set(UserIDKey, uid)
				lg := LoggerFrom(c).With().Str("user_id", uid).Logger()
				c.Set(loggerKey, &lg)
			}
		}
		c.Next()
	}
}

// RequireAuth aborts with 401 unless Authenticate resolved a user and, when
// exists is non-nil, that user is still on record. A failed lookup is a 503.
func RequireAuth(exists UserCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := UserID(c)
		if uid == "" {
			abortUnauthorized(c)
			return
		}
		if exists != nil {
			found, err := exists(c.Request.Context(), uid)
			if err != nil {
				LoggerFrom(c).Error().Err(err).Msg("session user lookup failed")
				c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
					"request_id": c.Writer.Header().Get(requestIDHeader),
					"code":       "store_unavailable",
					"message":    "could not verify session",
				})
				return
			}
			if !found {
				abortUnauthorized(c)
				return
			}
		}
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"request_id": c.Writer.Header().Get(requestIDHeader),
		"code":       "unauthorized",
		"message":    "sign in required",
	})
}

// UserID returns the authenticated user id, or "" for anonymous requests.
func UserID(c *gin.Context) string {
	if v, ok := c.Get(UserIDKey); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func sessionToken(c *gin.Context) string {
	if h := strings.TrimSpace(c.GetHeader("Authorization")); h != "" {
		if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
			return strings.TrimSpace(h[7:])
		}
	}
	if v, err := c.Cookie(SessionCookie); err == nil {
		return strings.TrimSpace(v)
	}
	return ""
}
