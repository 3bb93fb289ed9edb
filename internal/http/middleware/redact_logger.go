// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements RedactingLogger, the access log of the bean log API.
// It never logs bodies, so shop names, comments and passwords stay out of the
// log. What it does log (the query string and request headers) is scrubbed
// of session tokens, email addresses and record ids; credential headers are
// masked whole. It also attaches the request-scoped logger that handlers read
// back with LoggerFrom.
package middleware

import (
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const redacted = "[REDACTED]"

// Session tokens are JWTs; ids are the UUIDs bean logs and users are keyed by.
var (
	tokenRE = regexp.MustCompile(`\beyJ[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+`)
	emailRE = regexp.MustCompile(`(?i)\b[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}\b`)
	uuidRE  = regexp.MustCompile(`(?i)\b[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}\b`)
)

// alwaysMasked headers carry session credentials.
var alwaysMasked = []string{"Authorization", "Cookie", "Set-Cookie"}

// RedactOptions configures RedactingLogger.
//
// MaskHeaders names extra headers whose values are replaced whole, matched
// case-insensitively. The router adds Idempotency-Key here.
type RedactOptions struct {
	MaskHeaders []string
}

// scrub replaces tokens, emails and ids in s. Tokens go first because a
// JWT payload can decode to text that looks like an email.
func scrub(s string) string {
	if s == "" {
		return s
	}
	s = tokenRE.ReplaceAllString(s, "[REDACTED:token]")
	s = emailRE.ReplaceAllString(s, "[REDACTED:email]")
	return uuidRE.ReplaceAllString(s, "[REDACTED:id]")
}

// RedactingLogger logs one line per request: info for 2xx/3xx, warn for 4xx
// and error for 5xx. The path is the route template when one matched and the
// scrubbed raw path otherwise.
func RedactingLogger(opts RedactOptions) gin.HandlerFunc {
	masked := make(map[string]struct{}, len(alwaysMasked)+len(opts.MaskHeaders))
	for _, h := range append(append([]string{}, alwaysMasked...), opts.MaskHeaders...) {
		if h = strings.TrimSpace(h); h != "" {
			masked[strings.ToLower(h)] = struct{}{}
		}
	}

	return func(c *gin.Context) {
		start := time.Now()

		path := c.FullPath()
		if path == "" {
			path = scrub(truncate(c.Request.URL.Path, maxQueryLogLength))
		}
		query := scrub(truncate(c.Request.URL.RawQuery, maxQueryLogLength))

		headers := make(map[string]string, len(c.Request.Header))
		for k, vv := range c.Request.Header {
			if _, ok := masked[strings.ToLower(k)]; ok {
				headers[k] = redacted
				continue
			}
			headers[k] = scrub(strings.Join(vv, ", "))
		}

		rid, _ := c.Get(requestIDKey)
		scoped := log.With().
			Str("request_id", asString(rid)).
			Str("method", c.Request.Method).
			Str("path", path).
			Logger()
		c.Set(loggerKey, &scoped)

		c.Next()

		reqID := c.Writer.Header().Get(requestIDHeader)
		if reqID == "" {
			reqID = c.GetHeader(requestIDHeader)
		}

		status := c.Writer.Status()
		ev := log.Info()
		switch {
		case status >= 500:
			ev = log.Error()
		case status >= 400:
			ev = log.Warn()
		}
		ev.
			Str("request_id", reqID).
			Str("user_id", UserID(c)).
			Str("method", c.Request.Method).
			Str("path", path).
			Str("query", query).
			Int("status", status).
			Int("bytes", c.Writer.Size()).
			Dur("latency", time.Since(start)).
			Interface("headers", headers).
			Msg("http_request")
	}
}
