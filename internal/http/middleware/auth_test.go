package middleware

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func fakeParser(tokens map[string]string) TokenParser {
	return func(tok string) (string, error) {
		if uid, ok := tokens[tok]; ok {
			return uid, nil
		}
		return "", errors.New("bad token")
	}
}

func TestAuthenticate_BearerCookieAndAnonymous(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Authenticate(fakeParser(map[string]string{"tok-a": "alice", "tok-b": "bob"})))
	r.GET("/who", func(c *gin.Context) { c.String(http.StatusOK, UserID(c)) })

	cases := []struct {
		name   string
		header string
		cookie string
		want   string
	}{
		{"bearer", "Bearer tok-a", "", "alice"},
		{"bearer lowercase scheme", "bearer tok-b", "", "bob"},
		{"cookie", "", "tok-b", "bob"},
		{"header wins over cookie", "Bearer tok-a", "tok-b", "alice"},
		{"invalid token stays anonymous", "Bearer nope", "", ""},
		{"non-bearer scheme ignored", "Basic dG9rLWE=", "", ""},
		{"nothing", "", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/who", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			if tc.cookie != "" {
				req.AddCookie(&http.Cookie{Name: SessionCookie, Value: tc.cookie})
			}
			r.ServeHTTP(w, req)
			if w.Code != http.StatusOK {
				t.Fatalf("status = %d", w.Code)
			}
			if got := w.Body.String(); got != tc.want {
				t.Fatalf("user = %q; want %q", got, tc.want)
			}
		})
	}
}

func TestAuthenticate_NilParserIsAnonymous(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Authenticate(nil))
	r.GET("/who", func(c *gin.Context) { c.String(http.StatusOK, UserID(c)) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/who", nil)
	req.Header.Set("Authorization", "Bearer tok-a")
	r.ServeHTTP(w, req)
	if w.Body.String() != "" {
		t.Fatalf("expected anonymous, got %q", w.Body.String())
	}
}

func TestAuthenticate_EnrichesScopedLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	prev := log.Logger
	t.Cleanup(func() { log.Logger = prev })
	log.Logger = zerolog.New(&buf)

	r := gin.New()
	r.Use(RequestID())
	r.Use(RedactingLogger(RedactOptions{}))
	r.Use(Authenticate(fakeParser(map[string]string{"tok-a": "alice"})))
	r.GET("/who", func(c *gin.Context) {
		LoggerFrom(c).Info().Msg("inside")
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/who", nil)
	req.Header.Set("Authorization", "Bearer tok-a")
	r.ServeHTTP(w, req)

	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if strings.Contains(line, `"message":"inside"`) {
			if !strings.Contains(line, `"user_id":"alice"`) || !strings.Contains(line, `"request_id"`) {
				t.Fatalf("scoped logger missing fields: %s", line)
			}
			return
		}
	}
	t.Fatalf("handler log line not found:\n%s", buf.String())
}

func TestRequireAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Authenticate(fakeParser(map[string]string{"tok-a": "alice"})))
	r.GET("/private", RequireAuth(nil), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/private", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous: expected 401, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"code":"unauthorized"`) {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer tok-a")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("authenticated: expected 204, got %d", w.Code)
	}
}

func TestRequireAuth_UserLookup(t *testing.T) {
	gin.SetMode(gin.TestMode)
	known := map[string]bool{"alice": true}
	lookupErr := errors.New("db down")
	check := func(_ context.Context, uid string) (bool, error) {
		if uid == "carol" {
			return false, lookupErr
		}
		return known[uid], nil
	}
	r := gin.New()
	r.Use(Authenticate(fakeParser(map[string]string{"tok-a": "alice", "tok-b": "bob", "tok-c": "carol"})))
	r.GET("/private", RequireAuth(check), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	cases := []struct {
		name string
		tok  string
		want int
		code string
	}{
		{"existing user", "tok-a", http.StatusNoContent, ""},
		{"deleted user", "tok-b", http.StatusUnauthorized, "unauthorized"},
		{"lookup failure", "tok-c", http.StatusServiceUnavailable, "store_unavailable"},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/private", nil)
		req.Header.Set("Authorization", "Bearer "+tc.tok)
		r.ServeHTTP(w, req)
		if w.Code != tc.want {
			t.Fatalf("%s: expected %d, got %d", tc.name, tc.want, w.Code)
		}
		if tc.code != "" && !strings.Contains(w.Body.String(), `"code":"`+tc.code+`"`) {
			t.Fatalf("%s: unexpected body: %s", tc.name, w.Body.String())
		}
	}
}

func TestUserID_WrongTypeIsAnonymous(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Set(UserIDKey, 42)
	if got := UserID(c); got != "" {
		t.Fatalf("expected empty user id, got %q", got)
	}
}
