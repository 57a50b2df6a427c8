package middleware

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusboard/campusboard/shared/domain"
	"github.com/campusboard/campusboard/shared/middleware/ratelimiter"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimit(t *testing.T) {
	t.Run("allows request within rate limit", func(t *testing.T) {
		rl := ratelimiter.New("test", 1, 1, time.Minute)
		defer rl.Stop()
		handler := RateLimit(rl, func(r *http.Request) (string, error) { return "user1", nil })(okHandler())

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("error getting identity", func(t *testing.T) {
		rl := ratelimiter.New("test", 1, 1, time.Minute)
		defer rl.Stop()
		handler := RateLimit(rl, func(r *http.Request) (string, error) { return "", errors.New("Test error") })(okHandler())

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("blocks request exceeding rate limit", func(t *testing.T) {
		rl := ratelimiter.New("test", 0.001, 1, time.Minute)
		defer rl.Stop()
		handler := RateLimit(rl, func(r *http.Request) (string, error) { return "user1", nil })(okHandler())

		w1 := httptest.NewRecorder()
		handler.ServeHTTP(w1, httptest.NewRequest("GET", "/", nil))
		assert.Equal(t, http.StatusOK, w1.Code)

		w2 := httptest.NewRecorder()
		handler.ServeHTTP(w2, httptest.NewRequest("GET", "/", nil))
		assert.Equal(t, http.StatusTooManyRequests, w2.Code)
		assert.Contains(t, w2.Body.String(), "Rate limit exceeded")
	})

	t.Run("admin is not limited", func(t *testing.T) {
		rl := ratelimiter.New("test", 0.001, 1, time.Minute)
		defer rl.Stop()
		handler := RateLimit(rl, func(r *http.Request) (string, error) { return "user1", nil })(okHandler())
		admin := &domain.User{Id: 1, Role: &domain.Role{Id: 1, Title: domain.RoleAdmin}}

		for range 3 {
			req := httptest.NewRequest("GET", "/", nil)
			req = req.WithContext(WithUser(req.Context(), admin))
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)
			assert.Equal(t, http.StatusOK, w.Code)
		}
	})
}

func TestGetUserIDFromContext(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	_, err := GetUserIDFromContext(req)
	assert.Error(t, err)

	req = req.WithContext(WithUser(req.Context(), &domain.User{Id: 42}))
	id, err := GetUserIDFromContext(req)
	require.NoError(t, err)
	assert.Equal(t, "user_42", id)
}

func TestGetFieldFromBody(t *testing.T) {
	t.Run("does not destroy body", func(t *testing.T) {
		body := `{"sid":"201201234","password":"secret"}`
		req := httptest.NewRequest("POST", "/", bytes.NewBufferString(body))

		sid, err := GetFieldFromBody("sid")(req)
		require.NoError(t, err)
		assert.Equal(t, "201201234", sid)

		after, err := io.ReadAll(req.Body)
		require.NoError(t, err)
		assert.Equal(t, body, string(after))
	})

	t.Run("missing field", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/", bytes.NewBufferString(`{"password":"secret"}`))
		_, err := GetFieldFromBody("sid")(req)
		assert.EqualError(t, err, "sid field is required")
	})

	t.Run("invalid json", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/", bytes.NewBufferString(`{`))
		_, err := GetFieldFromBody("sid")(req)
		assert.EqualError(t, err, "invalid request body")
	})
}
