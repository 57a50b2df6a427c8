package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/campusboard/campusboard/shared/config"
	"github.com/campusboard/campusboard/shared/domain"
	mw "github.com/campusboard/campusboard/shared/middleware"
)

var (
	adminUser    = &domain.User{Id: 1, StudentId: "1", Name: "root", RoleId: 1, Role: &domain.Role{Id: 1, Title: domain.RoleAdmin}}
	residentUser = &domain.User{Id: 2, StudentId: "201201234", Name: "John Smith", RoleId: 2, Role: &domain.Role{Id: 2, Title: domain.RoleResident}}
)

func testConfig() *config.Config {
	return &config.Config{Public: config.Public{
		JwtTTL:           time.Hour,
		MaxUploadSize:    1 << 10,
		AllowedMimeTypes: []string{"image/png", "text/plain"},
		PostsPerPage:     5,
		ExcerptLength:    100,
	}}
}

func newTestHandler(s Services) *Handler {
	return New(s, Probes{Storage: &MockHealthChecker{}}, testConfig())
}

// asUser puts user into the request context the way the auth middleware does.
func asUser(user *domain.User) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if user != nil {
				r = r.WithContext(mw.WithUser(r.Context(), user))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func newRouter(user *domain.User) chi.Router {
	r := chi.NewRouter()
	r.Use(asUser(user))
	return r
}

func createRequest(t *testing.T, method, url string, body []byte, cookies ...*http.Cookie) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, url, bytes.NewBuffer(body))
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return req
}

func serve(router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

type envelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Result  *struct {
		Kind string          `json:"kind"`
		Data json.RawMessage `json:"data"`
	} `json:"result"`
}

// decodeEnvelope checks the envelope code matches the status and returns the result data in out.
func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder, kind string, out any) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env), rr.Body.String())
	require.Equal(t, rr.Code, env.Code)
	if kind == "" {
		require.Nil(t, env.Result)
		return env
	}
	require.NotNil(t, env.Result)
	require.Equal(t, kind, env.Result.Kind)
	if out != nil {
		require.NoError(t, json.Unmarshal(env.Result.Data, out))
	}
	return env
}
