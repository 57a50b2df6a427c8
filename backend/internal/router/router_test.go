package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusboard/campusboard/backend/internal/setup"
	"github.com/campusboard/campusboard/shared/config"
)

type envelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Result  *struct {
		Kind string          `json:"kind"`
		Data json.RawMessage `json:"data"`
	} `json:"result"`
}

type client struct {
	t   *testing.T
	srv *httptest.Server
}

func (c client) call(method, path, token string, body any, out any) envelope {
	c.t.Helper()
	var payload bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&payload).Encode(body))
	}
	req, err := http.NewRequest(method, c.srv.URL+path, &payload)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.srv.Client().Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(c.t, json.NewDecoder(resp.Body).Decode(&env))
	require.Equal(c.t, resp.StatusCode, env.Code, env.Message)
	if out != nil && env.Result != nil {
		require.NoError(c.t, json.Unmarshal(env.Result.Data, out))
	}
	return env
}

type session struct {
	User struct {
		Id      int64  `json:"id"`
		Role    string `json:"role"`
		Version int64  `json:"version"`
	} `json:"user"`
	AccessToken string `json:"access_token"`
}

func (c client) login(sid, password string) session {
	c.t.Helper()
	var s session
	env := c.call(http.MethodPost, "/v1/auth/login", "", map[string]string{"sid": sid, "password": password}, &s)
	require.Equal(c.t, http.StatusOK, env.Code, env.Message)
	require.NotEmpty(c.t, s.AccessToken)
	return s
}

func newServer(t *testing.T) client {
	t.Helper()
	cfg := &config.Config{
		Public: config.Public{
			Addr:             ":0",
			Storage:          config.StorageMemory,
			UploadDir:        t.TempDir(),
			JwtTTL:           time.Hour,
			PostsPerPage:     5,
			ExcerptLength:    100,
			MaxUploadSize:    1 << 20,
			AllowedMimeTypes: []string{"text/plain"},
		},
		Private: config.Private{
			JwtKey:    "router-test",
			RootAdmin: config.RootAdmin{StudentId: "1000", Name: "Administrator", Password: "rootpassword"},
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	deps, err := setup.SetupDependencies(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { deps.Storage.Close() })

	srv := httptest.NewServer(New(deps))
	t.Cleanup(srv.Close)
	return client{t: t, srv: srv}
}

func TestRouterEndToEnd(t *testing.T) {
	c := newServer(t)

	env := c.call(http.MethodPost, "/v1/init", "", nil, nil)
	require.Equal(t, http.StatusOK, env.Code)

	root := c.login("1000", "rootpassword")
	assert.Equal(t, "admin", root.User.Role)

	var registered struct {
		Id      int64 `json:"id"`
		Version int64 `json:"version"`
	}
	env = c.call(http.MethodPost, "/v1/admin/users", root.AccessToken, map[string]string{
		"sid": "20240001", "name": "Jane Doe", "password": "password1", "role": "resident",
	}, &registered)
	require.Equal(t, http.StatusCreated, env.Code, env.Message)

	jane := c.login("20240001", "password1")

	var boards []struct {
		Id    int64  `json:"id"`
		Title string `json:"title"`
	}
	c.call(http.MethodGet, "/v1/boards", jane.AccessToken, nil, &boards)
	require.Len(t, boards, 3)
	var seminar int64
	for _, b := range boards {
		if b.Title == "seminar" {
			seminar = b.Id
		}
	}
	require.NotZero(t, seminar)

	env = c.call(http.MethodPost, "/v1/posts", jane.AccessToken, map[string]any{
		"title": "Reading list", "content": "Chapter **one** and two", "board_id": seminar,
	}, nil)
	require.Equal(t, http.StatusCreated, env.Code, env.Message)

	var page struct {
		Posts []struct {
			Title   string `json:"title"`
			Content string `json:"content"`
		} `json:"posts"`
		Total int `json:"total"`
	}
	c.call(http.MethodGet, "/v1/posts/page/1?board=seminar", jane.AccessToken, nil, &page)
	require.Equal(t, 1, page.Total)
	assert.Equal(t, "Reading list", page.Posts[0].Title)
	assert.Equal(t, "Chapter one and two", page.Posts[0].Content)

	t.Run("admin routes reject residents", func(t *testing.T) {
		env := c.call(http.MethodPost, "/v1/admin/roles", jane.AccessToken, map[string]string{"title": "guest"}, nil)
		assert.Equal(t, http.StatusForbidden, env.Code)
	})

	t.Run("role change revokes the old session", func(t *testing.T) {
		env := c.call(http.MethodPut, fmt.Sprintf("/v1/users/%d", registered.Id), root.AccessToken, map[string]any{
			"role": "freshman", "version": registered.Version,
		}, nil)
		require.Equal(t, http.StatusOK, env.Code, env.Message)

		env = c.call(http.MethodGet, "/v1/boards", jane.AccessToken, nil, nil)
		assert.Equal(t, http.StatusUnauthorized, env.Code)
		assert.Contains(t, env.Message, "revoked")
	})

	t.Run("anonymous requests need a session", func(t *testing.T) {
		env := c.call(http.MethodGet, "/v1/boards", "", nil, nil)
		assert.Equal(t, http.StatusUnauthorized, env.Code)
	})

	t.Run("ready", func(t *testing.T) {
		env := c.call(http.MethodGet, "/ready", "", nil, nil)
		assert.Equal(t, http.StatusOK, env.Code)
		assert.Equal(t, "ok: memory storage", env.Message)
	})
}
