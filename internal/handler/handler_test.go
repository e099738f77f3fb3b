package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Dan9191/tweet-service/internal/config"
	"github.com/Dan9191/tweet-service/internal/feed"
	"github.com/Dan9191/tweet-service/internal/models"
	"github.com/Dan9191/tweet-service/internal/repository"
	"github.com/Dan9191/tweet-service/internal/service"
)

type testServer struct {
	t      *testing.T
	router http.Handler
	svc    *service.Service
}

func newTestServer(t *testing.T, mutate ...func(*config.Config)) *testServer {
	t.Helper()
	cfg := &config.Config{
		DBDriver:   config.DriverMemory,
		JWTSecret:  "test-secret",
		TokenTTL:   time.Hour,
		BcryptCost: bcrypt.MinCost,
	}
	for _, m := range mutate {
		m(cfg)
	}
	log := logrus.New()
	log.SetOutput(io.Discard)

	svc := service.NewService(repository.NewMemoryRepository(), log, cfg)
	h := NewHandler(svc, log, feed.Channel{Title: "Latest posts", Link: "http://example.com/posts"})
	return &testServer{t: t, router: NewRouter(h, svc), svc: svc}
}

func (s *testServer) do(method, path, token, body string) *httptest.ResponseRecorder {
	s.t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	s.router.ServeHTTP(resp, req)
	return resp
}

// signup registers and logs in, returning the bearer token
func (s *testServer) signup(username, password string) string {
	s.t.Helper()
	body := `{"username":"` + username + `","password":"` + password + `"}`
	resp := s.do(http.MethodPost, "/register", "", body)
	require.Equal(s.t, http.StatusCreated, resp.Code, resp.Body.String())

	resp = s.do(http.MethodPost, "/login", "", body)
	require.Equal(s.t, http.StatusOK, resp.Code, resp.Body.String())

	var payload map[string]string
	require.NoError(s.t, json.Unmarshal(resp.Body.Bytes(), &payload))
	require.NotEmpty(s.t, payload["token"])
	return payload["token"]
}

func decode[T any](t *testing.T, resp *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &v), resp.Body.String())
	return v
}

func TestAliceScenario(t *testing.T) {
	s := newTestServer(t)
	alice := s.signup("alice", "pw1")

	resp := s.do(http.MethodPost, "/posts", alice, `{"content":"hello"}`)
	require.Equal(t, http.StatusCreated, resp.Code)
	created := decode[map[string]any](t, resp)
	assert.EqualValues(t, 1, created["postId"])

	resp = s.do(http.MethodGet, "/posts", alice, "")
	require.Equal(t, http.StatusOK, resp.Code)
	posts := decode[[]map[string]any](t, resp)
	require.Len(t, posts, 1)
	assert.EqualValues(t, 1, posts[0]["id"])
	assert.Equal(t, "hello", posts[0]["content"])
	assert.Equal(t, "alice", posts[0]["username"])
	assert.NotEmpty(t, posts[0]["created_at"])
	assert.NotContains(t, posts[0], "password_hash")

	mallory := s.signup("mallory", "pw2")
	resp = s.do(http.MethodPut, "/posts/1", mallory, `{"content":"x"}`)
	assert.Equal(t, http.StatusNotFound, resp.Code)
	resp = s.do(http.MethodDelete, "/posts/1", mallory, "")
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = s.do(http.MethodGet, "/posts", alice, "")
	posts = decode[[]map[string]any](t, resp)
	require.Len(t, posts, 1)
	assert.Equal(t, "hello", posts[0]["content"])

	resp = s.do(http.MethodPut, "/posts/1", alice, `{"content":"edited"}`)
	assert.Equal(t, http.StatusOK, resp.Code)
	resp = s.do(http.MethodDelete, "/posts/1", alice, "")
	assert.Equal(t, http.StatusOK, resp.Code)
	resp = s.do(http.MethodDelete, "/posts/1", alice, "")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestRegisterAndLoginErrors(t *testing.T) {
	s := newTestServer(t)
	s.signup("alice", "pw1")

	cases := []struct {
		name   string
		path   string
		body   string
		status int
	}{
		{"register missing password", "/register", `{"username":"bob"}`, http.StatusBadRequest},
		{"register non-string", "/register", `{"username":"bob","password":123}`, http.StatusBadRequest},
		{"register duplicate", "/register", `{"username":"alice","password":"pw"}`, http.StatusInternalServerError},
		{"login wrong password", "/login", `{"username":"alice","password":"nope"}`, http.StatusUnauthorized},
		{"login unknown user", "/login", `{"username":"zed","password":"pw1"}`, http.StatusNotFound},
		{"login empty body", "/login", ``, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := s.do(http.MethodPost, tc.path, "", tc.body)
			assert.Equal(t, tc.status, resp.Code, resp.Body.String())
		})
	}
}

func TestLoginWithForm(t *testing.T) {
	s := newTestServer(t)
	s.signup("alice", "pw1")

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader("username=alice&password=pw1"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp := httptest.NewRecorder()
	s.router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.NotEmpty(t, decode[map[string]string](t, resp)["token"])
}

func TestInvalidIDsRejected(t *testing.T) {
	s := newTestServer(t)
	token := s.signup("alice", "pw1")

	for _, id := range []string{"0", "-3", "abc", "1.5", "Infinity"} {
		requests := []struct{ method, path, body string }{
			{http.MethodPut, "/posts/" + id, `{"content":"x"}`},
			{http.MethodDelete, "/posts/" + id, ""},
			{http.MethodPost, "/posts/" + id + "/comments", `{"content":"x"}`},
			{http.MethodGet, "/posts/" + id + "/comments", ""},
			{http.MethodPut, "/posts/1/comments/" + id, `{"content":"x"}`},
			{http.MethodDelete, "/posts/1/comments/" + id, ""},
		}
		for _, rq := range requests {
			resp := s.do(rq.method, rq.path, token, rq.body)
			assert.Equal(t, http.StatusBadRequest, resp.Code, "%s %s", rq.method, rq.path)
		}
	}
}

func TestInvalidContentRejected(t *testing.T) {
	s := newTestServer(t)
	token := s.signup("alice", "pw1")

	bodies := []string{
		``, `{}`, `{"content":""}`, `{"content":42}`, `{"content":null}`,
		`{"content":"hi"`, `{"content":"hi"} trailing`, `{"content":"hi", oops}`, `{"content":"a","content":5}`,
	}
	for _, body := range bodies {
		resp := s.do(http.MethodPost, "/posts", token, body)
		assert.Equal(t, http.StatusBadRequest, resp.Code, body)
		resp = s.do(http.MethodPost, "/posts/1/comments", token, body)
		assert.Equal(t, http.StatusBadRequest, resp.Code, body)
	}

	resp := s.do(http.MethodGet, "/posts", token, "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `[]`, resp.Body.String())
	resp = s.do(http.MethodGet, "/posts/1/comments", token, "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `[]`, resp.Body.String())
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)
	s.signup("alice", "pw1")

	expired, err := service.NewService(repository.NewMemoryRepository(), logrus.New(), &config.Config{
		JWTSecret: "test-secret",
		TokenTTL:  -time.Minute,
	}).IssueToken(models.Identity{ID: 1, Username: "alice"})
	require.NoError(t, err)

	routes := []struct{ method, path string }{
		{http.MethodGet, "/posts"},
		{http.MethodPost, "/posts"},
		{http.MethodPut, "/posts/1"},
		{http.MethodDelete, "/posts/1"},
		{http.MethodGet, "/posts/1/comments"},
		{http.MethodPost, "/posts/1/comments"},
		{http.MethodPut, "/posts/1/comments/1"},
		{http.MethodDelete, "/posts/1/comments/1"},
		{http.MethodGet, "/feed"},
	}
	for _, rt := range routes {
		resp := s.do(rt.method, rt.path, "", `{"content":"x"}`)
		assert.Equal(t, http.StatusUnauthorized, resp.Code, "%s %s", rt.method, rt.path)

		for _, token := range []string{expired, "malformed.token.value"} {
			resp = s.do(rt.method, rt.path, token, `{"content":"x"}`)
			assert.Equal(t, http.StatusForbidden, resp.Code, "%s %s", rt.method, rt.path)
		}
	}
}

func TestPostOrderingNewestFirst(t *testing.T) {
	s := newTestServer(t)
	alice := s.signup("alice", "pw1")
	bob := s.signup("bob", "pw2")

	for i, token := range []string{alice, bob, alice} {
		resp := s.do(http.MethodPost, "/posts", token, `{"content":"post `+string(rune('a'+i))+`"}`)
		require.Equal(t, http.StatusCreated, resp.Code)
	}

	resp := s.do(http.MethodGet, "/posts", bob, "")
	posts := decode[[]models.Post](t, resp)
	require.Len(t, posts, 3)
	assert.Equal(t, "post c", posts[0].Content)
	assert.Equal(t, "bob", posts[1].Username)
	for i := 1; i < len(posts); i++ {
		assert.True(t, posts[i-1].CreatedAt.After(posts[i].CreatedAt))
	}
}

func TestCommentLifecycle(t *testing.T) {
	s := newTestServer(t)
	alice := s.signup("alice", "pw1")
	bob := s.signup("bob", "pw2")

	resp := s.do(http.MethodPost, "/posts", alice, `{"content":"hello"}`)
	require.Equal(t, http.StatusCreated, resp.Code)

	resp = s.do(http.MethodPost, "/posts/1/comments", bob, `{"content":"first"}`)
	require.Equal(t, http.StatusCreated, resp.Code)
	assert.EqualValues(t, 1, decode[map[string]any](t, resp)["commentId"])
	resp = s.do(http.MethodPost, "/posts/1/comments", alice, `{"content":"second"}`)
	require.Equal(t, http.StatusCreated, resp.Code)

	resp = s.do(http.MethodGet, "/posts/1/comments", alice, "")
	require.Equal(t, http.StatusOK, resp.Code)
	comments := decode[[]models.Comment](t, resp)
	require.Len(t, comments, 2)
	assert.Equal(t, "first", comments[0].Content)
	assert.Equal(t, "bob", comments[0].Username)
	assert.True(t, comments[0].CreatedAt.Before(comments[1].CreatedAt))

	resp = s.do(http.MethodPut, "/posts/1/comments/1", alice, `{"content":"x"}`)
	assert.Equal(t, http.StatusNotFound, resp.Code)
	resp = s.do(http.MethodDelete, "/posts/1/comments/1", alice, "")
	assert.Equal(t, http.StatusNotFound, resp.Code)

	// the post id in the path is not checked against the comment
	resp = s.do(http.MethodPut, "/posts/99/comments/1", bob, `{"content":"edited"}`)
	assert.Equal(t, http.StatusOK, resp.Code)
	resp = s.do(http.MethodDelete, "/posts/1/comments/1", bob, "")
	assert.Equal(t, http.StatusOK, resp.Code)

	resp = s.do(http.MethodGet, "/posts/2/comments", alice, "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `[]`, resp.Body.String())
}

func TestOrphanCommentPolicy(t *testing.T) {
	s := newTestServer(t)
	token := s.signup("alice", "pw1")
	resp := s.do(http.MethodPost, "/posts/7/comments", token, `{"content":"orphan"}`)
	assert.Equal(t, http.StatusCreated, resp.Code)

	strict := newTestServer(t, func(c *config.Config) { c.RequireParentPost = true })
	token = strict.signup("alice", "pw1")
	resp = strict.do(http.MethodPost, "/posts/7/comments", token, `{"content":"orphan"}`)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestFeedAndHealth(t *testing.T) {
	s := newTestServer(t)
	token := s.signup("alice", "pw1")
	resp := s.do(http.MethodPost, "/posts", token, `{"content":"hello feed"}`)
	require.Equal(t, http.StatusCreated, resp.Code)

	resp = s.do(http.MethodGet, "/feed", token, "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Header().Get("Content-Type"), "application/rss+xml")
	assert.Contains(t, resp.Body.String(), "<description>hello feed</description>")

	resp = s.do(http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"status":"ok"}`, resp.Body.String())
}

// unreachableStore fails every call and counts how often it was reached
type unreachableStore struct {
	calls atomic.Int32
}

var errUnreachable = errors.New("store must not be reached")

func (u *unreachableStore) hit() error {
	u.calls.Add(1)
	return errUnreachable
}

func (u *unreachableStore) Ping(ctx context.Context) error { return u.hit() }

func (u *unreachableStore) CreateUser(ctx context.Context, user *models.User) error { return u.hit() }

func (u *unreachableStore) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return nil, u.hit()
}

func (u *unreachableStore) ListPosts(ctx context.Context) ([]models.Post, error) { return nil, u.hit() }

func (u *unreachableStore) CreatePost(ctx context.Context, post *models.Post) error { return u.hit() }

func (u *unreachableStore) UpdatePost(ctx context.Context, id, userID int64, content string) (int64, error) {
	return 0, u.hit()
}

func (u *unreachableStore) DeletePost(ctx context.Context, id, userID int64) (int64, error) {
	return 0, u.hit()
}

func (u *unreachableStore) PostExists(ctx context.Context, id int64) (bool, error) { return false, u.hit() }

func (u *unreachableStore) ListComments(ctx context.Context, postID int64) ([]models.Comment, error) {
	return nil, u.hit()
}

func (u *unreachableStore) CreateComment(ctx context.Context, comment *models.Comment) error {
	return u.hit()
}

func (u *unreachableStore) UpdateComment(ctx context.Context, id, userID int64, content string) (int64, error) {
	return 0, u.hit()
}

func (u *unreachableStore) DeleteComment(ctx context.Context, id, userID int64) (int64, error) {
	return 0, u.hit()
}

func (u *unreachableStore) DeleteOrphanComments(ctx context.Context) (int64, error) { return 0, u.hit() }

func TestInvalidIDsNeverReachStore(t *testing.T) {
	store := &unreachableStore{}
	log := logrus.New()
	log.SetOutput(io.Discard)
	cfg := &config.Config{JWTSecret: "test-secret", TokenTTL: time.Hour, BcryptCost: bcrypt.MinCost, RequireParentPost: true}

	svc := service.NewService(store, log, cfg)
	s := &testServer{t: t, router: NewRouter(NewHandler(svc, log, feed.Channel{}), svc), svc: svc}
	token, err := svc.IssueToken(models.Identity{ID: 1, Username: "alice"})
	require.NoError(t, err)

	for _, id := range []string{"0", "-3", "abc", "1.5", "Infinity"} {
		requests := []struct{ method, path, body string }{
			{http.MethodPut, "/posts/" + id, `{"content":"x"}`},
			{http.MethodDelete, "/posts/" + id, ""},
			{http.MethodPost, "/posts/" + id + "/comments", `{"content":"x"}`},
			{http.MethodGet, "/posts/" + id + "/comments", ""},
			{http.MethodPut, "/posts/1/comments/" + id, `{"content":"x"}`},
			{http.MethodDelete, "/posts/1/comments/" + id, ""},
		}
		for _, rq := range requests {
			resp := s.do(rq.method, rq.path, token, rq.body)
			assert.Equal(t, http.StatusBadRequest, resp.Code, "%s %s", rq.method, rq.path)
		}
	}
	assert.Zero(t, store.calls.Load())

	// a valid id does reach the store, which fails with 500
	resp := s.do(http.MethodDelete, "/posts/1", token, "")
	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.EqualValues(t, 1, store.calls.Load())
}
