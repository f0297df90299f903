package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	graphql "github.com/graph-gophers/graphql-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"habittracker/internal/api"
	"habittracker/internal/auth"
	"habittracker/internal/model"
	"habittracker/internal/repository"
	"habittracker/pkg/trace"
)

type whoamiResolver struct{}

func (*whoamiResolver) Whoami(ctx context.Context) *string {
	username := auth.UsernameFromContext(ctx)
	if username == "" {
		return nil
	}
	return &username
}

type stubUsers map[string]*model.User

func (s stubUsers) FindByUsername(_ context.Context, username string) (*model.User, error) {
	u, ok := s[username]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

type routerFixture struct {
	codec  *auth.TokenCodec
	router *Router
}

func newRouterFixture(t *testing.T, ping func(context.Context) error) *routerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := zap.NewNop()
	codec := auth.NewTokenCodec("access-secret", "refresh-secret", 15*time.Minute, time.Hour)
	users := stubUsers{"alice": {ID: 1, Username: "alice"}}
	cookies := auth.Cookies{Path: "/", AccessTTL: codec.AccessTTL(), RefreshTTL: codec.RefreshTTL()}

	schema := graphql.MustParseSchema(`type Query { whoami: String }`, &whoamiResolver{})
	router := NewRouter(
		api.NewGraphQLHandler(schema, logger),
		api.NewHealthHandler(ping),
		auth.NewSession(codec, users, cookies, logger),
		logger,
	)
	return &routerFixture{codec: codec, router: router}
}

func (f *routerFixture) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.router.Engine.ServeHTTP(rec, req)
	return rec
}

func graphQLRequest(query string) *http.Request {
	body, _ := json.Marshal(map[string]string{"query": query})
	req := httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(string(body)))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestHealthEndpoints(t *testing.T) {
	f := newRouterFixture(t, func(context.Context) error { return nil })

	rec := f.do(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ready")

	rec = f.do(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyzReportsDatabase(t *testing.T) {
	f := newRouterFixture(t, func(context.Context) error { return errors.New("connection refused") })

	rec := f.do(httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "db_not_ready")
}

func TestTraceIDHeader(t *testing.T) {
	f := newRouterFixture(t, func(context.Context) error { return nil })

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(trace.HeaderName, "trace-123")
	rec := f.do(req)
	assert.Equal(t, "trace-123", rec.Header().Get(trace.HeaderName))

	rec = f.do(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.NotEmpty(t, rec.Header().Get(trace.HeaderName))
}

func TestGraphQLSession(t *testing.T) {
	f := newRouterFixture(t, func(context.Context) error { return nil })

	t.Run("anonymous", func(t *testing.T) {
		rec := f.do(graphQLRequest(`{ whoami }`))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"data": {"whoami": null}}`, rec.Body.String())
	})

	t.Run("access cookie", func(t *testing.T) {
		pair, err := f.codec.IssueTokens(&model.User{Username: "alice"})
		require.NoError(t, err)

		req := graphQLRequest(`{ whoami }`)
		req.AddCookie(&http.Cookie{Name: auth.AccessCookieName, Value: pair.AccessToken})
		rec := f.do(req)
		assert.JSONEq(t, `{"data": {"whoami": "alice"}}`, rec.Body.String())
		assert.Empty(t, rec.Result().Cookies())
	})

	t.Run("refresh cookie rotates tokens", func(t *testing.T) {
		pair, err := f.codec.IssueTokens(&model.User{Username: "alice"})
		require.NoError(t, err)

		req := graphQLRequest(`{ whoami }`)
		req.AddCookie(&http.Cookie{Name: auth.RefreshCookieName, Value: pair.RefreshToken})
		rec := f.do(req)
		assert.JSONEq(t, `{"data": {"whoami": "alice"}}`, rec.Body.String())
		assert.Len(t, rec.Result().Cookies(), 2)
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader("{"))
		rec := f.do(req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestServerShutsDownOnCancel(t *testing.T) {
	f := newRouterFixture(t, func(context.Context) error { return nil })
	srv := NewServer("127.0.0.1:0", f.router, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
