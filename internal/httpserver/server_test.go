package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/links/internal/domain"
	"github.com/MrSnakeDoc/links/internal/finder"
	"github.com/MrSnakeDoc/links/internal/httpserver/deps"
	"github.com/MrSnakeDoc/links/internal/index"
	"github.com/MrSnakeDoc/links/internal/linkmeta"
	"github.com/MrSnakeDoc/links/internal/logger"
)

type stubDetails struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (s *stubDetails) Fetch(_ context.Context, rawURL string) (*linkmeta.Detail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &linkmeta.Detail{Title: "Title of " + rawURL}, nil
}

type memCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	flushed bool
}

func (c *memCache) GetCachedDetail(_ context.Context, url string, out any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.entries[url]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(data, out)
}

func (c *memCache) CacheDetail(_ context.Context, url string, detail any, _ time.Duration) error {
	data, err := json.Marshal(detail)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[url] = data
	return nil
}

func (c *memCache) InvalidateDetail(_ context.Context, url string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, url)
	return nil
}

func (c *memCache) FlushDetails(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = map[string][]byte{}
	c.flushed = true
	return nil
}

type env struct {
	router  http.Handler
	details *stubDetails
	cache   *memCache
	trigger chan struct{}
}

func newEnv(t *testing.T, loaded bool) *env {
	t.Helper()
	idx := index.NewMemoryIndex()
	if loaded {
		one := 1
		epoch := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		idx.Replace(
			[]*domain.LinkGroup{{
				Metadata: domain.Metadata{Name: "docs", CreationTimestamp: epoch},
				Spec:     domain.LinkGroupSpec{DisplayName: "Docs", Priority: &one},
			}},
			[]*domain.Link{
				{
					Metadata: domain.Metadata{Name: "wiki", CreationTimestamp: epoch},
					Spec:     domain.LinkSpec{URL: "https://wiki.example.org", DisplayName: "Wiki", GroupName: "docs"},
				},
				{
					Metadata: domain.Metadata{Name: "blog", CreationTimestamp: epoch},
					Spec:     domain.LinkSpec{URL: "https://blog.example.org", DisplayName: "Blog"},
				},
			},
		)
	}

	e := &env{
		details: &stubDetails{},
		cache:   &memCache{entries: map[string][]byte{}},
		trigger: make(chan struct{}, 1),
	}
	e.router = NewRouter(deps.Deps{
		Logger:          logger.New("error", false),
		StartTime:       time.Now(),
		TimeNow:         time.Now,
		RateLimitBurst:  100,
		RateLimitPerMin: 100,
		MemoryIndex:     idx,
		Finder:          finder.New(idx, 2),
		Details:         e.details,
		DetailCache:     e.cache,
		DetailCacheTTL:  time.Hour,
		ReloadTrigger:   e.trigger,
	}, 5*time.Second)
	return e
}

func (e *env) do(t *testing.T, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

type apiError struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

func TestGroupsEndpoints(t *testing.T) {
	e := newEnv(t, true)

	w := e.do(t, http.MethodGet, "/api/groups")
	require.Equal(t, http.StatusOK, w.Code)
	groups := decode[[]domain.GroupView](t, w)
	require.Len(t, groups, 2)
	assert.Equal(t, "docs", groups[0].Metadata.Name)
	assert.Equal(t, "wiki", groups[0].Links[0].Metadata.Name)
	assert.Equal(t, domain.UngroupedName, groups[1].Metadata.Name)
	assert.Equal(t, "blog", groups[1].Links[0].Metadata.Name)

	w = e.do(t, http.MethodGet, "/api/groups/docs")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Docs", decode[domain.GroupView](t, w).Spec.DisplayName)

	w = e.do(t, http.MethodGet, "/api/groups/nope")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, 404, decode[apiError](t, w).Status)

	w = e.do(t, http.MethodGet, "/api/groups/ungrouped/links")
	require.Equal(t, http.StatusOK, w.Code)
	res := decode[finder.ListResult](t, w)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "blog", res.Items[0].Metadata.Name)
}

func TestLinksEndpoints(t *testing.T) {
	e := newEnv(t, true)

	w := e.do(t, http.MethodGet, "/api/links?keyword=WIKI&size=10&page=1")
	require.Equal(t, http.StatusOK, w.Code)
	res := decode[finder.ListResult](t, w)
	assert.Equal(t, 1, res.Total)
	assert.Equal(t, "wiki", res.Items[0].Metadata.Name)

	w = e.do(t, http.MethodGet, "/api/links?page=9223372036854775807&size=2")
	require.Equal(t, http.StatusOK, w.Code)
	res = decode[finder.ListResult](t, w)
	assert.Empty(t, res.Items)
	assert.True(t, res.Last)

	w = e.do(t, http.MethodGet, "/api/links?page=abc")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, http.StatusBadRequest, decode[apiError](t, w).Status)

	w = e.do(t, http.MethodGet, "/api/links?fieldSelector=spec.url")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.do(t, http.MethodGet, "/api/links/wiki")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://wiki.example.org", decode[domain.LinkView](t, w).Spec.URL)

	w = e.do(t, http.MethodGet, "/api/links/missing")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLinkDetailEndpoint(t *testing.T) {
	e := newEnv(t, true)

	w := e.do(t, http.MethodGet, "/api/link-detail")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.do(t, http.MethodGet, "/api/link-detail?url=ftp://example.org")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, e.details.calls)

	w = e.do(t, http.MethodGet, "/api/link-detail?url=https://example.org")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))
	assert.Equal(t, "Title of https://example.org", decode[linkmeta.Detail](t, w).Title)

	w = e.do(t, http.MethodGet, "/api/link-detail?url=https://example.org")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "HIT", w.Header().Get("X-Cache"))
	assert.Equal(t, 1, e.details.calls)

	w = e.do(t, http.MethodGet, "/api/link-detail?url=https://example.org&refresh=true")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, e.details.calls)
}

func TestLinkDetailErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"busy", linkmeta.ErrBusy, http.StatusServiceUnavailable},
		{"timeout", &linkmeta.FetchError{URL: "https://x.example", Err: linkmeta.ErrTimeout}, http.StatusGatewayTimeout},
		{"bad status", &linkmeta.FetchError{URL: "https://x.example", Err: linkmeta.ErrUnexpectedStatus}, http.StatusBadGateway},
		{"too large", &linkmeta.FetchError{URL: "https://x.example", Err: linkmeta.ErrBodyTooLarge}, http.StatusBadGateway},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t, true)
			e.details.err = tt.err

			w := e.do(t, http.MethodGet, "/api/link-detail?url=https://x.example")
			assert.Equal(t, tt.want, w.Code)
			assert.Equal(t, tt.want, decode[apiError](t, w).Status)
		})
	}
}

func TestProbes(t *testing.T) {
	e := newEnv(t, true)
	assert.Equal(t, http.StatusOK, e.do(t, http.MethodGet, "/healthz").Code)
	assert.Equal(t, http.StatusOK, e.do(t, http.MethodGet, "/readyz").Code)

	w := e.do(t, http.MethodGet, "/infra")
	require.Equal(t, http.StatusOK, w.Code)
	infra := decode[struct {
		Status string `json:"status"`
	}](t, w)
	assert.Equal(t, "degraded", infra.Status, "no redis client")

	empty := newEnv(t, false)
	assert.Equal(t, http.StatusServiceUnavailable, empty.do(t, http.MethodGet, "/readyz").Code)
}

func TestReloadEndpoint(t *testing.T) {
	e := newEnv(t, true)
	e.cache.entries["https://example.org"] = []byte(`{"title":"stale"}`)

	w := e.do(t, http.MethodPost, "/reload?flushDetails=true")
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.True(t, e.cache.flushed)
	assert.Empty(t, e.cache.entries)

	// The trigger is still pending.
	w = e.do(t, http.MethodPost, "/reload")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	<-e.trigger
}
