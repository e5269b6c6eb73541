package httpserver

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
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
	"github.com/MrSnakeDoc/links/internal/scheduler"
)

// TestLinkFileToAPI drives the full read path: link file, reloader,
// index, finder, router, and a real metadata pool against a local site.
func TestLinkFileToAPI(t *testing.T) {
	site := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = fmt.Fprint(w, `<html><head><title>Team Wiki</title>
<meta name="description" content="Everything we know">
<link rel="icon" href="/favicon.ico"></head></html>`)
	}))
	defer site.Close()

	path := filepath.Join(t.TempDir(), "links.yaml")
	content := fmt.Sprintf(`
groups:
  - name: docs
    displayName: Docs
    priority: 1
  - name: tools
    displayName: Tools
    priority: 2
links:
  - name: wiki
    url: %s/wiki
    displayName: Wiki
    groupName: docs
    priority: 1
  - name: handbook
    url: https://handbook.example.org
    displayName: Handbook
    groupName: docs
  - name: ci
    url: https://ci.example.org
    displayName: CI
    groupName: tools
  - name: status
    url: https://status.example.org
    displayName: Status
`, site.URL)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	log := logger.New("error", false)
	idx := index.NewMemoryIndex()
	reloader := scheduler.NewLinkReloader(path, nil, idx, log, time.Hour, nil)
	require.NoError(t, reloader.Reload(context.Background()))

	pool := linkmeta.NewPool(linkmeta.NewFetcher(linkmeta.WithTimeout(5*time.Second)), 2, 4, log)
	pool.Start()
	defer pool.Stop()

	router := NewRouter(deps.Deps{
		Logger:          log,
		StartTime:       time.Now(),
		TimeNow:         time.Now,
		RateLimitBurst:  10,
		RateLimitPerMin: 10,
		MemoryIndex:     idx,
		Finder:          finder.New(idx, 4),
		Details:         pool,
		DetailCache:     &memCache{entries: map[string][]byte{}},
		DetailCacheTTL:  time.Hour,
	}, 10*time.Second)

	get := func(target string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
		return w
	}

	w := get("/readyz")
	assert.Equal(t, http.StatusOK, w.Code)

	w = get("/api/groups")
	require.Equal(t, http.StatusOK, w.Code)
	groups := decode[[]domain.GroupView](t, w)
	require.Len(t, groups, 3)
	assert.Equal(t, "docs", groups[0].Metadata.Name)
	assert.Equal(t, "tools", groups[1].Metadata.Name)
	assert.Equal(t, domain.UngroupedName, groups[2].Metadata.Name)
	require.Len(t, groups[0].Links, 2)
	assert.Equal(t, "handbook", groups[0].Links[0].Metadata.Name, "unranked before priority 1")
	assert.Equal(t, "wiki", groups[0].Links[1].Metadata.Name)

	w = get("/api/links?keyword=example.org&size=2&page=2")
	require.Equal(t, http.StatusOK, w.Code)
	res := decode[finder.ListResult](t, w)
	assert.Equal(t, 3, res.Total)
	assert.True(t, res.Last)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "status", res.Items[0].Metadata.Name)

	w = get("/api/link-detail?url=" + site.URL + "/wiki")
	require.Equal(t, http.StatusOK, w.Code)
	detail := decode[linkmeta.Detail](t, w)
	assert.Equal(t, "Team Wiki", detail.Title)
	assert.Equal(t, "Everything we know", detail.Description)
	assert.Equal(t, site.URL+"/favicon.ico", detail.Icon)
}
