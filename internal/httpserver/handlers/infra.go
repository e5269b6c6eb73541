package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/links/internal/httpserver/deps"
)

type componentStatus struct {
	OK           bool   `json:"ok"`
	Path         string `json:"path,omitempty"`
	LinksLoaded  *int   `json:"links_loaded,omitempty"`
	GroupsLoaded *int   `json:"groups_loaded,omitempty"`
	LastReload   string `json:"last_reload,omitempty"`
	Mode         string `json:"mode,omitempty"`
	Impact       string `json:"impact,omitempty"`
	Error        string `json:"error,omitempty"`
}

type infraResponse struct {
	Status     string                     `json:"status"`
	Components map[string]componentStatus `json:"components"`
}

func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		linksCount, groupsCount := d.MemoryIndex.Count()
		lastReload := d.MemoryIndex.GetLastReload()
		lastReloadStr := "never"
		if !lastReload.IsZero() {
			lastReloadStr = lastReload.Format("2006-01-02 15:04:05")
		}

		components := map[string]componentStatus{
			"linkfile": {
				OK:           !lastReload.IsZero(),
				Path:         d.LinkFile,
				LinksLoaded:  &linksCount,
				GroupsLoaded: &groupsCount,
				LastReload:   lastReloadStr,
			},
			"redis":        checkRedis(r.Context(), d),
			"detail_cache": detailCacheStatus(d),
			"detail_fetch": {OK: d.Details != nil},
		}

		writeJSON(w, http.StatusOK, infraResponse{
			Status:     overallStatus(components),
			Components: components,
		})
	}
}

func overallStatus(components map[string]componentStatus) string {
	// Nothing loaded = nothing to serve
	if lf, ok := components["linkfile"]; ok && !lf.OK {
		return "critical"
	}

	// Redis down = degraded (no persistence across restarts, no detail cache)
	if redis, ok := components["redis"]; ok && !redis.OK {
		return "degraded"
	}

	return "ok"
}

func detailCacheStatus(d deps.Deps) componentStatus {
	if d.DetailCache == nil || d.DetailCacheTTL <= 0 {
		return componentStatus{OK: true, Mode: "disabled"}
	}
	return componentStatus{OK: true, Mode: "ttl=" + d.DetailCacheTTL.String()}
}

func checkRedis(ctx context.Context, d deps.Deps) componentStatus {
	if d.RedisClient == nil {
		return componentStatus{
			OK:     false,
			Mode:   "degraded",
			Impact: "memory-only",
			Error:  "client not initialized",
		}
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := d.RedisClient.Ping(ctx).Err(); err != nil {
		return componentStatus{
			OK:     false,
			Mode:   "degraded",
			Impact: "memory-only",
			Error:  err.Error(),
		}
	}

	return componentStatus{
		OK:   true,
		Mode: "optimal",
	}
}
