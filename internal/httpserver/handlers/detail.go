package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/MrSnakeDoc/links/internal/httpserver/deps"
	"github.com/MrSnakeDoc/links/internal/linkmeta"
	"github.com/MrSnakeDoc/links/internal/logger"
)

// LinkDetail serves GET /api/link-detail?url=...&refresh=true.
// The fetch itself runs on the detail pool; this handler only waits for it.
func LinkDetail(d deps.Deps) http.HandlerFunc {
	cache := d.DetailCache
	if d.DetailCacheTTL <= 0 {
		cache = nil
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		raw := strings.TrimSpace(r.URL.Query().Get("url"))
		if raw == "" {
			writeError(w, http.StatusBadRequest, "url is required")
			return
		}
		if _, err := linkmeta.ParseTarget(raw); err != nil {
			fail(w, r, d.Logger, err)
			return
		}
		refresh, _ := strconv.ParseBool(r.URL.Query().Get("refresh"))

		if cache != nil && !refresh {
			var cached linkmeta.Detail
			hit, err := cache.GetCachedDetail(ctx, raw, &cached)
			if err != nil {
				d.Logger.Warn("failed to read link detail cache",
					logger.String("url", raw),
					logger.Error(err))
			}
			if hit {
				w.Header().Set("X-Cache", "HIT")
				writeJSON(w, http.StatusOK, cached)
				return
			}
		}

		detail, err := d.Details.Fetch(ctx, raw)
		if err != nil {
			if cache != nil && refresh {
				// A refresh that fails must not leave the stale entry behind.
				if ierr := cache.InvalidateDetail(ctx, raw); ierr != nil {
					d.Logger.Debug("failed to invalidate link detail", logger.Error(ierr))
				}
			}
			fail(w, r, d.Logger, err)
			return
		}

		if cache != nil {
			if err := cache.CacheDetail(ctx, raw, detail, d.DetailCacheTTL); err != nil {
				d.Logger.Warn("failed to cache link detail",
					logger.String("url", raw),
					logger.Error(err))
			}
			w.Header().Set("X-Cache", "MISS")
		}
		writeJSON(w, http.StatusOK, detail)
	}
}
