package handlers

import (
	"net/http"
	"strconv"

	"github.com/MrSnakeDoc/links/internal/httpserver/deps"
	"github.com/MrSnakeDoc/links/internal/logger"
)

type reloadResponse struct {
	Triggered      bool `json:"triggered"`
	DetailsFlushed bool `json:"details_flushed,omitempty"`
}

// Reload triggers a manual reload of the link file.
// ?flushDetails=true also drops every cached link detail.
func Reload(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flushed := false
		if flush, _ := strconv.ParseBool(r.URL.Query().Get("flushDetails")); flush && d.DetailCache != nil {
			if err := d.DetailCache.FlushDetails(r.Context()); err != nil {
				d.Logger.Warn("failed to flush link details", logger.Error(err))
			} else {
				flushed = true
			}
		}

		select {
		case d.ReloadTrigger <- struct{}{}:
			d.Logger.Info("manual reload triggered via endpoint",
				logger.String("remote_ip", r.RemoteAddr),
				logger.Bool("details_flushed", flushed))
			writeJSON(w, http.StatusAccepted, reloadResponse{Triggered: true, DetailsFlushed: flushed})
		default:
			d.Logger.Warn("reload already in progress",
				logger.String("remote_ip", r.RemoteAddr))
			writeJSON(w, http.StatusTooManyRequests, reloadResponse{Triggered: false, DetailsFlushed: flushed})
		}
	}
}
