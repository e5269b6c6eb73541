package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/links/internal/httpserver/deps"
)

type readyzResponse struct {
	Ready  bool   `json:"ready"`
	Reason string `json:"reason,omitempty"`
}

// Readyz reports ready once the link file has been loaded at least once.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.MemoryIndex == nil || d.MemoryIndex.GetLastReload().IsZero() {
			writeJSON(w, http.StatusServiceUnavailable, readyzResponse{
				Ready:  false,
				Reason: "link file not loaded yet",
			})
			return
		}
		writeJSON(w, http.StatusOK, readyzResponse{Ready: true})
	}
}
