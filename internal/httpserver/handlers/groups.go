package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/links/internal/httpserver/deps"
	"github.com/MrSnakeDoc/links/internal/query"
)

// ListGroups serves GET /api/groups: every group with its links,
// the ungrouped bucket last.
func ListGroups(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		groups, err := d.Finder.GroupBy(r.Context())
		if err != nil {
			fail(w, r, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, groups)
	}
}

// GetGroup serves GET /api/groups/{name}.
func GetGroup(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		group, err := d.Finder.Group(r.Context(), chi.URLParam(r, "name"))
		if err != nil {
			fail(w, r, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, group)
	}
}

// ListGroupLinks serves GET /api/groups/{name}/links.
func ListGroupLinks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := query.ParseRequest(r.URL.Query())
		if err != nil {
			fail(w, r, d.Logger, err)
			return
		}
		res, err := d.Finder.ListGroupLinks(r.Context(), chi.URLParam(r, "name"), req)
		if err != nil {
			fail(w, r, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}
