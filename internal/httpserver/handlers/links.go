package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/links/internal/httpserver/deps"
	"github.com/MrSnakeDoc/links/internal/query"
)

// ListLinks serves GET /api/links.
func ListLinks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := query.ParseRequest(r.URL.Query())
		if err != nil {
			fail(w, r, d.Logger, err)
			return
		}
		res, err := d.Finder.List(r.Context(), req)
		if err != nil {
			fail(w, r, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

// GetLink serves GET /api/links/{name}.
func GetLink(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		link, err := d.Finder.Link(r.Context(), chi.URLParam(r, "name"))
		if err != nil {
			fail(w, r, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, link)
	}
}
