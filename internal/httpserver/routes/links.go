package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/links/internal/httpserver/deps"
	"github.com/MrSnakeDoc/links/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/links/internal/httpserver/mw"
)

func init() { Register(registerLinks) }

func registerLinks(r chi.Router, d deps.Deps) {
	r.Route("/api", func(api chi.Router) {
		api.Use(mw.EnforceHost(d.AllowedHosts, d.Logger))

		api.Get("/links", handlers.ListLinks(d))
		api.Get("/links/{name}", handlers.GetLink(d))

		api.Get("/groups", handlers.ListGroups(d))
		api.Get("/groups/{name}", handlers.GetGroup(d))
		api.Get("/groups/{name}/links", handlers.ListGroupLinks(d))

		api.With(mw.RateLimit(mw.RateLimitConfig{
			Burst:             d.RateLimitBurst,
			RefillPerIPPerMin: d.RateLimitPerMin,
			MaxEntries:        10000,
			TrustProxy:        d.TrustProxy,
		})).Get("/link-detail", handlers.LinkDetail(d))
	})
}
