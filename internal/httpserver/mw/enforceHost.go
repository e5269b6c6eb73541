package mw

import (
	"net/http"
	"strings"

	"github.com/MrSnakeDoc/links/internal/logger"
)

// EnforceHost allows requests only if r.Host matches one of the allowed hosts.
// Supports wildcard patterns like "*.example.com".
// If allowedHosts is empty, it acts as a passthrough.
func EnforceHost(allowedHosts []string, log logger.Logger) func(http.Handler) http.Handler {
	if len(allowedHosts) == 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, pattern := range allowedHosts {
				if matchHost(r.Host, pattern) {
					next.ServeHTTP(w, r)
					return
				}
			}

			log.Debug("host rejected",
				logger.String("host", r.Host),
				logger.Strings("allowed", allowedHosts))
			deny(w, http.StatusForbidden)
		})
	}
}

// matchHost checks if host matches pattern, ignoring case and any port on host.
// "*.example.com" matches "a.example.com" but not "example.com".
func matchHost(host, pattern string) bool {
	host = strings.ToLower(host)
	pattern = strings.ToLower(pattern)
	if host == pattern {
		return true
	}
	if h, _, ok := strings.Cut(host, ":"); ok && !strings.Contains(pattern, ":") && !strings.HasPrefix(host, "[") {
		host = h
		if host == pattern {
			return true
		}
	}
	if suffix, ok := strings.CutPrefix(pattern, "*"); ok && strings.HasPrefix(suffix, ".") {
		return strings.HasSuffix(host, suffix)
	}
	return false
}
