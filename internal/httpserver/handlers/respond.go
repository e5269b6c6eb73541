package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/MrSnakeDoc/links/internal/linkmeta"
	"github.com/MrSnakeDoc/links/internal/logger"
	"github.com/MrSnakeDoc/links/internal/query"
	"github.com/MrSnakeDoc/links/internal/store"
)

type errorResponse struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg, Status: status})
}

// fail maps err to a status code and writes it. Server-side failures are logged.
func fail(w http.ResponseWriter, r *http.Request, log logger.Logger, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Warn("request failed",
			logger.String("path", r.URL.Path),
			logger.Int("status", status),
			logger.Error(err))
	}
	writeError(w, status, err.Error())
}

func statusFor(err error) int {
	var fe *linkmeta.FetchError
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, query.ErrInvalidRequest), errors.Is(err, linkmeta.ErrInvalidURL):
		return http.StatusBadRequest
	case errors.Is(err, linkmeta.ErrBusy), errors.Is(err, linkmeta.ErrStopped):
		return http.StatusServiceUnavailable
	case errors.As(err, &fe):
		if fe.Timeout() {
			return http.StatusGatewayTimeout
		}
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
