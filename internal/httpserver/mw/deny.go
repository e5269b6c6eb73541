package mw

import (
	"encoding/json"
	"net/http"
)

// deny writes the API error body for a request rejected by a middleware.
func deny(w http.ResponseWriter, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(struct {
		Error  string `json:"error"`
		Status int    `json:"status"`
	}{http.StatusText(status), status})
}
