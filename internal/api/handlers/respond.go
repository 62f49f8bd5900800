// Package handlers holds the HTTP handlers of the report API.
package handlers

import (
	"encoding/json"
	"net/http"
)

// StatusResponse is the JSON envelope every processing endpoint returns.
type StatusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	RunID   string `json:"run_id,omitempty"`
	File    string `json:"archivo,omitempty"`
	Records int    `json:"registros,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, StatusResponse{Success: false, Message: message})
}
