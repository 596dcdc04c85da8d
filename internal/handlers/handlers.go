package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Stattrackrr/stattrackr/internal/db"
	"github.com/Stattrackrr/stattrackr/internal/hub"
	"github.com/Stattrackrr/stattrackr/pkg/models"
)

// defaultUserID is the single-user placeholder until auth middleware lands
const defaultUserID = "default"

// Handler contains dependencies for service-level HTTP handlers
type Handler struct {
	journal db.JournalDB
	hub     *hub.Hub
}

// NewHandler creates a new handler with dependencies
func NewHandler(journal db.JournalDB, h *hub.Hub) *Handler {
	return &Handler{
		journal: journal,
		hub:     h,
	}
}

// HandleHealth returns the health status of the API
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	// Check database connectivity
	if err := h.journal.Ping(ctx); err != nil {
		respondError(w, http.StatusServiceUnavailable, "database unhealthy", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":         "healthy",
		"service":        "stattrackr-api",
		"active_clients": h.hub.GetClientCount(),
		"timestamp":      time.Now().UTC(),
	})
}

// HandleMetrics returns hub metrics
func (h *Handler) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.hub.GetMetrics())
}

func parseIntParam(r *http.Request, param string, defaultValue int) int {
	valueStr := r.URL.Query().Get(param)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		fmt.Printf("error encoding response: %v\n", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string, err error) {
	if err != nil {
		fmt.Printf("error: %s - %v\n", message, err)
	}

	respondJSON(w, status, models.ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
	})
}

// respondFieldError returns a 400 naming the input field that failed validation
func respondFieldError(w http.ResponseWriter, field, message string) {
	respondJSON(w, http.StatusBadRequest, models.ErrorResponse{
		Error:   http.StatusText(http.StatusBadRequest),
		Message: message,
		Field:   field,
	})
}
