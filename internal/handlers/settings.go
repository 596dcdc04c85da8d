package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/Stattrackrr/stattrackr/internal/db"
	"github.com/Stattrackrr/stattrackr/pkg/models"
	"github.com/Stattrackrr/stattrackr/pkg/oddsmath"
)

// SettingsHandler handles user settings requests
type SettingsHandler struct {
	journal db.JournalDB
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(journal db.JournalDB) *SettingsHandler {
	return &SettingsHandler{
		journal: journal,
	}
}

// GetSettings returns the user's stored preferences, or the defaults when
// nothing has been saved yet
func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	settings, err := h.journal.GetSettings(ctx, defaultUserID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to retrieve settings", err)
		return
	}

	if settings == nil {
		settings = &models.Settings{
			UserID:          defaultUserID,
			OddsFormat:      string(oddsmath.FormatAmerican),
			DefaultCurrency: "USD",
			Bankroll:        0,
		}
	}

	respondJSON(w, http.StatusOK, settings)
}

// UpdateSettings upserts the user's preferences
func (h *SettingsHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var settings models.Settings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if _, err := oddsmath.ParseFormat(settings.OddsFormat); err != nil {
		respondFieldError(w, "odds_format", "odds_format must be american or decimal")
		return
	}
	if settings.Bankroll < 0 {
		respondFieldError(w, "bankroll", "bankroll cannot be negative")
		return
	}
	if strings.TrimSpace(settings.DefaultCurrency) == "" {
		settings.DefaultCurrency = "USD"
	}

	settings.UserID = defaultUserID
	settings.UpdatedAt = time.Now().UTC()

	if err := h.journal.UpdateSettings(ctx, &settings); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to update settings", err)
		return
	}

	respondJSON(w, http.StatusOK, settings)
}
