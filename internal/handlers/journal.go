package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Stattrackrr/stattrackr/internal/db"
	"github.com/Stattrackrr/stattrackr/internal/selection"
	"github.com/Stattrackrr/stattrackr/pkg/models"
	"github.com/Stattrackrr/stattrackr/pkg/oddsmath"
)

// JournalHandler handles bet journal requests
type JournalHandler struct {
	journal db.JournalDB
}

// NewJournalHandler creates a new journal handler
func NewJournalHandler(journal db.JournalDB) *JournalHandler {
	return &JournalHandler{
		journal: journal,
	}
}

type createJournalRequest struct {
	Selections []models.Selection `json:"selections"`
	Stake      float64            `json:"stake"`
	Currency   string             `json:"currency,omitempty"`
}

type settleJournalRequest struct {
	Status string `json:"status"`
}

// CreateEntry journals a finalized single selection or parlay, flattened to
// one (description, decimal odds, stake, currency) record. The stake is
// deducted from the bankroll in the same transaction.
func (h *JournalHandler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var req createJournalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if len(req.Selections) == 0 {
		respondFieldError(w, "selections", "at least one selection is required")
		return
	}
	if req.Stake <= 0 {
		respondFieldError(w, "stake", "stake must be positive")
		return
	}

	odds, err := h.flattenOdds(req.Selections)
	if err != nil {
		var fieldErr *selection.FieldError
		if errors.As(err, &fieldErr) {
			respondFieldError(w, fieldErr.Field, fieldErr.Message)
			return
		}
		respondError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	currency := strings.TrimSpace(req.Currency)
	if currency == "" {
		currency = h.defaultCurrency(ctx)
	}

	entry := &models.JournalEntry{
		Description: selection.Describe(req.Selections),
		Odds:        odds,
		Stake:       req.Stake,
		Currency:    currency,
	}

	created, err := h.journal.CreateEntry(ctx, entry, defaultUserID)
	if err != nil {
		if strings.Contains(err.Error(), "insufficient bankroll") {
			respondError(w, http.StatusBadRequest, err.Error(), nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to create journal entry", err)
		return
	}

	respondJSON(w, http.StatusCreated, created)
}

// flattenOdds reduces selections to the single stored decimal price. One
// selection may be an unpriced tracking record; two or more form a parlay
// and every leg must be priced.
func (h *JournalHandler) flattenOdds(selections []models.Selection) (float64, error) {
	if len(selections) == 1 {
		sel := selections[0]
		if sel.Odds != models.UnpricedOdds && !sel.Priced() {
			return 0, &selection.FieldError{Field: "selections", Message: "odds must be decimal odds above 1.0"}
		}
		return sel.Odds, nil
	}

	comp := models.ParlayComposition{Selections: selections}
	if err := selection.ValidateForSubmission(comp); err != nil {
		return 0, err
	}
	return selection.Combine(selections, oddsmath.FormatDecimal)
}

func (h *JournalHandler) defaultCurrency(ctx context.Context) string {
	settings, err := h.journal.GetSettings(ctx, defaultUserID)
	if err != nil || settings == nil || settings.DefaultCurrency == "" {
		return "USD"
	}
	return settings.DefaultCurrency
}

// GetEntries retrieves journal entries with optional filtering.
// Query params: status, limit, offset
func (h *JournalHandler) GetEntries(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := r.URL.Query().Get("status")
	if status != "" && status != models.StatusPending && status != models.StatusWon &&
		status != models.StatusLost && status != models.StatusVoid {
		respondFieldError(w, "status", "status must be pending, won, lost or void")
		return
	}

	limit := parseIntParam(r, "limit", 50)
	if limit > 500 {
		limit = 500
	}
	offset := parseIntParam(r, "offset", 0)

	filters := models.JournalFilters{
		Status: status,
		Limit:  limit,
		Offset: offset,
	}

	entries, err := h.journal.GetEntries(ctx, filters)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to retrieve journal entries", err)
		return
	}
	if entries == nil {
		entries = []*models.JournalEntry{}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"entries": entries,
		"count":   len(entries),
		"limit":   limit,
		"offset":  offset,
	})
}

// GetSummary returns aggregate P&L statistics
func (h *JournalHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	summary, err := h.journal.GetSummary(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to compute summary", err)
		return
	}

	respondJSON(w, http.StatusOK, summary)
}

// SettleEntry marks a pending entry won, lost or void and credits the payout
func (h *JournalHandler) SettleEntry(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	id := chi.URLParam(r, "id")

	var req settleJournalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if req.Status != models.StatusWon && req.Status != models.StatusLost && req.Status != models.StatusVoid {
		respondFieldError(w, "status", "status must be won, lost or void")
		return
	}

	entry, err := h.journal.SettleEntry(ctx, id, req.Status, defaultUserID)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			respondError(w, http.StatusNotFound, "journal entry not found", nil)
			return
		}
		if strings.Contains(err.Error(), "already settled") {
			respondError(w, http.StatusConflict, err.Error(), nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to settle journal entry", err)
		return
	}

	respondJSON(w, http.StatusOK, entry)
}

// DeleteEntry removes a pending entry and refunds its stake
func (h *JournalHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	id := chi.URLParam(r, "id")

	if err := h.journal.DeleteEntry(ctx, id, defaultUserID); err != nil {
		if strings.Contains(err.Error(), "not found") {
			respondError(w, http.StatusNotFound, "journal entry not found", nil)
			return
		}
		if strings.Contains(err.Error(), "settled entry") {
			respondError(w, http.StatusConflict, err.Error(), nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to delete journal entry", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"deleted": true,
		"id":      id,
	})
}
