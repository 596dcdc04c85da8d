package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Stattrackrr/stattrackr/internal/db"
	"github.com/Stattrackrr/stattrackr/internal/selection"
	"github.com/Stattrackrr/stattrackr/pkg/models"
	"github.com/Stattrackrr/stattrackr/pkg/oddsmath"
)

// ParlayHandler handles selection building and parlay previews
type ParlayHandler struct {
	journal db.JournalDB
}

// NewParlayHandler creates a new parlay handler
func NewParlayHandler(journal db.JournalDB) *ParlayHandler {
	return &ParlayHandler{
		journal: journal,
	}
}

type manualEntry struct {
	Line string `json:"line"`
	Odds string `json:"odds"`
}

type buildSelectionRequest struct {
	Direction string        `json:"direction"`
	Quote     *models.Quote `json:"quote,omitempty"`
	Manual    *manualEntry  `json:"manual,omitempty"`
	Format    string        `json:"format,omitempty"`
}

type parlayPreviewRequest struct {
	Selections []models.Selection `json:"selections"`
	Format     string             `json:"format,omitempty"`
}

// BuildSelection builds one bet leg, either from a bookmaker quote or from
// a manually entered line and odds
func (h *ParlayHandler) BuildSelection(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var req buildSelectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if req.Quote == nil && req.Manual == nil {
		respondError(w, http.StatusBadRequest, "either quote or manual entry is required", nil)
		return
	}
	if req.Quote != nil && req.Manual != nil {
		respondError(w, http.StatusBadRequest, "quote and manual entry are mutually exclusive", nil)
		return
	}

	var sel models.Selection
	var err error
	if req.Quote != nil {
		sel, err = selection.BuildFromQuote(*req.Quote, req.Direction)
	} else {
		format, ferr := h.resolveFormat(ctx, req.Format)
		if ferr != nil {
			respondFieldError(w, "format", ferr.Error())
			return
		}
		sel, err = selection.BuildManual(req.Manual.Line, req.Manual.Odds, req.Direction, format)
	}

	if err != nil {
		var fieldErr *selection.FieldError
		if errors.As(err, &fieldErr) {
			respondFieldError(w, fieldErr.Field, fieldErr.Message)
			return
		}
		respondError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	respondJSON(w, http.StatusOK, sel)
}

// PreviewParlay combines submitted selections into a single price without
// persisting anything
func (h *ParlayHandler) PreviewParlay(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var req parlayPreviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	comp := models.ParlayComposition{Selections: req.Selections}
	if err := selection.ValidateForSubmission(comp); err != nil {
		var fieldErr *selection.FieldError
		if errors.As(err, &fieldErr) {
			respondFieldError(w, fieldErr.Field, fieldErr.Message)
			return
		}
		respondError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	format, err := h.resolveFormat(ctx, req.Format)
	if err != nil {
		respondFieldError(w, "format", err.Error())
		return
	}

	decimal := oddsmath.CombineDecimals(comp.DecimalOdds()...)

	value, err := selection.Combine(req.Selections, format)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	display, err := oddsmath.FormatPrice(decimal, format)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	implied, err := oddsmath.DecimalToImpliedProbability(decimal)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"legs":                len(req.Selections),
		"format":              string(format),
		"decimal_odds":        decimal,
		"combined":            value,
		"display":             display,
		"implied_probability": implied,
	})
}

// resolveFormat parses an explicit format, falling back to the stored user
// preference and finally to American
func (h *ParlayHandler) resolveFormat(ctx context.Context, raw string) (oddsmath.Format, error) {
	if raw != "" {
		return oddsmath.ParseFormat(raw)
	}

	settings, err := h.journal.GetSettings(ctx, defaultUserID)
	if err != nil || settings == nil {
		return oddsmath.FormatAmerican, nil
	}

	format, err := oddsmath.ParseFormat(settings.OddsFormat)
	if err != nil {
		return oddsmath.FormatAmerican, nil
	}
	return format, nil
}
