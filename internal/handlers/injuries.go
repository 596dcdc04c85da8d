package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Stattrackrr/stattrackr/internal/datefmt"
	"github.com/Stattrackrr/stattrackr/pkg/models"
)

// InjuryProvider supplies raw injury report rows for one team
type InjuryProvider interface {
	FetchTeam(ctx context.Context, team string) ([]models.InjuryRecord, error)
}

// InjuryHandler serves team injury reports with display-ready return dates
type InjuryHandler struct {
	injuries InjuryProvider
	dates    *datefmt.Formatter
}

// NewInjuryHandler creates a new injury handler
func NewInjuryHandler(injuries InjuryProvider, dates *datefmt.Formatter) *InjuryHandler {
	return &InjuryHandler{
		injuries: injuries,
		dates:    dates,
	}
}

// GetInjuries returns the injury report for one team. Provider failures
// degrade to an empty report rather than a 5xx.
// Query params: team
func (h *InjuryHandler) GetInjuries(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	team := strings.TrimSpace(r.URL.Query().Get("team"))
	if team == "" {
		respondFieldError(w, "team", "team query parameter is required")
		return
	}

	records, err := h.injuries.FetchTeam(ctx, team)
	if err != nil {
		fmt.Printf("⚠️  injury provider failed for %s: %v\n", team, err)
		records = nil
	}
	if records == nil {
		records = []models.InjuryRecord{}
	}

	for i := range records {
		records[i].ReturnDateFormatted = h.dates.FormatReturnDate(records[i].ReturnDate)
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"team":     team,
		"injuries": records,
		"count":    len(records),
	})
}
