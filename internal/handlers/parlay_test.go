package handlers_test

import (
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Stattrackrr/stattrackr/internal/handlers"
	"github.com/Stattrackrr/stattrackr/pkg/models"
)

type previewResponse struct {
	Legs               int     `json:"legs"`
	Format             string  `json:"format"`
	DecimalOdds        float64 `json:"decimal_odds"`
	Combined           float64 `json:"combined"`
	Display            string  `json:"display"`
	ImpliedProbability float64 `json:"implied_probability"`
}

func TestPreviewParlayAmerican(t *testing.T) {
	h := handlers.NewParlayHandler(&fakeJournal{})

	req := newJSONRequest(t, http.MethodPost, "/api/v1/parlay/preview", map[string]interface{}{
		"selections": []models.Selection{
			pricedLeg("Jayson Tatum", 25.5, 1.91),
			pricedLeg("Jaylen Brown", 22.5, 2.50),
		},
		"format": "american",
	})
	rec := httptest.NewRecorder()
	h.PreviewParlay(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp previewResponse
	decodeBody(t, rec, &resp)

	if resp.Legs != 2 {
		t.Errorf("legs = %d, want 2", resp.Legs)
	}
	if math.Abs(resp.DecimalOdds-4.775) > 0.000001 {
		t.Errorf("decimal_odds = %f, want 4.775", resp.DecimalOdds)
	}
	if resp.Combined != 377 {
		t.Errorf("combined = %f, want 377", resp.Combined)
	}
	if resp.Display != "+377" {
		t.Errorf("display = %q, want +377", resp.Display)
	}
	if math.Abs(resp.ImpliedProbability-1.0/4.775) > 0.0001 {
		t.Errorf("implied_probability = %f, want %f", resp.ImpliedProbability, 1.0/4.775)
	}
}

func TestPreviewParlayUsesStoredFormat(t *testing.T) {
	journal := &fakeJournal{
		settings: &models.Settings{UserID: "default", OddsFormat: "decimal", DefaultCurrency: "USD"},
	}
	h := handlers.NewParlayHandler(journal)

	req := newJSONRequest(t, http.MethodPost, "/api/v1/parlay/preview", map[string]interface{}{
		"selections": []models.Selection{
			pricedLeg("Jayson Tatum", 25.5, 2.0),
			pricedLeg("Jaylen Brown", 22.5, 1.75),
		},
	})
	rec := httptest.NewRecorder()
	h.PreviewParlay(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp previewResponse
	decodeBody(t, rec, &resp)

	if resp.Format != "decimal" {
		t.Errorf("format = %q, want stored decimal preference", resp.Format)
	}
	if resp.Display != "3.50" {
		t.Errorf("display = %q, want 3.50", resp.Display)
	}
}

func TestPreviewParlayTooFewLegs(t *testing.T) {
	h := handlers.NewParlayHandler(&fakeJournal{})

	req := newJSONRequest(t, http.MethodPost, "/api/v1/parlay/preview", map[string]interface{}{
		"selections": []models.Selection{pricedLeg("Jayson Tatum", 25.5, 1.91)},
		"format":     "american",
	})
	rec := httptest.NewRecorder()
	h.PreviewParlay(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if field := decodeErrorField(t, rec); field != "selections" {
		t.Errorf("error field = %q, want selections", field)
	}
}

func TestPreviewParlayRejectsUnpricedLeg(t *testing.T) {
	h := handlers.NewParlayHandler(&fakeJournal{})

	tracking := pricedLeg("Jaylen Brown", 22.5, 0)
	req := newJSONRequest(t, http.MethodPost, "/api/v1/parlay/preview", map[string]interface{}{
		"selections": []models.Selection{pricedLeg("Jayson Tatum", 25.5, 1.91), tracking},
		"format":     "american",
	})
	rec := httptest.NewRecorder()
	h.PreviewParlay(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestBuildSelectionFromQuote(t *testing.T) {
	h := handlers.NewParlayHandler(&fakeJournal{})

	quote := models.NewPlayerPropQuote(models.PropQuote{
		Bookmaker:  "draftkings",
		PlayerName: "Jayson Tatum",
		StatType:   "points",
		Line:       25.5,
		OverPrice:  1.91,
		UnderPrice: 1.87,
	})

	req := newJSONRequest(t, http.MethodPost, "/api/v1/selections", map[string]interface{}{
		"direction": "under",
		"quote":     quote,
	})
	rec := httptest.NewRecorder()
	h.BuildSelection(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var sel models.Selection
	decodeBody(t, rec, &sel)

	if sel.Odds != 1.87 {
		t.Errorf("odds = %f, want the under price 1.87", sel.Odds)
	}
	if sel.Bookmaker != "draftkings" {
		t.Errorf("bookmaker = %q, want draftkings", sel.Bookmaker)
	}
	if sel.IsManual {
		t.Error("quote-built selection should not be manual")
	}
}

func TestBuildSelectionManualBlankOdds(t *testing.T) {
	h := handlers.NewParlayHandler(&fakeJournal{})

	req := newJSONRequest(t, http.MethodPost, "/api/v1/selections", map[string]interface{}{
		"direction": "over",
		"manual":    map[string]string{"line": "25.5", "odds": ""},
	})
	rec := httptest.NewRecorder()
	h.BuildSelection(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var sel models.Selection
	decodeBody(t, rec, &sel)

	if sel.Odds != models.UnpricedOdds {
		t.Errorf("odds = %f, want the unpriced sentinel", sel.Odds)
	}
	if !sel.IsManual {
		t.Error("manual selection should be flagged manual")
	}
	if sel.Line != 25.5 {
		t.Errorf("line = %f, want 25.5", sel.Line)
	}
}

func TestBuildSelectionManualAmericanOdds(t *testing.T) {
	h := handlers.NewParlayHandler(&fakeJournal{})

	req := newJSONRequest(t, http.MethodPost, "/api/v1/selections", map[string]interface{}{
		"direction": "over",
		"manual":    map[string]string{"line": "25.5", "odds": "-110"},
		"format":    "american",
	})
	rec := httptest.NewRecorder()
	h.BuildSelection(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var sel models.Selection
	decodeBody(t, rec, &sel)

	if math.Abs(sel.Odds-1.909090909) > 0.0001 {
		t.Errorf("odds = %f, want canonical decimal for -110", sel.Odds)
	}
}

func TestBuildSelectionValidation(t *testing.T) {
	h := handlers.NewParlayHandler(&fakeJournal{})

	tests := []struct {
		name      string
		body      map[string]interface{}
		wantField string
	}{
		{
			name: "bad direction",
			body: map[string]interface{}{
				"direction": "sideways",
				"manual":    map[string]string{"line": "25.5", "odds": "-110"},
				"format":    "american",
			},
			wantField: "direction",
		},
		{
			name: "blank line",
			body: map[string]interface{}{
				"direction": "over",
				"manual":    map[string]string{"line": "  ", "odds": "-110"},
				"format":    "american",
			},
			wantField: "line",
		},
		{
			name: "non-numeric odds",
			body: map[string]interface{}{
				"direction": "over",
				"manual":    map[string]string{"line": "25.5", "odds": "abc"},
				"format":    "american",
			},
			wantField: "odds",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := newJSONRequest(t, http.MethodPost, "/api/v1/selections", tt.body)
			rec := httptest.NewRecorder()
			h.BuildSelection(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
			if field := decodeErrorField(t, rec); field != tt.wantField {
				t.Errorf("error field = %q, want %q", field, tt.wantField)
			}
		})
	}
}

func TestBuildSelectionRequiresExactlyOneSource(t *testing.T) {
	h := handlers.NewParlayHandler(&fakeJournal{})

	req := newJSONRequest(t, http.MethodPost, "/api/v1/selections", map[string]interface{}{
		"direction": "over",
	})
	rec := httptest.NewRecorder()
	h.BuildSelection(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 when neither source is given, got %d", rec.Code)
	}
}
