package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Stattrackrr/stattrackr/internal/handlers"
	"github.com/Stattrackrr/stattrackr/pkg/models"
)

func TestGetSettingsDefaultsWhenUnsaved(t *testing.T) {
	h := handlers.NewSettingsHandler(&fakeJournal{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/settings", nil)
	rec := httptest.NewRecorder()
	h.GetSettings(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var settings models.Settings
	decodeBody(t, rec, &settings)

	if settings.OddsFormat != "american" {
		t.Errorf("odds_format = %q, want american default", settings.OddsFormat)
	}
	if settings.DefaultCurrency != "USD" {
		t.Errorf("default_currency = %q, want USD", settings.DefaultCurrency)
	}
}

func TestGetSettingsStored(t *testing.T) {
	journal := &fakeJournal{
		settings: &models.Settings{
			UserID:          "default",
			OddsFormat:      "decimal",
			DefaultCurrency: "EUR",
			Bankroll:        500,
		},
	}
	h := handlers.NewSettingsHandler(journal)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/settings", nil)
	rec := httptest.NewRecorder()
	h.GetSettings(rec, req)

	var settings models.Settings
	decodeBody(t, rec, &settings)

	if settings.OddsFormat != "decimal" || settings.Bankroll != 500 {
		t.Errorf("settings = %+v, want stored values", settings)
	}
}

func TestUpdateSettings(t *testing.T) {
	journal := &fakeJournal{}
	h := handlers.NewSettingsHandler(journal)

	req := newJSONRequest(t, http.MethodPut, "/api/v1/settings", map[string]interface{}{
		"odds_format": "decimal",
		"bankroll":    1000.0,
	})
	rec := httptest.NewRecorder()
	h.UpdateSettings(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	if journal.updated == nil {
		t.Fatal("expected settings upsert")
	}
	if journal.updated.UserID != "default" {
		t.Errorf("user_id = %q, want default", journal.updated.UserID)
	}
	if journal.updated.DefaultCurrency != "USD" {
		t.Errorf("default_currency = %q, want USD fallback", journal.updated.DefaultCurrency)
	}
}

func TestUpdateSettingsValidation(t *testing.T) {
	h := handlers.NewSettingsHandler(&fakeJournal{})

	tests := []struct {
		name      string
		body      map[string]interface{}
		wantField string
	}{
		{
			name:      "unknown format",
			body:      map[string]interface{}{"odds_format": "fractional"},
			wantField: "odds_format",
		},
		{
			name:      "negative bankroll",
			body:      map[string]interface{}{"odds_format": "american", "bankroll": -5.0},
			wantField: "bankroll",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := newJSONRequest(t, http.MethodPut, "/api/v1/settings", tt.body)
			rec := httptest.NewRecorder()
			h.UpdateSettings(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
			if field := decodeErrorField(t, rec); field != tt.wantField {
				t.Errorf("error field = %q, want %q", field, tt.wantField)
			}
		})
	}
}
