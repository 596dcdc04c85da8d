package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Stattrackrr/stattrackr/pkg/models"
)

// fakeJournal is an in-memory stand-in for the Postgres journal
type fakeJournal struct {
	settings    *models.Settings
	settingsErr error
	entries     []*models.JournalEntry
	created     []*models.JournalEntry
	createErr   error
	settled     *models.JournalEntry
	settleErr   error
	deleteErr   error
	summary     models.JournalSummary
	updated     *models.Settings
}

func (f *fakeJournal) Ping(ctx context.Context) error { return nil }

func (f *fakeJournal) CreateEntry(ctx context.Context, entry *models.JournalEntry, userID string) (*models.JournalEntry, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	stored := *entry
	stored.ID = "entry-1"
	stored.Status = models.StatusPending
	stored.CreatedAt = time.Now().UTC()
	f.created = append(f.created, &stored)
	return &stored, nil
}

func (f *fakeJournal) GetEntries(ctx context.Context, filters models.JournalFilters) ([]*models.JournalEntry, error) {
	return f.entries, nil
}

func (f *fakeJournal) GetEntryByID(ctx context.Context, id string) (*models.JournalEntry, error) {
	return nil, nil
}

func (f *fakeJournal) SettleEntry(ctx context.Context, id, status string, userID string) (*models.JournalEntry, error) {
	if f.settleErr != nil {
		return nil, f.settleErr
	}
	if f.settled == nil {
		return nil, fmt.Errorf("entry not found: %s", id)
	}
	out := *f.settled
	out.Status = status
	return &out, nil
}

func (f *fakeJournal) DeleteEntry(ctx context.Context, id, userID string) error {
	return f.deleteErr
}

func (f *fakeJournal) GetSummary(ctx context.Context) (*models.JournalSummary, error) {
	return &f.summary, nil
}

func (f *fakeJournal) GetSettings(ctx context.Context, userID string) (*models.Settings, error) {
	if f.settingsErr != nil {
		return nil, f.settingsErr
	}
	return f.settings, nil
}

func (f *fakeJournal) UpdateSettings(ctx context.Context, settings *models.Settings) error {
	f.updated = settings
	return nil
}

func (f *fakeJournal) Close() error { return nil }

func newJSONRequest(t *testing.T, method, target string, body interface{}) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("unexpected error decoding response %q: %v", rec.Body.String(), err)
	}
}

func decodeErrorField(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp models.ErrorResponse
	decodeBody(t, rec, &resp)
	return resp.Field
}

func pricedLeg(player string, line, odds float64) models.Selection {
	return models.Selection{
		ID:         player + "-leg",
		PlayerName: player,
		StatType:   "points",
		Line:       line,
		OverUnder:  models.DirectionOver,
		Odds:       odds,
		Bookmaker:  "underdog",
	}
}
