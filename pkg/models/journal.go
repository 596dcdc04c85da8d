package models

import "time"

// Journal entry statuses
const (
	StatusPending = "pending"
	StatusWon     = "won"
	StatusLost    = "lost"
	StatusVoid    = "void"
)

// JournalEntry is a persisted bet or tracking record: the flattened
// (description, odds, stake, currency) tuple produced from a selection
// or parlay composition.
type JournalEntry struct {
	ID           string     `json:"id"`
	Description  string     `json:"description"`
	Odds         float64    `json:"odds"`
	Stake        float64    `json:"stake"`
	Currency     string     `json:"currency"`
	Status       string     `json:"status"`
	PayoutAmount *float64   `json:"payout_amount,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	SettledAt    *time.Time `json:"settled_at,omitempty"`
}

// JournalFilters defines filters for journal queries
type JournalFilters struct {
	Status string
	Limit  int
	Offset int
}

// JournalSummary provides aggregate P&L statistics over settled entries
type JournalSummary struct {
	TotalEntries  int     `json:"total_entries"`
	TotalWagered  float64 `json:"total_wagered"`
	TotalReturned float64 `json:"total_returned"`
	NetProfit     float64 `json:"net_profit"`
	ROIPct        float64 `json:"roi_pct"`
	WinRatePct    float64 `json:"win_rate_pct"`
}

// Settings holds a user's display and bankroll preferences
type Settings struct {
	UserID          string    `json:"user_id"`
	OddsFormat      string    `json:"odds_format"`
	DefaultCurrency string    `json:"default_currency"`
	Bankroll        float64   `json:"bankroll"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ErrorResponse is the JSON error body returned by the API
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Field   string `json:"field,omitempty"`
}
