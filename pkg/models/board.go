package models

import "time"

// AlternateLine is a non-primary line together with its derived payout
// multiplier when the line is a pick'em variant. Multiplier is zero for
// plain alternate lines.
type AlternateLine struct {
	Quote      Quote   `json:"quote"`
	IsVariant  bool    `json:"is_variant,omitempty"`
	Multiplier float64 `json:"multiplier,omitempty"`
}

// BookLines holds one bookmaker's classified lines for a market: at most
// one primary plus zero or more alternates sorted line descending.
type BookLines struct {
	Bookmaker  string          `json:"bookmaker"`
	Primary    *Quote          `json:"primary,omitempty"`
	Alternates []AlternateLine `json:"alternates,omitempty"`
}

// Board is a classified market snapshot ready for display
type Board struct {
	Market     MarketType  `json:"market"`
	PlayerName string      `json:"player_name,omitempty"`
	StatType   string      `json:"stat_type,omitempty"`
	Team       string      `json:"team,omitempty"`
	Books      []BookLines `json:"books"`
	Selected   *Quote      `json:"selected,omitempty"`
	Dropped    int         `json:"dropped_quotes,omitempty"`
	FetchedAt  time.Time   `json:"fetched_at"`
}

// Key returns the cache/stream identity of the board's market
func (b Board) Key() string {
	if b.Market == MarketPlayerProp {
		return string(b.Market) + ":" + b.PlayerName + ":" + b.StatType
	}
	return string(b.Market) + ":" + b.Team
}

// GameBoards bundles a team's game-market boards. A nil market means no
// valid quotes survived classification this refresh.
type GameBoards struct {
	Team      string    `json:"team"`
	Moneyline *Board    `json:"moneyline,omitempty"`
	Spread    *Board    `json:"spread,omitempty"`
	FetchedAt time.Time `json:"fetched_at"`
}
