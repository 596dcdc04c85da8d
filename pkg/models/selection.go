package models

// Direction values for a selection's over/under flag. The same flag is
// reused as the team-side selector on moneyline and spread markets:
// over picks the home/favorite side, under the away/underdog side.
const (
	DirectionOver  = "over"
	DirectionUnder = "under"
)

// UnpricedOdds is the sentinel for a selection carrying no priced odds.
// Such selections are valid only as tracking records, never in a parlay.
const UnpricedOdds = 0.0

// MinParlayLegs is the fewest selections a parlay needs to be submittable
const MinParlayLegs = 2

// Selection is a user-confirmed bet leg, derived from a bookmaker quote
// or entered manually. A selection is immutable once added to a parlay;
// editing means remove and re-add.
type Selection struct {
	ID         string  `json:"id"`
	PlayerName string  `json:"player_name,omitempty"`
	GameID     string  `json:"game_id,omitempty"`
	StatType   string  `json:"stat_type,omitempty"`
	Line       float64 `json:"line"`
	OverUnder  string  `json:"over_under"`
	Odds       float64 `json:"odds"`
	Bookmaker  string  `json:"bookmaker,omitempty"`
	IsManual   bool    `json:"is_manual"`
}

// Priced reports whether the selection carries usable decimal odds
func (s Selection) Priced() bool {
	return s.Odds > 1.0
}

// ParlayComposition is an ordered list of selections combined into one
// wager. The combined price is always recomputed from Selections, never
// stored on the composition itself.
type ParlayComposition struct {
	Selections []Selection `json:"selections"`
}

// DecimalOdds returns the stored decimal odds of every selection, in
// composition order.
func (p ParlayComposition) DecimalOdds() []float64 {
	odds := make([]float64, len(p.Selections))
	for i, s := range p.Selections {
		odds[i] = s.Odds
	}
	return odds
}
