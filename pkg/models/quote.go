package models

import "math"

// MarketType identifies which wager market a quote prices
type MarketType string

const (
	MarketMoneyline  MarketType = "moneyline"
	MarketSpread     MarketType = "spread"
	MarketTotal      MarketType = "total"
	MarketPlayerProp MarketType = "player_prop"
)

// Variant labels carried by pick'em style quotes
const (
	VariantGoblin = "Goblin"
	VariantDemon  = "Demon"
)

// PropQuote prices an over/under line: a game total or a player prop.
// Pointer fields encode presence for the multiplier ladder.
type PropQuote struct {
	Bookmaker    string   `json:"bookmaker"`
	PlayerName   string   `json:"player_name,omitempty"`
	StatType     string   `json:"stat_type,omitempty"`
	Line         float64  `json:"line"`
	OverPrice    float64  `json:"over_price"`
	UnderPrice   float64  `json:"under_price"`
	Pickem       bool     `json:"is_pickem,omitempty"`
	VariantLabel string   `json:"variant_label,omitempty"`
	Multiplier   *float64 `json:"multiplier,omitempty"`
	GoblinCount  *int     `json:"goblin_count,omitempty"`
	DemonCount   *int     `json:"demon_count,omitempty"`
}

// MoneylineQuote prices both sides of a game winner market
type MoneylineQuote struct {
	Bookmaker string  `json:"bookmaker"`
	HomeTeam  string  `json:"home_team"`
	AwayTeam  string  `json:"away_team"`
	HomeOdds  float64 `json:"home_odds"`
	AwayOdds  float64 `json:"away_odds"`
}

// SpreadQuote prices both sides of a point spread market
type SpreadQuote struct {
	Bookmaker      string  `json:"bookmaker"`
	FavoriteTeam   string  `json:"favorite_team"`
	UnderdogTeam   string  `json:"underdog_team"`
	FavoriteSpread float64 `json:"favorite_spread"`
	UnderdogSpread float64 `json:"underdog_spread"`
	FavoriteOdds   float64 `json:"favorite_odds"`
	UnderdogOdds   float64 `json:"underdog_odds"`
}

// Quote is a single bookmaker's price for one market, keyed by Market.
// Exactly one of Prop, Moneyline, Spread is set, matching Market.
type Quote struct {
	Market    MarketType      `json:"market"`
	Prop      *PropQuote      `json:"prop,omitempty"`
	Moneyline *MoneylineQuote `json:"moneyline,omitempty"`
	Spread    *SpreadQuote    `json:"spread,omitempty"`
}

// NewPlayerPropQuote wraps p as a player prop market quote
func NewPlayerPropQuote(p PropQuote) Quote {
	return Quote{Market: MarketPlayerProp, Prop: &p}
}

// NewTotalQuote wraps p as a game total market quote
func NewTotalQuote(p PropQuote) Quote {
	return Quote{Market: MarketTotal, Prop: &p}
}

// NewMoneylineQuote wraps m as a moneyline market quote
func NewMoneylineQuote(m MoneylineQuote) Quote {
	return Quote{Market: MarketMoneyline, Moneyline: &m}
}

// NewSpreadQuote wraps s as a spread market quote
func NewSpreadQuote(s SpreadQuote) Quote {
	return Quote{Market: MarketSpread, Spread: &s}
}

// Bookmaker returns the quoting bookmaker regardless of market
func (q Quote) Bookmaker() string {
	switch q.Market {
	case MarketMoneyline:
		if q.Moneyline != nil {
			return q.Moneyline.Bookmaker
		}
	case MarketSpread:
		if q.Spread != nil {
			return q.Spread.Bookmaker
		}
	default:
		if q.Prop != nil {
			return q.Prop.Bookmaker
		}
	}
	return ""
}

// Line returns the number the quote is sorted and classified by:
// the point total for prop markets, the favorite's spread for spread
// markets, and 0 for moneylines.
func (q Quote) Line() float64 {
	switch q.Market {
	case MarketMoneyline:
		return 0
	case MarketSpread:
		if q.Spread != nil {
			return q.Spread.FavoriteSpread
		}
	default:
		if q.Prop != nil {
			return q.Prop.Line
		}
	}
	return 0
}

// IsVariant reports whether the quote is a pick'em style variant line.
// Only prop markets carry variants.
func (q Quote) IsVariant() bool {
	if q.Prop == nil {
		return false
	}
	return q.Prop.Pickem || q.Prop.VariantLabel != ""
}

// Valid reports whether the quote is well formed: the variant matching
// Market is present, every decimal price is strictly greater than 1.0,
// and the line is a finite number.
func (q Quote) Valid() bool {
	switch q.Market {
	case MarketMoneyline:
		if q.Moneyline == nil {
			return false
		}
		return validPrice(q.Moneyline.HomeOdds) && validPrice(q.Moneyline.AwayOdds)
	case MarketSpread:
		if q.Spread == nil {
			return false
		}
		return validPrice(q.Spread.FavoriteOdds) && validPrice(q.Spread.UnderdogOdds) &&
			finite(q.Spread.FavoriteSpread) && finite(q.Spread.UnderdogSpread)
	case MarketTotal, MarketPlayerProp:
		if q.Prop == nil {
			return false
		}
		return validPrice(q.Prop.OverPrice) && validPrice(q.Prop.UnderPrice) && finite(q.Prop.Line)
	}
	return false
}

func validPrice(decimal float64) bool {
	return finite(decimal) && decimal > 1.0
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
