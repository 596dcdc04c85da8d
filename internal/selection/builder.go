// Package selection constructs and combines user bet legs. Building is a
// pure, synchronous step: a quote plus a direction, or a manual line and
// odds entry, becomes an immutable Selection or a field-level validation
// error.
package selection

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/Stattrackrr/stattrackr/pkg/models"
	"github.com/Stattrackrr/stattrackr/pkg/oddsmath"
)

// FieldError reports a validation failure on a single input field.
// Handlers surface it as a 400 with the field name attached.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// BuildFromQuote constructs a selection from a bookmaker quote. The
// direction doubles as the side selector on game markets: over picks the
// home/favorite side, under the away/underdog side.
func BuildFromQuote(quote models.Quote, direction string) (models.Selection, error) {
	if direction != models.DirectionOver && direction != models.DirectionUnder {
		return models.Selection{}, &FieldError{Field: "direction", Message: "must be \"over\" or \"under\""}
	}
	if !quote.Valid() {
		return models.Selection{}, fmt.Errorf("malformed %s quote from %q", quote.Market, quote.Bookmaker())
	}

	sel := models.Selection{
		ID:        uuid.New().String(),
		OverUnder: direction,
		Bookmaker: quote.Bookmaker(),
		IsManual:  false,
	}

	switch quote.Market {
	case models.MarketMoneyline:
		ml := quote.Moneyline
		sel.GameID = ml.AwayTeam + " @ " + ml.HomeTeam
		sel.StatType = string(models.MarketMoneyline)
		sel.Line = 0
		if direction == models.DirectionOver {
			sel.Odds = ml.HomeOdds
		} else {
			sel.Odds = ml.AwayOdds
		}
	case models.MarketSpread:
		sp := quote.Spread
		sel.GameID = sp.UnderdogTeam + " @ " + sp.FavoriteTeam
		sel.StatType = string(models.MarketSpread)
		if direction == models.DirectionOver {
			sel.Line = sp.FavoriteSpread
			sel.Odds = sp.FavoriteOdds
		} else {
			sel.Line = sp.UnderdogSpread
			sel.Odds = sp.UnderdogOdds
		}
	default:
		prop := quote.Prop
		sel.PlayerName = prop.PlayerName
		sel.StatType = prop.StatType
		sel.Line = prop.Line
		if direction == models.DirectionOver {
			sel.Odds = prop.OverPrice
		} else {
			sel.Odds = prop.UnderPrice
		}
	}

	return sel, nil
}

// BuildManual constructs a manually entered selection. The line must be
// a numeric string. Odds may be blank only for tracking-only records,
// which get the unpriced sentinel; otherwise they are interpreted in the
// given display format and stored as canonical decimal odds.
func BuildManual(line, odds, direction string, format oddsmath.Format) (models.Selection, error) {
	if direction != models.DirectionOver && direction != models.DirectionUnder {
		return models.Selection{}, &FieldError{Field: "direction", Message: "must be \"over\" or \"under\""}
	}

	line = strings.TrimSpace(line)
	if line == "" {
		return models.Selection{}, &FieldError{Field: "line", Message: "line is required"}
	}
	lineValue, err := strconv.ParseFloat(line, 64)
	if err != nil || math.IsNaN(lineValue) || math.IsInf(lineValue, 0) {
		return models.Selection{}, &FieldError{Field: "line", Message: "line must be a number"}
	}

	oddsValue := models.UnpricedOdds
	if trimmed := strings.TrimSpace(odds); trimmed != "" {
		price, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return models.Selection{}, &FieldError{Field: "odds", Message: "odds must be a number"}
		}
		oddsValue, err = oddsmath.ToDecimal(price, format)
		if err != nil {
			return models.Selection{}, &FieldError{Field: "odds", Message: err.Error()}
		}
	}

	return models.Selection{
		ID:        uuid.New().String(),
		Line:      lineValue,
		OverUnder: direction,
		Odds:      oddsValue,
		IsManual:  true,
	}, nil
}
