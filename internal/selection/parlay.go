package selection

import (
	"fmt"
	"strings"

	"github.com/Stattrackrr/stattrackr/pkg/models"
	"github.com/Stattrackrr/stattrackr/pkg/oddsmath"
)

// Combine multiplies the selections' decimal odds into a single combined
// price, returned in the requested display format. An empty list returns
// the neutral 1.0 untouched by format conversion; callers present that
// as "no price". Every leg must carry priced decimal odds. All
// intermediate arithmetic stays in decimal space; American is only an
// output transform.
func Combine(selections []models.Selection, format oddsmath.Format) (float64, error) {
	if len(selections) == 0 {
		return 1.0, nil
	}

	decimals := make([]float64, len(selections))
	for i, sel := range selections {
		if !sel.Priced() {
			return 0, fmt.Errorf("selection %q has no priced odds", describeLeg(sel))
		}
		decimals[i] = sel.Odds
	}

	combined := oddsmath.CombineDecimals(decimals...)

	switch format {
	case oddsmath.FormatDecimal:
		return combined, nil
	case oddsmath.FormatAmerican:
		american, err := oddsmath.DecimalToAmerican(combined)
		if err != nil {
			return 0, err
		}
		return float64(american), nil
	}

	return 0, fmt.Errorf("unknown odds format %q", format)
}

// ValidateForSubmission checks that a composition can be submitted as a
// parlay: at least two legs, all priced. Tracking-only unpriced legs are
// rejected here, before the combiner is ever reached.
func ValidateForSubmission(p models.ParlayComposition) error {
	if len(p.Selections) < models.MinParlayLegs {
		return &FieldError{
			Field:   "selections",
			Message: fmt.Sprintf("a parlay needs at least %d selections", models.MinParlayLegs),
		}
	}
	for _, sel := range p.Selections {
		if !sel.Priced() {
			return &FieldError{
				Field:   "selections",
				Message: fmt.Sprintf("selection %q has no priced odds", describeLeg(sel)),
			}
		}
	}
	return nil
}

// Describe flattens selections into the journal description string, one
// leg per segment.
func Describe(selections []models.Selection) string {
	legs := make([]string, len(selections))
	for i, sel := range selections {
		legs[i] = describeLeg(sel)
	}
	return strings.Join(legs, " + ")
}

func describeLeg(sel models.Selection) string {
	side := "O"
	if sel.OverUnder == models.DirectionUnder {
		side = "U"
	}

	switch sel.StatType {
	case string(models.MarketMoneyline):
		team := "home"
		if sel.OverUnder == models.DirectionUnder {
			team = "away"
		}
		return fmt.Sprintf("%s ML (%s)", sel.GameID, team)
	case string(models.MarketSpread):
		return fmt.Sprintf("%s %+.1f", sel.GameID, sel.Line)
	}

	subject := sel.PlayerName
	if subject == "" {
		subject = "manual"
	}
	if sel.StatType != "" {
		subject += " " + sel.StatType
	}
	return fmt.Sprintf("%s %s%.1f", subject, side, sel.Line)
}
