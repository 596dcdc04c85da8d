package oddsmath

import (
	"fmt"
	"math"
	"strconv"
)

// Format selects the odds display convention. It is always passed
// explicitly by callers, never read from ambient state.
type Format string

const (
	FormatAmerican Format = "american"
	FormatDecimal  Format = "decimal"
)

// ParseFormat validates a display format string
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatAmerican:
		return FormatAmerican, nil
	case FormatDecimal:
		return FormatDecimal, nil
	}
	return "", fmt.Errorf("invalid odds format %q: must be %q or %q", s, FormatAmerican, FormatDecimal)
}

// AmericanToDecimal converts American odds to decimal odds
// American +150 → Decimal 2.50
// American -150 → Decimal 1.67
func AmericanToDecimal(american int) (float64, error) {
	if american == 0 {
		return 0, fmt.Errorf("invalid American odds: cannot be 0")
	}

	if american > 0 {
		// Positive odds: (american / 100) + 1
		return (float64(american) / 100.0) + 1.0, nil
	}

	// Negative odds: (100 / abs(american)) + 1
	return (100.0 / float64(-american)) + 1.0, nil
}

// DecimalToAmerican converts decimal odds to American odds
// Decimal 2.50 → American +150
// Decimal 1.67 → American -150
// Decimal odds at or below 1.0 carry no payout and are rejected; 2.0 is
// the boundary where American odds switch sign, mapping to +100.
func DecimalToAmerican(decimal float64) (int, error) {
	if math.IsNaN(decimal) || math.IsInf(decimal, 0) || decimal <= 1.0 {
		return 0, fmt.Errorf("invalid decimal odds %v: must be > 1.0", decimal)
	}

	if decimal >= 2.0 {
		// Positive American odds: (decimal - 1) * 100
		return int(math.Round((decimal - 1.0) * 100.0)), nil
	}

	// Negative American odds: -100 / (decimal - 1)
	return int(math.Round(-100.0 / (decimal - 1.0))), nil
}

// ToDecimal converts a price in the given display format to canonical
// decimal odds. Prices already in decimal format are validated and
// returned unchanged.
func ToDecimal(price float64, format Format) (float64, error) {
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, fmt.Errorf("invalid price %v", price)
	}

	switch format {
	case FormatDecimal:
		if price <= 1.0 {
			return 0, fmt.Errorf("invalid decimal odds %v: must be > 1.0", price)
		}
		return price, nil
	case FormatAmerican:
		if price == 0 {
			return 0, fmt.Errorf("invalid American odds: cannot be 0")
		}
		if price > 0 {
			return (price / 100.0) + 1.0, nil
		}
		return (100.0 / math.Abs(price)) + 1.0, nil
	}

	return 0, fmt.Errorf("unknown odds format %q", format)
}

// FormatPrice renders canonical decimal odds as a display string in the
// requested format: "+150" / "-110" for American, "2.50" for decimal.
func FormatPrice(decimal float64, format Format) (string, error) {
	switch format {
	case FormatDecimal:
		if math.IsNaN(decimal) || math.IsInf(decimal, 0) || decimal <= 1.0 {
			return "", fmt.Errorf("invalid decimal odds %v: must be > 1.0", decimal)
		}
		return strconv.FormatFloat(decimal, 'f', 2, 64), nil
	case FormatAmerican:
		american, err := DecimalToAmerican(decimal)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%+d", american), nil
	}

	return "", fmt.Errorf("unknown odds format %q", format)
}

// DecimalToImpliedProbability converts decimal odds to implied probability
// Decimal 2.00 → 0.50 (50%)
// Decimal 1.50 → 0.667 (66.7%)
func DecimalToImpliedProbability(decimal float64) (float64, error) {
	if math.IsNaN(decimal) || decimal <= 0 {
		return 0, fmt.Errorf("invalid decimal odds: must be > 0")
	}

	return 1.0 / decimal, nil
}
