package oddsmath

import (
	"fmt"
	"math"
)

// CombineDecimals multiplies decimal odds into a single parlay price.
// An empty list returns 1.0, the neutral element: callers must present
// that as "no price", not as a valid combined price. Combination is a
// plain product, so it is associative and independent of leg order.
func CombineDecimals(odds ...float64) float64 {
	combined := 1.0
	for _, d := range odds {
		combined *= d
	}
	return combined
}

// FairProbabilities removes the bookmaker's vig from a two-way market
// using the multiplicative method, returning fair win probabilities for
// both sides.
//
// Formula:
// 1. Convert both decimal prices to implied probabilities
// 2. Calculate overround: totalProb = over + under (typically > 1.0)
// 3. Normalize: fairOver = over / totalProb, fairUnder = under / totalProb
//
// Example:
// Over 1.909 (-110) and Under 1.909 (-110) imply 52.38% each, an
// overround of 104.76%; fair probabilities are 50% / 50%.
func FairProbabilities(overDecimal, underDecimal float64) (fairOver, fairUnder float64, err error) {
	overProb, err := DecimalToImpliedProbability(overDecimal)
	if err != nil {
		return 0, 0, fmt.Errorf("over side: %w", err)
	}

	underProb, err := DecimalToImpliedProbability(underDecimal)
	if err != nil {
		return 0, 0, fmt.Errorf("under side: %w", err)
	}

	totalProb := overProb + underProb
	if totalProb <= 1.0 || math.IsNaN(totalProb) {
		return 0, 0, fmt.Errorf("no vig detected: probabilities sum to %.4f", totalProb)
	}

	// Normalize by dividing each probability by the total
	fairOver = overProb / totalProb
	fairUnder = underProb / totalProb

	return fairOver, fairUnder, nil
}
