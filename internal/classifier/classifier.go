// Package classifier partitions a market's bookmaker quotes into primary
// and alternate lines. A bookmaker's primary line is its headline number;
// pick'em variants and secondary totals are alternates, de-emphasized but
// still selectable.
package classifier

import (
	"sort"

	"github.com/Stattrackrr/stattrackr/pkg/models"
)

// Result is the classified view of one market's quotes
type Result struct {
	Books   []models.BookLines
	Dropped int

	// first accepted quote in arrival order, the auto-select fallback
	first *models.Quote
}

// Classify groups quotes by bookmaker and splits each group into one
// primary line and its alternates.
//
// Grouping preserves first-seen bookmaker order. Within a group quotes
// are sorted line descending with arrival order breaking ties, then
// walked: variant quotes (a pick'em flag or label) are unconditionally
// alternates, the first non-variant quote is the primary, and everything
// after the primary is an alternate regardless of variant status.
// Malformed quotes (a price at or below decimal 1.0, a non-finite line)
// are dropped without failing the market.
func Classify(quotes []models.Quote) Result {
	var result Result

	groups := make(map[string][]models.Quote)
	var order []string

	for _, q := range quotes {
		if !q.Valid() {
			result.Dropped++
			continue
		}
		if result.first == nil {
			accepted := q
			result.first = &accepted
		}

		book := q.Bookmaker()
		if _, seen := groups[book]; !seen {
			order = append(order, book)
		}
		groups[book] = append(groups[book], q)
	}

	for _, book := range order {
		group := groups[book]

		// Line descending, arrival order on ties
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].Line() > group[j].Line()
		})

		lines := models.BookLines{Bookmaker: book}
		for _, q := range group {
			if lines.Primary == nil && !q.IsVariant() {
				primary := q
				lines.Primary = &primary
				continue
			}
			lines.Alternates = append(lines.Alternates, alternate(q))
		}

		// Alternates stay line descending independent of where the
		// primary sat between them
		sort.SliceStable(lines.Alternates, func(i, j int) bool {
			return lines.Alternates[i].Quote.Line() > lines.Alternates[j].Quote.Line()
		})

		result.Books = append(result.Books, lines)
	}

	return result
}

func alternate(q models.Quote) models.AlternateLine {
	alt := models.AlternateLine{Quote: q}
	if q.IsVariant() && q.Prop != nil {
		alt.IsVariant = true
		alt.Multiplier = VariantMultiplier(*q.Prop)
	}
	return alt
}

// AutoSelect returns the quote to preselect when first presenting the
// market: the first classified primary, falling back to the first
// accepted quote overall when no bookmaker produced a primary. Returns
// nil when every quote was dropped.
func (r Result) AutoSelect() *models.Quote {
	for _, book := range r.Books {
		if book.Primary != nil {
			return book.Primary
		}
	}
	return r.first
}

// VariantMultiplier derives the payout multiplier for a pick'em style
// quote. Indicators are checked in a fixed priority order: goblinCount,
// then demonCount, then an explicit multiplier field, then a fixed
// estimate from the variant label. Non-variant quotes get 1.0.
func VariantMultiplier(p models.PropQuote) float64 {
	if p.GoblinCount != nil {
		return 1.0 + 0.10*float64(*p.GoblinCount)
	}
	if p.DemonCount != nil {
		return 1.0 + 0.10*float64(*p.DemonCount)
	}
	if p.Multiplier != nil {
		return *p.Multiplier
	}

	switch p.VariantLabel {
	case models.VariantGoblin:
		return 1.10
	case models.VariantDemon:
		return 1.20
	}

	if p.Pickem {
		// Unlabeled pick'em
		return 1.10
	}
	return 1.0
}

// BuildBoard classifies quotes and assembles the displayable market
// snapshot used by the cache, the stream, and the API.
func BuildBoard(market models.MarketType, quotes []models.Quote) models.Board {
	result := Classify(quotes)
	return models.Board{
		Market:   market,
		Books:    result.Books,
		Selected: result.AutoSelect(),
		Dropped:  result.Dropped,
	}
}
