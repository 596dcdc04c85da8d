// Package datefmt renders the loosely formatted return-date strings that
// injury providers publish. Upstream data is free text: full dates,
// partial dates with no year, or placeholders like "TBD". Display never
// fails on bad input; anything unparseable comes back verbatim.
package datefmt

import (
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
)

// Unknown is the display value for a missing return date
const Unknown = "Unknown"

const displayLayout = "Jan 2, 2006"

// Partial layouts carry no year; the year is injected from the clock
var partialLayouts = []string{"Jan 2", "January 2"}

// Space-containing dates that already carry a year
var fullLayouts = []string{"Jan 2, 2006", "January 2, 2006", "Jan 2 2006"}

// Single-token date strings
var standaloneLayouts = []string{"2006-01-02", "01/02/2006", "2006/01/02", time.RFC3339}

// Formatter renders return dates for display. The clock decides which
// year a partial date like "Oct 17" belongs to.
type Formatter struct {
	clock clockwork.Clock
}

// New creates a formatter on the given clock
func New(clock clockwork.Clock) *Formatter {
	return &Formatter{clock: clock}
}

// FormatReturnDate renders a provider return-date string as
// "{abbreviated month} {day}, {year}". A nil or blank input is Unknown.
// A string containing a space is treated as a partial date lacking a
// year: it is parsed assuming the current year, and when that lands
// chronologically before now, re-parsed assuming next year, which
// handles injuries reported in December recovering in January. Input
// that no attempt can parse is returned verbatim.
func (f *Formatter) FormatReturnDate(raw *string) string {
	if raw == nil {
		return Unknown
	}
	s := strings.TrimSpace(*raw)
	if s == "" {
		return Unknown
	}

	if strings.Contains(s, " ") {
		return f.formatPartial(*raw, s)
	}

	for _, layout := range standaloneLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(displayLayout)
		}
	}
	return *raw
}

func (f *Formatter) formatPartial(raw, s string) string {
	now := f.clock.Now()

	for _, layout := range partialLayouts {
		parsed, err := time.Parse(layout, s)
		if err != nil {
			continue
		}

		candidate := time.Date(now.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, now.Location())
		if candidate.Before(now) {
			candidate = time.Date(now.Year()+1, parsed.Month(), parsed.Day(), 0, 0, 0, 0, now.Location())
		}
		return candidate.Format(displayLayout)
	}

	// Dates that already carry a year skip the year injection
	for _, layout := range fullLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(displayLayout)
		}
	}

	return raw
}
