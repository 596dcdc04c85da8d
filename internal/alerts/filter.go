package alerts

import (
	"fmt"
)

// Filter filters movements based on thresholds
type Filter struct {
	minMovePercent    float64
	minLineDelta      float64
	maxDataAgeSeconds int
}

// NewFilter creates a new filter
func NewFilter(minMovePercent, minLineDelta float64, maxDataAgeSeconds int) *Filter {
	return &Filter{
		minMovePercent:    minMovePercent,
		minLineDelta:      minLineDelta,
		maxDataAgeSeconds: maxDataAgeSeconds,
	}
}

// ShouldAlert returns true if the movement meets alert thresholds.
// Either a big enough price move or a big enough line jump qualifies.
func (f *Filter) ShouldAlert(m LineMovement) (bool, string) {
	if m.DataAgeSeconds > f.maxDataAgeSeconds {
		return false, fmt.Sprintf("data age %ds exceeds threshold %ds", m.DataAgeSeconds, f.maxDataAgeSeconds)
	}

	if m.PriceMovePct >= f.minMovePercent && f.minMovePercent > 0 {
		return true, ""
	}
	if m.LineDelta >= f.minLineDelta && f.minLineDelta > 0 {
		return true, ""
	}

	return false, fmt.Sprintf(
		"price move %.2f%% below threshold %.2f%% and line delta %.1f below %.1f",
		m.PriceMovePct, f.minMovePercent, m.LineDelta, f.minLineDelta,
	)
}

// FilterMovements filters a list of movements
func (f *Filter) FilterMovements(movements []LineMovement) []LineMovement {
	var filtered []LineMovement

	for _, m := range movements {
		if should, _ := f.ShouldAlert(m); should {
			filtered = append(filtered, m)
		}
	}

	return filtered
}
