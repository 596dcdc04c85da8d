package contracts

import "time"

// SportModule is the pluggable interface for adding new sports.
// The engine itself is sport-agnostic: team identity, position buckets,
// and season labeling all come from here.
type SportModule interface {
	// Identification
	GetSportKey() string    // "basketball_nba"
	GetDisplayName() string // "NBA"

	// Team normalization (for odds and provider integration)
	GetTeamAbbreviation(fullName string) string
	GetTeamName(abbr string) string
	GetTeamID(abbr string) (int, bool)
	TeamAbbreviations() []string

	// Position buckets for defense-vs-position aggregation
	PositionBuckets() []string
	AssignBucket(startPosition string, line StatLine) string
	NormalizePlayerName(name string) string

	// Season labeling, e.g. "2025-26"
	SeasonLabel(now time.Time) string
	PreviousSeasonLabel(now time.Time) string

	IsEnabled() bool
}

// StatLine carries the single-game stats the bucket heuristic looks at
// when a player is missing from the depth chart.
type StatLine struct {
	Points   float64
	Rebounds float64
	Assists  float64
	Blocks   float64
}
