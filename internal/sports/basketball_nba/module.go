package basketball_nba

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/Stattrackrr/stattrackr/pkg/contracts"
)

// Position buckets for defense-vs-position aggregation
var positionBuckets = []string{"PG", "SG", "SF", "PF", "C"}

var nonNameChars = regexp.MustCompile(`[^a-z\s]`)
var nameSuffixes = regexp.MustCompile(`\b(jr|sr|ii|iii|iv)\b`)
var multiSpace = regexp.MustCompile(`\s+`)

// NBAModule implements SportModule for NBA basketball
type NBAModule struct {
	enabled bool
}

// New creates a new NBA sport module
func New() *NBAModule {
	return &NBAModule{enabled: true}
}

func (m *NBAModule) GetSportKey() string {
	return "basketball_nba"
}

func (m *NBAModule) GetDisplayName() string {
	return "NBA"
}

func (m *NBAModule) IsEnabled() bool {
	return m.enabled
}

func (m *NBAModule) GetTeamAbbreviation(fullName string) string {
	return GetTeamAbbreviation(fullName)
}

func (m *NBAModule) GetTeamName(abbr string) string {
	return GetTeamName(abbr)
}

func (m *NBAModule) GetTeamID(abbr string) (int, bool) {
	return GetTeamID(strings.ToUpper(abbr))
}

// TeamAbbreviations returns every NBA team abbreviation, sorted
func (m *NBAModule) TeamAbbreviations() []string {
	abbrs := make([]string, 0, len(nbaTeamIDs))
	for abbr := range nbaTeamIDs {
		abbrs = append(abbrs, abbr)
	}
	sort.Strings(abbrs)
	return abbrs
}

func (m *NBAModule) PositionBuckets() []string {
	return positionBuckets
}

// NormalizePlayerName lowercases a player name, strips punctuation and
// generational suffixes, and collapses whitespace so depth chart and
// boxscore spellings line up.
func (m *NBAModule) NormalizePlayerName(name string) string {
	s := strings.ToLower(name)
	s = nonNameChars.ReplaceAllString(s, " ")
	s = nameSuffixes.ReplaceAllString(s, " ")
	s = multiSpace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// AssignBucket places a player missing from the depth chart into a
// position bucket from their listed start position and single-game
// stats: guards split on playmaking, forwards on interior production.
func (m *NBAModule) AssignBucket(startPosition string, line contracts.StatLine) string {
	switch strings.ToUpper(strings.TrimSpace(startPosition)) {
	case "G":
		if line.Assists >= 5 {
			return "PG"
		}
		return "SG"
	case "F":
		if line.Rebounds >= 8 || line.Blocks >= 2 {
			return "PF"
		}
		return "SF"
	case "C":
		return "C"
	}

	if line.Rebounds >= 7 {
		return "PF"
	}
	return "C"
}

// SeasonLabel renders the season containing now, e.g. "2025-26".
// NBA seasons start in October.
func (m *NBAModule) SeasonLabel(now time.Time) string {
	return seasonLabelFromYear(seasonStartYear(now))
}

// PreviousSeasonLabel renders the season before the one containing now
func (m *NBAModule) PreviousSeasonLabel(now time.Time) string {
	return seasonLabelFromYear(seasonStartYear(now) - 1)
}

func seasonStartYear(now time.Time) int {
	if now.Month() >= time.October {
		return now.Year()
	}
	return now.Year() - 1
}

func seasonLabelFromYear(year int) string {
	return fmt.Sprintf("%d-%02d", year, (year+1)%100)
}
