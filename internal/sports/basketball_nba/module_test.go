package basketball_nba_test

import (
	"testing"
	"time"

	"github.com/Stattrackrr/stattrackr/internal/sports/basketball_nba"
	"github.com/Stattrackrr/stattrackr/pkg/contracts"
)

func TestTeamLookups(t *testing.T) {
	m := basketball_nba.New()

	if abbr := m.GetTeamAbbreviation("Boston Celtics"); abbr != "BOS" {
		t.Errorf("GetTeamAbbreviation = %q, want BOS", abbr)
	}
	if name := m.GetTeamName("MIL"); name != "Milwaukee Bucks" {
		t.Errorf("GetTeamName = %q, want Milwaukee Bucks", name)
	}
	if abbr := m.GetTeamAbbreviation("Unknown Team"); abbr != "Unknown Team" {
		t.Errorf("unknown names pass through, got %q", abbr)
	}

	id, ok := m.GetTeamID("bos")
	if !ok || id != 1610612738 {
		t.Errorf("GetTeamID(bos) = %d, %v; want 1610612738 (case-insensitive)", id, ok)
	}
	if _, ok := m.GetTeamID("XXX"); ok {
		t.Error("GetTeamID(XXX) should miss")
	}

	if got := len(m.TeamAbbreviations()); got != 30 {
		t.Errorf("TeamAbbreviations returned %d teams, want 30", got)
	}
}

func TestNormalizePlayerName(t *testing.T) {
	m := basketball_nba.New()

	tests := []struct {
		raw  string
		want string
	}{
		{"Jaren Jackson Jr.", "jaren jackson"},
		{"Gary Payton II", "gary payton"},
		{"D'Angelo Russell", "d angelo russell"},
		{"Nikola Jokić", "nikola joki"},
		{"  Luka   Doncic ", "luka doncic"},
	}

	for _, tt := range tests {
		if got := m.NormalizePlayerName(tt.raw); got != tt.want {
			t.Errorf("NormalizePlayerName(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestAssignBucket(t *testing.T) {
	m := basketball_nba.New()

	tests := []struct {
		name     string
		startPos string
		line     contracts.StatLine
		want     string
	}{
		{"playmaking guard", "G", contracts.StatLine{Assists: 7}, "PG"},
		{"scoring guard", "G", contracts.StatLine{Assists: 2}, "SG"},
		{"rebounding forward", "F", contracts.StatLine{Rebounds: 9}, "PF"},
		{"shot-blocking forward", "F", contracts.StatLine{Blocks: 2}, "PF"},
		{"wing forward", "F", contracts.StatLine{Rebounds: 4}, "SF"},
		{"center", "C", contracts.StatLine{}, "C"},
		{"bench big without position", "", contracts.StatLine{Rebounds: 8}, "PF"},
		{"bench player without position", "", contracts.StatLine{Rebounds: 2}, "C"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.AssignBucket(tt.startPos, tt.line); got != tt.want {
				t.Errorf("AssignBucket(%q, %+v) = %q, want %q", tt.startPos, tt.line, got, tt.want)
			}
		})
	}
}

func TestSeasonLabel(t *testing.T) {
	m := basketball_nba.New()

	tests := []struct {
		now  time.Time
		want string
	}{
		{time.Date(2025, time.November, 1, 0, 0, 0, 0, time.UTC), "2025-26"},
		{time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC), "2025-26"},
		{time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC), "2026-27"},
		{time.Date(2026, time.August, 25, 0, 0, 0, 0, time.UTC), "2025-26"},
		{time.Date(2009, time.December, 1, 0, 0, 0, 0, time.UTC), "2009-10"},
	}

	for _, tt := range tests {
		if got := m.SeasonLabel(tt.now); got != tt.want {
			t.Errorf("SeasonLabel(%s) = %q, want %q", tt.now.Format("2006-01"), got, tt.want)
		}
	}

	if got := m.PreviousSeasonLabel(time.Date(2025, time.November, 1, 0, 0, 0, 0, time.UTC)); got != "2024-25" {
		t.Errorf("PreviousSeasonLabel = %q, want 2024-25", got)
	}
}
