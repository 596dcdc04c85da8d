package nbastats_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Stattrackrr/stattrackr/internal/providers/nbastats"
)

func TestTeamGameLog(t *testing.T) {
	var gotPath string
	var gotOrigin string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.String()
		gotOrigin = r.Header.Get("x-nba-stats-origin")
		fmt.Fprint(w, `{
			"resultSets": [{
				"name": "TeamGameLog",
				"headers": ["Team_ID", "Game_ID", "GAME_DATE", "MATCHUP", "WL"],
				"rowSet": [
					[1610612738, "0022500312", "JAN 05, 2026", "BOS vs. NYK", "W"],
					[1610612738, "0022500298", "JAN 03, 2026", "BOS @ MIA", "L"]
				]
			}]
		}`)
	}))
	defer server.Close()

	client := nbastats.NewWithBaseURL(server.URL)
	gameIDs, err := client.TeamGameLog(context.Background(), 1610612738, "2025-26")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(gameIDs) != 2 {
		t.Fatalf("expected 2 game IDs, got %d", len(gameIDs))
	}
	if gameIDs[0] != "0022500312" {
		t.Errorf("expected most recent game first, got %s", gameIDs[0])
	}

	if gotOrigin != "stats" {
		t.Errorf("expected x-nba-stats-origin header 'stats', got %q", gotOrigin)
	}
	wantPath := "/teamgamelog?TeamID=1610612738&Season=2025-26&SeasonType=Regular+Season"
	if gotPath != wantPath {
		t.Errorf("expected path %s, got %s", wantPath, gotPath)
	}
}

func TestBoxScorePicksPlayerSet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"resultSets": [
				{
					"name": "TeamStats",
					"headers": ["TEAM_ID", "PTS"],
					"rowSet": [[1610612738, 112]]
				},
				{
					"name": "PlayerStats",
					"headers": ["TEAM_ID", "TEAM_ABBREVIATION", "PLAYER_NAME", "START_POSITION", "PTS", "REB", "AST", "FG3M", "STL", "BLK"],
					"rowSet": [
						[1610612738, "BOS", "Jayson Tatum", "F", 31, 8, 5, 4, 1, 0],
						[1610612752, "NYK", "Jalen Brunson", "G", 28, 3, 9, 2, 2, 0],
						[1610612752, "NYK", "", "", 0, 0, 0, 0, 0, 0]
					]
				}
			]
		}`)
	}))
	defer server.Close()

	client := nbastats.NewWithBaseURL(server.URL)
	lines, err := client.BoxScore(context.Background(), "0022500312")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(lines) != 2 {
		t.Fatalf("expected 2 player lines (blank name dropped), got %d", len(lines))
	}

	tatum := lines[0]
	if tatum.PlayerName != "Jayson Tatum" {
		t.Errorf("expected Jayson Tatum, got %s", tatum.PlayerName)
	}
	if tatum.TeamID != 1610612738 {
		t.Errorf("expected team ID 1610612738, got %d", tatum.TeamID)
	}
	if tatum.Points != 31 || tatum.Rebounds != 8 || tatum.ThreesMade != 4 {
		t.Errorf("unexpected stat line: %+v", tatum)
	}
	if tatum.StartPosition != "F" {
		t.Errorf("expected start position F, got %q", tatum.StartPosition)
	}

	brunson := lines[1]
	if brunson.TeamAbbr != "NYK" || brunson.Assists != 9 {
		t.Errorf("unexpected opponent line: %+v", brunson)
	}
}

func TestBoxScoreMissingColumns(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"resultSets": [{
				"name": "PlayerStats",
				"headers": ["PLAYER_NAME", "PTS"],
				"rowSet": [["Derrick White", 18]]
			}]
		}`)
	}))
	defer server.Close()

	client := nbastats.NewWithBaseURL(server.URL)
	lines, err := client.BoxScore(context.Background(), "0022500999")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if lines[0].Points != 18 {
		t.Errorf("expected 18 points, got %f", lines[0].Points)
	}
	if lines[0].Rebounds != 0 || lines[0].TeamID != 0 {
		t.Errorf("missing columns should read as zero: %+v", lines[0])
	}
}

func TestFetchErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, "blocked")
	}))
	defer server.Close()

	client := nbastats.NewWithBaseURL(server.URL)
	_, err := client.TeamGameLog(context.Background(), 1610612738, "2025-26")
	if err == nil {
		t.Fatal("expected error on 403 response")
	}
}
