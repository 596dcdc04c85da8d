package nbastats

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Stattrackrr/stattrackr/pkg/models"
)

const (
	BaseURL = "https://stats.nba.com/stats"
)

// stats.nba.com rejects requests without the full browser header set
var statsHeaders = map[string]string{
	"Accept":             "application/json, text/plain, */*",
	"Accept-Language":    "en-US,en;q=0.9",
	"Origin":             "https://www.nba.com",
	"Referer":            "https://www.nba.com/stats/",
	"User-Agent":         "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36",
	"Cache-Control":      "no-cache",
	"Pragma":             "no-cache",
	"x-nba-stats-origin": "stats",
	"x-nba-stats-token":  "true",
}

// Client handles stats.nba.com API requests
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// New creates a new NBA stats API client
func New() *Client {
	return NewWithBaseURL(BaseURL)
}

// NewWithBaseURL creates a client against a custom endpoint, used in tests
func NewWithBaseURL(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 20 * time.Second,
		},
		baseURL: baseURL,
	}
}

// statsResponse is the envelope every stats.nba.com endpoint returns
type statsResponse struct {
	ResultSets []resultSet `json:"resultSets"`
}

type resultSet struct {
	Name    string          `json:"name"`
	Headers []string        `json:"headers"`
	RowSet  [][]interface{} `json:"rowSet"`
}

// TeamGameLog fetches the game IDs for a team's season, most recent first
func (c *Client) TeamGameLog(ctx context.Context, teamID int, season string) ([]string, error) {
	url := fmt.Sprintf("%s/teamgamelog?TeamID=%d&Season=%s&SeasonType=Regular+Season", c.baseURL, teamID, season)

	resp, err := c.fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	if len(resp.ResultSets) == 0 {
		return nil, fmt.Errorf("teamgamelog: empty result sets for team %d", teamID)
	}

	set := resp.ResultSets[0]
	idx := columnIndex(set.Headers, "GAME_ID")
	if idx < 0 {
		return nil, fmt.Errorf("teamgamelog: no GAME_ID column for team %d", teamID)
	}

	gameIDs := make([]string, 0, len(set.RowSet))
	for _, row := range set.RowSet {
		id := cellString(row, idx)
		if id != "" {
			gameIDs = append(gameIDs, id)
		}
	}

	return gameIDs, nil
}

// BoxScore fetches all player stat lines for a game
func (c *Client) BoxScore(ctx context.Context, gameID string) ([]models.PlayerGameLine, error) {
	url := fmt.Sprintf("%s/boxscoretraditionalv2?GameID=%s&StartPeriod=0&EndPeriod=0&StartRange=0&EndRange=0&RangeType=0", c.baseURL, gameID)

	resp, err := c.fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	if len(resp.ResultSets) == 0 {
		return nil, fmt.Errorf("boxscore: empty result sets for game %s", gameID)
	}

	set := playerResultSet(resp.ResultSets)

	teamIDIdx := columnIndex(set.Headers, "TEAM_ID")
	teamAbbrIdx := columnIndex(set.Headers, "TEAM_ABBREVIATION")
	nameIdx := columnIndex(set.Headers, "PLAYER_NAME")
	posIdx := columnIndex(set.Headers, "START_POSITION")
	ptsIdx := columnIndex(set.Headers, "PTS")
	rebIdx := columnIndex(set.Headers, "REB")
	astIdx := columnIndex(set.Headers, "AST")
	fg3mIdx := columnIndex(set.Headers, "FG3M")
	stlIdx := columnIndex(set.Headers, "STL")
	blkIdx := columnIndex(set.Headers, "BLK")

	lines := make([]models.PlayerGameLine, 0, len(set.RowSet))
	for _, row := range set.RowSet {
		line := models.PlayerGameLine{
			TeamID:        cellInt(row, teamIDIdx),
			TeamAbbr:      cellString(row, teamAbbrIdx),
			PlayerName:    cellString(row, nameIdx),
			StartPosition: cellString(row, posIdx),
			Points:        cellFloat(row, ptsIdx),
			Rebounds:      cellFloat(row, rebIdx),
			Assists:       cellFloat(row, astIdx),
			ThreesMade:    cellFloat(row, fg3mIdx),
			Steals:        cellFloat(row, stlIdx),
			Blocks:        cellFloat(row, blkIdx),
		}
		if line.PlayerName == "" {
			continue
		}
		lines = append(lines, line)
	}

	return lines, nil
}

// fetch makes an HTTP GET request with the browser header set and parses the envelope
func (c *Client) fetch(ctx context.Context, url string) (*statsResponse, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	for k, v := range statsHeaders {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("NBA stats API error: status=%d, body=%s", resp.StatusCode, string(body))
	}

	var result statsResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return &result, nil
}

// playerResultSet picks the player-level set from a box score response.
// Falls back to the first set when no name matches.
func playerResultSet(sets []resultSet) resultSet {
	for _, s := range sets {
		if strings.Contains(strings.ToLower(s.Name), "player") {
			return s
		}
	}
	return sets[0]
}

// columnIndex finds a column by case-insensitive header name, -1 if absent
func columnIndex(headers []string, name string) int {
	for i, h := range headers {
		if strings.EqualFold(h, name) {
			return i
		}
	}
	return -1
}

// cellString reads a string cell, tolerating missing columns
func cellString(row []interface{}, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	if s, ok := row[idx].(string); ok {
		return s
	}
	return ""
}

// cellFloat reads a numeric cell from interface{}
func cellFloat(row []interface{}, idx int) float64 {
	if idx < 0 || idx >= len(row) {
		return 0.0
	}
	switch val := row[idx].(type) {
	case float64:
		return val
	case string:
		f, _ := strconv.ParseFloat(val, 64)
		return f
	case int:
		return float64(val)
	default:
		return 0.0
	}
}

// cellInt reads an integer cell from interface{}
func cellInt(row []interface{}, idx int) int {
	if idx < 0 || idx >= len(row) {
		return 0
	}
	switch val := row[idx].(type) {
	case float64:
		return int(val)
	case string:
		i, _ := strconv.Atoi(val)
		return i
	case int:
		return val
	default:
		return 0
	}
}
