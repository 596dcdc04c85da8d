package depthchart

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client fetches team depth charts from the companion app backend
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// New creates a new depth chart client
func New(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: baseURL,
	}
}

// chartResponse tolerates both plain-string and object player entries
type chartResponse struct {
	DepthChart map[string][]json.RawMessage `json:"depthChart"`
}

type playerEntry struct {
	Name string `json:"name"`
}

// FetchTeam fetches a team's depth chart as position bucket -> player names.
// Entries the backend sends as objects are unwrapped to their name field.
func (c *Client) FetchTeam(ctx context.Context, teamAbbr string) (map[string][]string, error) {
	url := fmt.Sprintf("%s/api/depth-chart?team=%s", c.baseURL, teamAbbr)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("depth chart API error: status=%d, body=%s", resp.StatusCode, string(body))
	}

	var result chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	chart := make(map[string][]string, len(result.DepthChart))
	for bucket, entries := range result.DepthChart {
		names := make([]string, 0, len(entries))
		for _, raw := range entries {
			if name := entryName(raw); name != "" {
				names = append(names, name)
			}
		}
		chart[bucket] = names
	}

	return chart, nil
}

// entryName extracts a player name from either a JSON string or object entry
func entryName(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var obj playerEntry
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj.Name
	}

	return ""
}
