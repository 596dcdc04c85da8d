package injuries

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/Stattrackrr/stattrackr/pkg/models"
)

// Client fetches injury reports from the companion app backend
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// New creates a new injury report client
func New(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: baseURL,
	}
}

type reportResponse struct {
	Injuries []models.InjuryRecord `json:"injuries"`
}

// FetchTeam fetches the current injury report for a team.
// Return dates come back raw; display formatting happens at the API layer.
func (c *Client) FetchTeam(ctx context.Context, team string) ([]models.InjuryRecord, error) {
	u := fmt.Sprintf("%s/api/injuries?team=%s", c.baseURL, url.QueryEscape(team))

	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
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
		return nil, fmt.Errorf("injury API error: status=%d, body=%s", resp.StatusCode, string(body))
	}

	var result reportResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return result.Injuries, nil
}
