package oddsboard

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/Stattrackrr/stattrackr/pkg/models"
	"github.com/Stattrackrr/stattrackr/pkg/oddsmath"
)

// Client fetches raw odds quotes from the companion app backend
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// New creates a new odds board client
func New(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: baseURL,
	}
}

// propRow is the wire shape for a player prop quote.
// Prices arrive in the format the row declares and are converted on ingestion.
type propRow struct {
	Bookmaker    string   `json:"bookmaker"`
	PlayerName   string   `json:"player_name"`
	StatType     string   `json:"stat_type"`
	Line         float64  `json:"line"`
	OverPrice    float64  `json:"over_price"`
	UnderPrice   float64  `json:"under_price"`
	Format       string   `json:"format"`
	Pickem       bool     `json:"pickem,omitempty"`
	VariantLabel string   `json:"variant_label,omitempty"`
	Multiplier   *float64 `json:"multiplier,omitempty"`
	GoblinCount  *int     `json:"goblin_count,omitempty"`
	DemonCount   *int     `json:"demon_count,omitempty"`
}

// gameRow is the wire shape for a moneyline or spread quote
type gameRow struct {
	Bookmaker      string  `json:"bookmaker"`
	Market         string  `json:"market"`
	HomeTeam       string  `json:"home_team,omitempty"`
	AwayTeam       string  `json:"away_team,omitempty"`
	HomeOdds       float64 `json:"home_odds,omitempty"`
	AwayOdds       float64 `json:"away_odds,omitempty"`
	FavoriteTeam   string  `json:"favorite_team,omitempty"`
	UnderdogTeam   string  `json:"underdog_team,omitempty"`
	FavoriteSpread float64 `json:"favorite_spread,omitempty"`
	UnderdogSpread float64 `json:"underdog_spread,omitempty"`
	FavoriteOdds   float64 `json:"favorite_odds,omitempty"`
	UnderdogOdds   float64 `json:"underdog_odds,omitempty"`
	Format         string  `json:"format"`
}

type propsResponse struct {
	Quotes []propRow `json:"quotes"`
}

type gamesResponse struct {
	Quotes []gameRow `json:"quotes"`
}

// FetchPropQuotes fetches all bookmaker quotes for one player stat.
// Rows whose prices fail format conversion come back with zeroed prices
// so the classifier counts them as dropped.
func (c *Client) FetchPropQuotes(ctx context.Context, playerName, statType string) ([]models.Quote, error) {
	u := fmt.Sprintf("%s/api/odds/props?player=%s&stat=%s", c.baseURL, url.QueryEscape(playerName), url.QueryEscape(statType))

	var result propsResponse
	if err := c.fetch(ctx, u, &result); err != nil {
		return nil, err
	}

	quotes := make([]models.Quote, 0, len(result.Quotes))
	for _, row := range result.Quotes {
		quotes = append(quotes, row.toQuote())
	}

	return quotes, nil
}

// FetchGameQuotes fetches moneyline and spread quotes for one team's game
func (c *Client) FetchGameQuotes(ctx context.Context, team string) ([]models.Quote, error) {
	u := fmt.Sprintf("%s/api/odds/games?team=%s", c.baseURL, url.QueryEscape(team))

	var result gamesResponse
	if err := c.fetch(ctx, u, &result); err != nil {
		return nil, err
	}

	quotes := make([]models.Quote, 0, len(result.Quotes))
	for _, row := range result.Quotes {
		q, ok := row.toQuote()
		if !ok {
			continue
		}
		quotes = append(quotes, q)
	}

	return quotes, nil
}

func (r propRow) toQuote() models.Quote {
	prop := models.PropQuote{
		Bookmaker:    r.Bookmaker,
		PlayerName:   r.PlayerName,
		StatType:     r.StatType,
		Line:         r.Line,
		OverPrice:    toDecimalOrZero(r.OverPrice, r.Format),
		UnderPrice:   toDecimalOrZero(r.UnderPrice, r.Format),
		Pickem:       r.Pickem,
		VariantLabel: r.VariantLabel,
		Multiplier:   r.Multiplier,
		GoblinCount:  r.GoblinCount,
		DemonCount:   r.DemonCount,
	}

	if r.StatType == "total" {
		return models.NewTotalQuote(prop)
	}
	return models.NewPlayerPropQuote(prop)
}

func (r gameRow) toQuote() (models.Quote, bool) {
	switch models.MarketType(r.Market) {
	case models.MarketMoneyline:
		return models.NewMoneylineQuote(models.MoneylineQuote{
			Bookmaker: r.Bookmaker,
			HomeTeam:  r.HomeTeam,
			AwayTeam:  r.AwayTeam,
			HomeOdds:  toDecimalOrZero(r.HomeOdds, r.Format),
			AwayOdds:  toDecimalOrZero(r.AwayOdds, r.Format),
		}), true
	case models.MarketSpread:
		return models.NewSpreadQuote(models.SpreadQuote{
			Bookmaker:      r.Bookmaker,
			FavoriteTeam:   r.FavoriteTeam,
			UnderdogTeam:   r.UnderdogTeam,
			FavoriteSpread: r.FavoriteSpread,
			UnderdogSpread: r.UnderdogSpread,
			FavoriteOdds:   toDecimalOrZero(r.FavoriteOdds, r.Format),
			UnderdogOdds:   toDecimalOrZero(r.UnderdogOdds, r.Format),
		}), true
	default:
		return models.Quote{}, false
	}
}

// toDecimalOrZero converts a price to decimal. Unconvertible values become
// 0.0, which quote validation rejects downstream.
func toDecimalOrZero(price float64, format string) float64 {
	f, err := oddsmath.ParseFormat(format)
	if err != nil {
		return 0.0
	}
	d, err := oddsmath.ToDecimal(price, f)
	if err != nil {
		return 0.0
	}
	return d
}

// fetch makes an HTTP GET request and decodes the JSON body into out
func (c *Client) fetch(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("odds API error: status=%d, body=%s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}
