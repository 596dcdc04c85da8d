// Package alerts watches classified board refreshes for line and price
// movement worth telling the user about.
package alerts

import (
	"context"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/Stattrackrr/stattrackr/internal/cache"
	"github.com/Stattrackrr/stattrackr/pkg/models"
)

// Movement directions
const (
	DirectionUp   = "up"
	DirectionDown = "down"
)

// LineMovement describes one bookmaker line breaking out of its seen range
type LineMovement struct {
	Market          models.MarketType `json:"market"`
	Bookmaker       string            `json:"bookmaker"`
	Subject         string            `json:"subject"`
	StatType        string            `json:"stat_type,omitempty"`
	PrevLine        float64           `json:"prev_line"`
	NewLine         float64           `json:"new_line"`
	LineDelta       float64           `json:"line_delta"`
	PrevPrice       float64           `json:"prev_price"`
	NewPrice        float64           `json:"new_price"`
	PriceMovePct    float64           `json:"price_move_pct"`
	Direction       string            `json:"direction"`
	DataAgeSeconds  int               `json:"data_age_seconds"`
	DetectedAt      time.Time         `json:"detected_at"`
}

// Identity returns the dedup identity of this movement
func (m LineMovement) Identity() string {
	return fmt.Sprintf("%s|%s|%s|%s|%s", m.Market, m.Bookmaker, m.Subject, m.StatType, m.Direction)
}

// ExtremesStore persists the outermost values seen per bookmaker line
type ExtremesStore interface {
	ReadExtremes(ctx context.Context, bookmaker, subject, statType string) (*cache.LineExtremes, error)
	WriteExtremes(ctx context.Context, bookmaker, subject, statType string, extremes cache.LineExtremes) error
}

// Detector compares fresh boards against stored extremes
type Detector struct {
	store ExtremesStore
	clock clockwork.Clock
}

// NewDetector creates a new movement detector
func NewDetector(store ExtremesStore, clock clockwork.Clock) *Detector {
	return &Detector{
		store: store,
		clock: clock,
	}
}

// Inspect checks every primary line on a board against its stored extremes
// and returns the movements that broke out of the seen range. First sight
// of a line only records the baseline.
func (d *Detector) Inspect(ctx context.Context, board models.Board) []LineMovement {
	var movements []LineMovement

	subject, statType := boardSubject(board)
	dataAge := int(d.clock.Now().UTC().Sub(board.FetchedAt).Seconds())
	if board.FetchedAt.IsZero() {
		dataAge = 0
	}

	for _, book := range board.Books {
		if book.Primary == nil {
			continue
		}

		line := book.Primary.Line()
		price := primaryPrice(*book.Primary)

		prev, err := d.store.ReadExtremes(ctx, book.Bookmaker, subject, statType)
		if err != nil {
			log.Warn().Err(err).Str("bookmaker", book.Bookmaker).Msg("extremes read failed")
			continue
		}

		if prev == nil {
			baseline := cache.LineExtremes{
				MaxLine:    line,
				MinLine:    line,
				MaxOver:    price,
				MinOver:    price,
				LastSeenAt: board.FetchedAt,
			}
			if err := d.store.WriteExtremes(ctx, book.Bookmaker, subject, statType, baseline); err != nil {
				log.Warn().Err(err).Str("bookmaker", book.Bookmaker).Msg("extremes write failed")
			}
			continue
		}

		movement := compare(*prev, line, price)
		next := expand(*prev, line, price, board.FetchedAt)
		if err := d.store.WriteExtremes(ctx, book.Bookmaker, subject, statType, next); err != nil {
			log.Warn().Err(err).Str("bookmaker", book.Bookmaker).Msg("extremes write failed")
		}

		if movement == nil {
			continue
		}

		movement.Market = board.Market
		movement.Bookmaker = book.Bookmaker
		movement.Subject = subject
		movement.StatType = statType
		movement.DataAgeSeconds = dataAge
		movement.DetectedAt = d.clock.Now().UTC()
		movements = append(movements, *movement)
	}

	return movements
}

// compare reports a movement when the new values escape the stored band
func compare(prev cache.LineExtremes, line, price float64) *LineMovement {
	m := &LineMovement{
		NewLine:  line,
		NewPrice: price,
	}

	moved := false
	switch {
	case line > prev.MaxLine:
		m.PrevLine = prev.MaxLine
		m.LineDelta = line - prev.MaxLine
		m.Direction = DirectionUp
		moved = true
	case line < prev.MinLine:
		m.PrevLine = prev.MinLine
		m.LineDelta = prev.MinLine - line
		m.Direction = DirectionDown
		moved = true
	default:
		m.PrevLine = line
	}

	switch {
	case prev.MaxOver > 0 && price > prev.MaxOver:
		m.PrevPrice = prev.MaxOver
		m.PriceMovePct = (price - prev.MaxOver) / prev.MaxOver * 100
		if m.Direction == "" {
			m.Direction = DirectionUp
		}
		moved = true
	case prev.MinOver > 0 && price < prev.MinOver:
		m.PrevPrice = prev.MinOver
		m.PriceMovePct = (prev.MinOver - price) / prev.MinOver * 100
		if m.Direction == "" {
			m.Direction = DirectionDown
		}
		moved = true
	default:
		m.PrevPrice = price
	}

	if !moved {
		return nil
	}
	return m
}

// expand widens the stored band to include the new observation
func expand(prev cache.LineExtremes, line, price float64, seenAt time.Time) cache.LineExtremes {
	next := prev
	if line > next.MaxLine {
		next.MaxLine = line
	}
	if line < next.MinLine {
		next.MinLine = line
	}
	if price > next.MaxOver {
		next.MaxOver = price
	}
	if price < next.MinOver {
		next.MinOver = price
	}
	next.LastSeenAt = seenAt
	return next
}

// boardSubject picks the identity strings for extremes keys
func boardSubject(board models.Board) (subject, statType string) {
	if board.Market == models.MarketPlayerProp {
		return board.PlayerName, board.StatType
	}
	return board.Team, string(board.Market)
}

// primaryPrice extracts the comparable price of a primary quote: the over
// side for props and totals, the home or favorite side for game markets
func primaryPrice(q models.Quote) float64 {
	switch q.Market {
	case models.MarketMoneyline:
		return q.Moneyline.HomeOdds
	case models.MarketSpread:
		return q.Spread.FavoriteOdds
	default:
		return q.Prop.OverPrice
	}
}
