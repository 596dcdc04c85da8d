package alerts

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/Stattrackrr/stattrackr/pkg/models"
)

// Deduper suppresses repeat alerts for the same movement identity
type Deduper interface {
	ShouldAlert(ctx context.Context, identity string) (bool, error)
}

// Limiter caps the overall alert send rate
type Limiter interface {
	AllowAlert(ctx context.Context) (bool, error)
}

// Notifier delivers formatted alert messages
type Notifier interface {
	Enqueue(text string) bool
}

// Service runs the movement pipeline for every board update:
// detect, filter, dedup, rate limit, notify
type Service struct {
	detector *Detector
	filter   *Filter
	dedup    Deduper
	limiter  Limiter
	notifier Notifier
}

// NewService creates a new alert service
func NewService(detector *Detector, filter *Filter, dedup Deduper, limiter Limiter, notifier Notifier) *Service {
	return &Service{
		detector: detector,
		filter:   filter,
		dedup:    dedup,
		limiter:  limiter,
		notifier: notifier,
	}
}

// HandleBoard processes one board update from the stream
func (s *Service) HandleBoard(ctx context.Context, board models.Board) {
	movements := s.detector.Inspect(ctx, board)

	for _, m := range movements {
		if ok, reason := s.filter.ShouldAlert(m); !ok {
			log.Debug().Str("identity", m.Identity()).Str("reason", reason).Msg("movement filtered")
			continue
		}

		fresh, err := s.dedup.ShouldAlert(ctx, m.Identity())
		if err != nil {
			log.Warn().Err(err).Str("identity", m.Identity()).Msg("dedup check failed")
			continue
		}
		if !fresh {
			log.Debug().Str("identity", m.Identity()).Msg("movement already alerted")
			continue
		}

		allowed, err := s.limiter.AllowAlert(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("rate limit check failed")
			continue
		}
		if !allowed {
			log.Warn().Str("identity", m.Identity()).Msg("alert rate limited")
			continue
		}

		if !s.notifier.Enqueue(FormatMovement(m)) {
			log.Warn().Str("identity", m.Identity()).Msg("notifier queue full, alert dropped")
		}
	}
}

// FormatMovement renders a movement as a Telegram Markdown message
func FormatMovement(m LineMovement) string {
	arrow := "📈"
	if m.Direction == DirectionDown {
		arrow = "📉"
	}

	// statType carries the market name for game boards, so this reads
	// "Jayson Tatum points" or "BOS moneyline"
	subject := fmt.Sprintf("%s %s", m.Subject, m.StatType)

	text := fmt.Sprintf("%s *Line move: %s* (%s)\n", arrow, subject, m.Bookmaker)
	if m.LineDelta > 0 {
		text += fmt.Sprintf("Line %.1f → %.1f (Δ%.1f)\n", m.PrevLine, m.NewLine, m.LineDelta)
	}
	if m.PriceMovePct > 0 {
		text += fmt.Sprintf("Price %.2f → %.2f (%.1f%%)\n", m.PrevPrice, m.NewPrice, m.PriceMovePct)
	}

	return text
}
