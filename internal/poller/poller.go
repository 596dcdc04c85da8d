// Package poller keeps the watched odds boards fresh: it refetches raw
// quotes on an interval, classifies them, and fans the results out to
// the cache and the board stream.
package poller

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/Stattrackrr/stattrackr/internal/classifier"
	"github.com/Stattrackrr/stattrackr/internal/config"
	"github.com/Stattrackrr/stattrackr/internal/retry"
	"github.com/Stattrackrr/stattrackr/pkg/models"
)

// QuoteProvider supplies raw quotes for watched markets
type QuoteProvider interface {
	FetchPropQuotes(ctx context.Context, playerName, statType string) ([]models.Quote, error)
	FetchGameQuotes(ctx context.Context, team string) ([]models.Quote, error)
}

// BoardStore caches classified boards for the API to serve
type BoardStore interface {
	WritePropBoard(ctx context.Context, board models.Board) error
	WriteGameBoards(ctx context.Context, boards models.GameBoards) error
}

// BoardPublisher pushes classified boards onto the update stream
type BoardPublisher interface {
	PublishBoardUpdate(ctx context.Context, board models.Board) error
}

// BoardPoller refreshes every watched board on a fixed interval
type BoardPoller struct {
	quotes    QuoteProvider
	store     BoardStore
	publisher BoardPublisher
	watch     *config.WatchConfig
	interval  time.Duration
	clock     clockwork.Clock
	retry     *retry.Policy
}

// New creates a new board poller
func New(
	quotes QuoteProvider,
	store BoardStore,
	pub BoardPublisher,
	watch *config.WatchConfig,
	interval time.Duration,
	clock clockwork.Clock,
) *BoardPoller {
	return &BoardPoller{
		quotes:    quotes,
		store:     store,
		publisher: pub,
		watch:     watch,
		interval:  interval,
		clock:     clock,
		retry:     retry.NewPolicy(3, 2*time.Second, clock),
	}
}

// Run starts the polling loop and blocks until the context is cancelled
func (p *BoardPoller) Run(ctx context.Context) {
	log.Info().
		Int("targets", p.watch.TargetCount()).
		Dur("interval", p.interval).
		Msg("board poller started")

	ticker := p.clock.NewTicker(p.interval)
	defer ticker.Stop()

	p.PollOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("board poller stopped")
			return
		case <-ticker.Chan():
			p.PollOnce(ctx)
		}
	}
}

// PollOnce refreshes every watched board a single time
func (p *BoardPoller) PollOnce(ctx context.Context) {
	for _, target := range p.watch.Props {
		for _, stat := range target.Stats {
			p.refreshPropBoard(ctx, target.Player, stat)
		}
	}

	for _, team := range p.watch.Teams {
		p.refreshGameBoards(ctx, team)
	}
}

func (p *BoardPoller) refreshPropBoard(ctx context.Context, playerName, statType string) {
	var quotes []models.Quote
	err := p.retry.Execute(ctx, func() error {
		var err error
		quotes, err = p.quotes.FetchPropQuotes(ctx, playerName, statType)
		return err
	})
	if err != nil {
		log.Error().Err(err).
			Str("player", playerName).
			Str("stat", statType).
			Msg("prop quote fetch failed")
		return
	}

	board := BuildPropBoard(playerName, statType, quotes, p.clock.Now().UTC())

	if err := p.store.WritePropBoard(ctx, board); err != nil {
		log.Warn().Err(err).Str("key", board.Key()).Msg("board cache write failed")
	}
	if err := p.publisher.PublishBoardUpdate(ctx, board); err != nil {
		log.Warn().Err(err).Str("key", board.Key()).Msg("board publish failed")
	}

	log.Debug().
		Str("key", board.Key()).
		Int("books", len(board.Books)).
		Int("dropped", board.Dropped).
		Msg("prop board refreshed")
}

func (p *BoardPoller) refreshGameBoards(ctx context.Context, team string) {
	var quotes []models.Quote
	err := p.retry.Execute(ctx, func() error {
		var err error
		quotes, err = p.quotes.FetchGameQuotes(ctx, team)
		return err
	})
	if err != nil {
		log.Error().Err(err).Str("team", team).Msg("game quote fetch failed")
		return
	}

	boards := BuildGameBoards(team, quotes, p.clock.Now().UTC())

	if err := p.store.WriteGameBoards(ctx, boards); err != nil {
		log.Warn().Err(err).Str("team", team).Msg("board cache write failed")
	}
	for _, board := range []*models.Board{boards.Moneyline, boards.Spread} {
		if board == nil {
			continue
		}
		if err := p.publisher.PublishBoardUpdate(ctx, *board); err != nil {
			log.Warn().Err(err).Str("key", board.Key()).Msg("board publish failed")
		}
	}

	log.Debug().Str("team", team).Msg("game boards refreshed")
}

// BuildPropBoard classifies one player/stat market into a board snapshot
func BuildPropBoard(playerName, statType string, quotes []models.Quote, fetchedAt time.Time) models.Board {
	board := classifier.BuildBoard(models.MarketPlayerProp, quotes)
	board.PlayerName = playerName
	board.StatType = statType
	board.FetchedAt = fetchedAt
	return board
}

// BuildGameBoards splits mixed game quotes by market and classifies each
// side separately. Markets with no surviving books stay nil.
func BuildGameBoards(team string, quotes []models.Quote, fetchedAt time.Time) models.GameBoards {
	var moneyline, spread []models.Quote
	for _, q := range quotes {
		switch q.Market {
		case models.MarketMoneyline:
			moneyline = append(moneyline, q)
		case models.MarketSpread:
			spread = append(spread, q)
		}
	}

	boards := models.GameBoards{
		Team:      team,
		FetchedAt: fetchedAt,
	}

	if len(moneyline) > 0 {
		b := classifier.BuildBoard(models.MarketMoneyline, moneyline)
		b.Team = team
		b.FetchedAt = fetchedAt
		boards.Moneyline = &b
	}
	if len(spread) > 0 {
		b := classifier.BuildBoard(models.MarketSpread, spread)
		b.Team = team
		b.FetchedAt = fetchedAt
		boards.Spread = &b
	}

	return boards
}
