// Package dvp computes defense-versus-position aggregates: how much of
// each stat a team's defense has allowed to opposing players, grouped by
// position bucket.
package dvp

import (
	"context"
	"fmt"
	"sort"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/Stattrackrr/stattrackr/pkg/contracts"
	"github.com/Stattrackrr/stattrackr/pkg/models"
)

// Metrics lists the tracked stat columns, keyed by provider abbreviation
var Metrics = []string{"pts", "reb", "ast", "fg3m", "stl", "blk"}

const (
	MinGames     = 1
	MaxGames     = 50
	DefaultGames = 10
)

// GameLogProvider supplies season game logs and per-game box scores
type GameLogProvider interface {
	TeamGameLog(ctx context.Context, teamID int, season string) ([]string, error)
	BoxScore(ctx context.Context, gameID string) ([]models.PlayerGameLine, error)
}

// DepthChartProvider supplies position bucket -> player name listings
type DepthChartProvider interface {
	FetchTeam(ctx context.Context, teamAbbr string) (map[string][]string, error)
}

// TeamDefense aggregates what one team's defense allowed by position bucket
type TeamDefense struct {
	Team    string                        `json:"team"`
	Season  string                        `json:"season"`
	Games   int                           `json:"games"`
	Totals  map[string]map[string]float64 `json:"totals"`
	PerGame map[string]map[string]float64 `json:"per_game"`
}

// TeamRank is one row of a ranked defense table.
// Rank 1 allows the most of the metric, the softest matchup for overs.
type TeamRank struct {
	Rank    int     `json:"rank"`
	Team    string  `json:"team"`
	Allowed float64 `json:"allowed"`
	Games   int     `json:"games"`
}

// Aggregator walks recent box scores and buckets opponent production by position
type Aggregator struct {
	stats GameLogProvider
	depth DepthChartProvider
	sport contracts.SportModule
	clock clockwork.Clock
}

// New creates a new aggregator
func New(stats GameLogProvider, depth DepthChartProvider, sport contracts.SportModule, clock clockwork.Clock) *Aggregator {
	return &Aggregator{
		stats: stats,
		depth: depth,
		sport: sport,
		clock: clock,
	}
}

// ValidMetric reports whether name is a tracked metric
func ValidMetric(name string) bool {
	for _, m := range Metrics {
		if m == name {
			return true
		}
	}
	return false
}

// ComputeTeam aggregates a team's recent defensive numbers for the current
// season. Early in a season, before the team has processed games, it falls
// back to the previous season's schedule.
func (a *Aggregator) ComputeTeam(ctx context.Context, teamAbbr string, games int) (*TeamDefense, error) {
	if games < MinGames {
		games = MinGames
	}
	if games > MaxGames {
		games = MaxGames
	}

	teamID, ok := a.sport.GetTeamID(teamAbbr)
	if !ok {
		return nil, fmt.Errorf("unknown team abbreviation: %s", teamAbbr)
	}

	now := a.clock.Now()
	season := a.sport.SeasonLabel(now)

	defense, err := a.computeSeason(ctx, teamAbbr, teamID, season, games)
	if err != nil {
		return nil, err
	}

	if defense.Games == 0 {
		prev := a.sport.PreviousSeasonLabel(now)
		log.Info().
			Str("team", teamAbbr).
			Str("season", season).
			Str("fallback", prev).
			Msg("no processed games this season, using previous season")

		defense, err = a.computeSeason(ctx, teamAbbr, teamID, prev, games)
		if err != nil {
			return nil, err
		}
	}

	return defense, nil
}

// Rankings computes per-game allowed numbers for every team and ranks them
// descending, most generous defense first.
func (a *Aggregator) Rankings(ctx context.Context, metric, bucket string, games int) ([]TeamRank, error) {
	if !ValidMetric(metric) {
		return nil, fmt.Errorf("unknown metric: %s", metric)
	}
	if !validBucket(a.sport.PositionBuckets(), bucket) {
		return nil, fmt.Errorf("unknown position bucket: %s", bucket)
	}

	ranks := make([]TeamRank, 0, len(a.sport.TeamAbbreviations()))
	for _, team := range a.sport.TeamAbbreviations() {
		defense, err := a.ComputeTeam(ctx, team, games)
		if err != nil {
			log.Warn().Err(err).Str("team", team).Msg("skipping team in rankings")
			continue
		}
		if defense.Games == 0 {
			continue
		}
		ranks = append(ranks, TeamRank{
			Team:    team,
			Allowed: defense.PerGame[bucket][metric],
			Games:   defense.Games,
		})
	}

	sort.SliceStable(ranks, func(i, j int) bool {
		return ranks[i].Allowed > ranks[j].Allowed
	})
	for i := range ranks {
		ranks[i].Rank = i + 1
	}

	return ranks, nil
}

// computeSeason runs the aggregation for one season's schedule.
// Individual game failures are logged and skipped, they do not abort the run.
func (a *Aggregator) computeSeason(ctx context.Context, teamAbbr string, teamID int, season string, games int) (*TeamDefense, error) {
	gameIDs, err := a.stats.TeamGameLog(ctx, teamID, season)
	if err != nil {
		return nil, fmt.Errorf("fetching game log for %s: %w", teamAbbr, err)
	}
	if len(gameIDs) > games {
		gameIDs = gameIDs[:games]
	}

	buckets := a.sport.PositionBuckets()
	totals := newBucketTable(buckets)
	processed := 0
	depthCache := make(map[string]map[string]string)

	for _, gameID := range gameIDs {
		lines, err := a.stats.BoxScore(ctx, gameID)
		if err != nil {
			log.Warn().Err(err).Str("game_id", gameID).Msg("skipping box score")
			continue
		}

		opponents := opponentLines(lines, teamID)
		if len(opponents) == 0 {
			continue
		}

		oppAbbr := opponents[0].TeamAbbr
		positions, ok := depthCache[oppAbbr]
		if !ok {
			positions = a.positionMap(ctx, oppAbbr)
			depthCache[oppAbbr] = positions
		}

		for _, line := range opponents {
			if emptyLine(line) {
				continue
			}

			bucket := positions[a.sport.NormalizePlayerName(line.PlayerName)]
			if bucket == "" {
				bucket = a.sport.AssignBucket(line.StartPosition, contracts.StatLine{
					Points:   line.Points,
					Rebounds: line.Rebounds,
					Assists:  line.Assists,
					Blocks:   line.Blocks,
				})
			}

			for _, m := range Metrics {
				totals[bucket][m] += line.Metric(m)
			}
		}
		processed++
	}

	defense := &TeamDefense{
		Team:    teamAbbr,
		Season:  season,
		Games:   processed,
		Totals:  totals,
		PerGame: newBucketTable(buckets),
	}
	if processed > 0 {
		for bucket, metrics := range totals {
			for m, total := range metrics {
				defense.PerGame[bucket][m] = total / float64(processed)
			}
		}
	}

	return defense, nil
}

// positionMap builds normalized player name -> bucket from the depth chart.
// A failed fetch degrades to an empty map, leaving the stat heuristic to
// assign every bucket.
func (a *Aggregator) positionMap(ctx context.Context, teamAbbr string) map[string]string {
	positions := make(map[string]string)

	chart, err := a.depth.FetchTeam(ctx, teamAbbr)
	if err != nil {
		log.Warn().Err(err).Str("team", teamAbbr).Msg("depth chart unavailable, using stat heuristic")
		return positions
	}

	valid := a.sport.PositionBuckets()
	for bucket, names := range chart {
		if !validBucket(valid, bucket) {
			continue
		}
		for _, name := range names {
			positions[a.sport.NormalizePlayerName(name)] = bucket
		}
	}

	return positions
}

func opponentLines(lines []models.PlayerGameLine, teamID int) []models.PlayerGameLine {
	opponents := make([]models.PlayerGameLine, 0, len(lines))
	for _, line := range lines {
		if line.TeamID != teamID && line.TeamID != 0 {
			opponents = append(opponents, line)
		}
	}
	return opponents
}

// emptyLine reports whether every tracked metric is zero, a DNP row
func emptyLine(line models.PlayerGameLine) bool {
	for _, m := range Metrics {
		if line.Metric(m) != 0 {
			return false
		}
	}
	return true
}

func newBucketTable(buckets []string) map[string]map[string]float64 {
	table := make(map[string]map[string]float64, len(buckets))
	for _, b := range buckets {
		table[b] = make(map[string]float64, len(Metrics))
		for _, m := range Metrics {
			table[b][m] = 0.0
		}
	}
	return table
}

func validBucket(buckets []string, bucket string) bool {
	for _, b := range buckets {
		if b == bucket {
			return true
		}
	}
	return false
}
