package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Stattrackrr/stattrackr/internal/dvp"
)

// metricAliases maps friendly stat names to provider metric abbreviations
var metricAliases = map[string]string{
	"points":   "pts",
	"rebounds": "reb",
	"assists":  "ast",
	"threes":   "fg3m",
	"steals":   "stl",
	"blocks":   "blk",
}

// DefenseRanker computes ranked defense-vs-position tables
type DefenseRanker interface {
	Rankings(ctx context.Context, metric, bucket string, games int) ([]dvp.TeamRank, error)
}

// RankingStore caches ranked defense tables
type RankingStore interface {
	ReadDefenseRankings(ctx context.Context, metric, bucket string) ([]dvp.TeamRank, error)
	WriteDefenseRankings(ctx context.Context, metric, bucket string, ranks []dvp.TeamRank) error
}

// DvPHandler serves defense-vs-position rankings
type DvPHandler struct {
	ranker DefenseRanker
	store  RankingStore
}

// NewDvPHandler creates a new defense-vs-position handler
func NewDvPHandler(ranker DefenseRanker, store RankingStore) *DvPHandler {
	return &DvPHandler{
		ranker: ranker,
		store:  store,
	}
}

// GetRankings ranks all teams by the average of one stat allowed to one
// position bucket. Rankings for the default game window are cached.
// Query params: stat, position, games
func (h *DvPHandler) GetRankings(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
	defer cancel()

	stat := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("stat")))
	if stat == "" {
		respondFieldError(w, "stat", "stat query parameter is required")
		return
	}
	metric, ok := metricAliases[stat]
	if !ok {
		if !dvp.ValidMetric(stat) {
			respondFieldError(w, "stat", fmt.Sprintf("unknown stat: %s", stat))
			return
		}
		metric = stat
	}

	position := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("position")))
	if position == "" {
		respondFieldError(w, "position", "position query parameter is required")
		return
	}

	games := parseIntParam(r, "games", dvp.DefaultGames)

	// Only the default window is cached; custom windows always recompute
	cacheable := games == dvp.DefaultGames
	if cacheable {
		ranks, err := h.store.ReadDefenseRankings(ctx, metric, position)
		if err != nil {
			fmt.Printf("⚠️  rankings cache read failed: %v\n", err)
		} else if ranks != nil {
			h.respondRankings(w, metric, position, games, ranks, true)
			return
		}
	}

	ranks, err := h.ranker.Rankings(ctx, metric, position, games)
	if err != nil {
		if strings.Contains(err.Error(), "invalid") {
			respondFieldError(w, "position", err.Error())
			return
		}
		respondError(w, http.StatusBadGateway, "stats provider unavailable", err)
		return
	}

	if cacheable {
		if err := h.store.WriteDefenseRankings(ctx, metric, position, ranks); err != nil {
			fmt.Printf("⚠️  rankings cache write failed: %v\n", err)
		}
	}

	h.respondRankings(w, metric, position, games, ranks, false)
}

func (h *DvPHandler) respondRankings(w http.ResponseWriter, metric, position string, games int, ranks []dvp.TeamRank, cached bool) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"metric":   metric,
		"position": position,
		"games":    games,
		"cached":   cached,
		"rankings": ranks,
		"count":    len(ranks),
	})
}
