package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Stattrackrr/stattrackr/internal/poller"
	"github.com/Stattrackrr/stattrackr/pkg/models"
)

// QuoteFetcher supplies raw bookmaker quotes for cache misses
type QuoteFetcher interface {
	FetchPropQuotes(ctx context.Context, playerName, statType string) ([]models.Quote, error)
	FetchGameQuotes(ctx context.Context, team string) ([]models.Quote, error)
}

// BoardStore reads and writes classified board snapshots
type BoardStore interface {
	ReadPropBoard(ctx context.Context, playerName, statType string) (*models.Board, error)
	WritePropBoard(ctx context.Context, board models.Board) error
	ReadGameBoards(ctx context.Context, team string) (*models.GameBoards, error)
	WriteGameBoards(ctx context.Context, boards models.GameBoards) error
}

// BoardHandler serves classified odds boards, cache-first
type BoardHandler struct {
	store  BoardStore
	quotes QuoteFetcher
}

// NewBoardHandler creates a new board handler
func NewBoardHandler(store BoardStore, quotes QuoteFetcher) *BoardHandler {
	return &BoardHandler{
		store:  store,
		quotes: quotes,
	}
}

// GetPropBoard returns the classified player-prop board for one player/stat.
// Query params: player, stat
func (h *BoardHandler) GetPropBoard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	player := strings.TrimSpace(r.URL.Query().Get("player"))
	stat := strings.TrimSpace(r.URL.Query().Get("stat"))
	if player == "" {
		respondFieldError(w, "player", "player query parameter is required")
		return
	}
	if stat == "" {
		respondFieldError(w, "stat", "stat query parameter is required")
		return
	}

	board, err := h.store.ReadPropBoard(ctx, player, stat)
	if err != nil {
		// Degrade to a provider fetch when the cache is unreachable
		fmt.Printf("⚠️  board cache read failed: %v\n", err)
		board = nil
	}

	if board == nil {
		quotes, err := h.quotes.FetchPropQuotes(ctx, player, stat)
		if err != nil {
			respondError(w, http.StatusBadGateway, "odds provider unavailable", err)
			return
		}

		fresh := poller.BuildPropBoard(player, stat, quotes, time.Now().UTC())
		if err := h.store.WritePropBoard(ctx, fresh); err != nil {
			fmt.Printf("⚠️  board cache write failed: %v\n", err)
		}
		board = &fresh
	}

	respondJSON(w, http.StatusOK, board)
}

// GetGameBoards returns the moneyline and spread boards for a team's next game.
// Query params: team
func (h *BoardHandler) GetGameBoards(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	team := strings.TrimSpace(r.URL.Query().Get("team"))
	if team == "" {
		respondFieldError(w, "team", "team query parameter is required")
		return
	}

	boards, err := h.store.ReadGameBoards(ctx, team)
	if err != nil {
		fmt.Printf("⚠️  board cache read failed: %v\n", err)
		boards = nil
	}

	if boards == nil {
		quotes, err := h.quotes.FetchGameQuotes(ctx, team)
		if err != nil {
			respondError(w, http.StatusBadGateway, "odds provider unavailable", err)
			return
		}

		fresh := poller.BuildGameBoards(team, quotes, time.Now().UTC())
		if err := h.store.WriteGameBoards(ctx, fresh); err != nil {
			fmt.Printf("⚠️  board cache write failed: %v\n", err)
		}
		boards = &fresh
	}

	respondJSON(w, http.StatusOK, boards)
}
