package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Stattrackrr/stattrackr/internal/dvp"
	"github.com/Stattrackrr/stattrackr/pkg/models"
)

// TTL constants
const (
	BoardTTL    = 5 * time.Minute
	DefenseTTL  = 6 * time.Hour
	ExtremesTTL = 24 * time.Hour
)

// Store handles reading and writing board data to Redis
type Store struct {
	client *redis.Client
}

// New creates a new cache store
func New(client *redis.Client) *Store {
	return &Store{
		client: client,
	}
}

// LineExtremes tracks the outermost prices seen for one bookmaker line,
// the baseline movement alerts compare against
type LineExtremes struct {
	MaxLine    float64   `json:"max_line"`
	MinLine    float64   `json:"min_line"`
	MaxOver    float64   `json:"max_over"`
	MinOver    float64   `json:"min_over"`
	LastSeenAt time.Time `json:"last_seen_at"`
}

func propBoardKey(playerName, statType string) string {
	return fmt.Sprintf("board:props:%s:%s", playerName, statType)
}

func gameBoardKey(team string) string {
	return fmt.Sprintf("board:games:%s", team)
}

func defenseKey(metric, bucket string) string {
	return fmt.Sprintf("dvp:%s:%s", metric, bucket)
}

func extremesKey(bookmaker, playerName, statType string) string {
	return fmt.Sprintf("extremes:%s:%s:%s", bookmaker, playerName, statType)
}

// WritePropBoard stores a classified player prop board
func (s *Store) WritePropBoard(ctx context.Context, board models.Board) error {
	data, err := json.Marshal(board)
	if err != nil {
		return fmt.Errorf("marshaling board: %w", err)
	}

	return s.client.Set(ctx, propBoardKey(board.PlayerName, board.StatType), data, BoardTTL).Err()
}

// ReadPropBoard loads a cached prop board, nil when the cache is cold
func (s *Store) ReadPropBoard(ctx context.Context, playerName, statType string) (*models.Board, error) {
	return s.readBoard(ctx, propBoardKey(playerName, statType))
}

// WriteGameBoards stores a team's classified game market boards
func (s *Store) WriteGameBoards(ctx context.Context, boards models.GameBoards) error {
	data, err := json.Marshal(boards)
	if err != nil {
		return fmt.Errorf("marshaling boards: %w", err)
	}

	return s.client.Set(ctx, gameBoardKey(boards.Team), data, BoardTTL).Err()
}

// ReadGameBoards loads a team's cached game boards, nil when cold
func (s *Store) ReadGameBoards(ctx context.Context, team string) (*models.GameBoards, error) {
	data, err := s.client.Get(ctx, gameBoardKey(team)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading boards: %w", err)
	}

	var boards models.GameBoards
	if err := json.Unmarshal([]byte(data), &boards); err != nil {
		return nil, fmt.Errorf("unmarshaling boards: %w", err)
	}

	return &boards, nil
}

func (s *Store) readBoard(ctx context.Context, key string) (*models.Board, error) {
	data, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading board: %w", err)
	}

	var board models.Board
	if err := json.Unmarshal([]byte(data), &board); err != nil {
		return nil, fmt.Errorf("unmarshaling board: %w", err)
	}

	return &board, nil
}

// WriteDefenseRankings stores a ranked defense table
func (s *Store) WriteDefenseRankings(ctx context.Context, metric, bucket string, ranks []dvp.TeamRank) error {
	data, err := json.Marshal(ranks)
	if err != nil {
		return fmt.Errorf("marshaling rankings: %w", err)
	}

	return s.client.Set(ctx, defenseKey(metric, bucket), data, DefenseTTL).Err()
}

// ReadDefenseRankings loads cached defense rankings, nil when cold
func (s *Store) ReadDefenseRankings(ctx context.Context, metric, bucket string) ([]dvp.TeamRank, error) {
	data, err := s.client.Get(ctx, defenseKey(metric, bucket)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading rankings: %w", err)
	}

	var ranks []dvp.TeamRank
	if err := json.Unmarshal([]byte(data), &ranks); err != nil {
		return nil, fmt.Errorf("unmarshaling rankings: %w", err)
	}

	return ranks, nil
}

// ReadExtremes loads the stored extremes for one bookmaker line, nil when unseen
func (s *Store) ReadExtremes(ctx context.Context, bookmaker, playerName, statType string) (*LineExtremes, error) {
	data, err := s.client.Get(ctx, extremesKey(bookmaker, playerName, statType)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading extremes: %w", err)
	}

	var extremes LineExtremes
	if err := json.Unmarshal([]byte(data), &extremes); err != nil {
		return nil, fmt.Errorf("unmarshaling extremes: %w", err)
	}

	return &extremes, nil
}

// WriteExtremes stores updated extremes for one bookmaker line
func (s *Store) WriteExtremes(ctx context.Context, bookmaker, playerName, statType string, extremes LineExtremes) error {
	data, err := json.Marshal(extremes)
	if err != nil {
		return fmt.Errorf("marshaling extremes: %w", err)
	}

	return s.client.Set(ctx, extremesKey(bookmaker, playerName, statType), data, ExtremesTTL).Err()
}
