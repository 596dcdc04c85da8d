package publisher

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/Stattrackrr/stattrackr/pkg/models"
)

const (
	// BoardStream carries every classified board refresh
	BoardStream = "board.updates"

	// streamMaxLen caps retained entries, trimmed approximately
	streamMaxLen = 10000
)

// StreamPublisher publishes board updates to Redis streams
type StreamPublisher struct {
	client *redis.Client
}

// NewStreamPublisher creates a new stream publisher
func NewStreamPublisher(client *redis.Client) *StreamPublisher {
	return &StreamPublisher{
		client: client,
	}
}

// PublishBoardUpdate publishes a classified board to the board stream
func (p *StreamPublisher) PublishBoardUpdate(ctx context.Context, board models.Board) error {
	data, err := json.Marshal(board)
	if err != nil {
		return fmt.Errorf("marshaling board update: %w", err)
	}

	return p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: BoardStream,
		MaxLen: streamMaxLen,
		Approx: true,
		Values: map[string]interface{}{
			"data":   string(data),
			"key":    board.Key(),
			"market": string(board.Market),
		},
	}).Err()
}
