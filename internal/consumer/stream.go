package consumer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/Stattrackrr/stattrackr/internal/publisher"
	"github.com/Stattrackrr/stattrackr/pkg/models"
)

const (
	// Batch size for reading messages
	batchSize = 100

	// Block duration when waiting for new messages
	blockDuration = 1 * time.Second
)

// Handler receives each decoded board update
type Handler func(ctx context.Context, board models.Board)

// StreamConsumer consumes board updates from Redis Streams
type StreamConsumer struct {
	redis    *redis.Client
	group    string
	consumer string
	handler  Handler
}

// NewStreamConsumer creates a new stream consumer
func NewStreamConsumer(redisClient *redis.Client, group, consumer string, handler Handler) *StreamConsumer {
	return &StreamConsumer{
		redis:    redisClient,
		group:    group,
		consumer: consumer,
		handler:  handler,
	}
}

// Start consumes the board stream until the context is cancelled
func (sc *StreamConsumer) Start(ctx context.Context) error {
	sc.createConsumerGroup(ctx)

	log.Info().
		Str("stream", publisher.BoardStream).
		Str("group", sc.group).
		Msg("stream consumer started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			streams, err := sc.redis.XReadGroup(ctx, &redis.XReadGroupArgs{
				Group:    sc.group,
				Consumer: sc.consumer,
				Streams:  []string{publisher.BoardStream, ">"},
				Count:    batchSize,
				Block:    blockDuration,
			}).Result()

			if err != nil {
				if err == redis.Nil {
					// No new messages
					continue
				}
				if ctx.Err() != nil {
					return ctx.Err()
				}
				log.Warn().Err(err).Msg("stream read error")
				time.Sleep(1 * time.Second)
				continue
			}

			for _, stream := range streams {
				for _, message := range stream.Messages {
					sc.processMessage(ctx, message)
				}
			}
		}
	}
}

// processMessage decodes one stream entry and hands it to the handler.
// Undecodable messages are acked so they do not wedge the group.
func (sc *StreamConsumer) processMessage(ctx context.Context, msg redis.XMessage) {
	dataStr, ok := msg.Values["data"].(string)
	if !ok {
		log.Warn().Str("message_id", msg.ID).Msg("message missing data field")
		sc.ackMessage(ctx, msg.ID)
		return
	}

	var board models.Board
	if err := json.Unmarshal([]byte(dataStr), &board); err != nil {
		log.Warn().Err(err).Str("message_id", msg.ID).Msg("failed to parse board update")
		sc.ackMessage(ctx, msg.ID)
		return
	}

	sc.handler(ctx, board)
	sc.ackMessage(ctx, msg.ID)
}

// createConsumerGroup creates the consumer group, tolerating reruns
func (sc *StreamConsumer) createConsumerGroup(ctx context.Context) {
	err := sc.redis.XGroupCreateMkStream(ctx, publisher.BoardStream, sc.group, "0").Err()
	if err != nil && err.Error() != "BUSYGROUP Consumer Group name already exists" {
		log.Warn().Err(err).Str("group", sc.group).Msg("failed to create consumer group")
	}
}

// ackMessage acknowledges a message in the stream
func (sc *StreamConsumer) ackMessage(ctx context.Context, messageID string) {
	if err := sc.redis.XAck(ctx, publisher.BoardStream, sc.group, messageID).Err(); err != nil {
		log.Warn().Err(err).Str("message_id", messageID).Msg("failed to ack message")
	}
}
