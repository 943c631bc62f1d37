package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-coordinator/internal/entity"
)

const publishTimeout = 2 * time.Second

// Publisher - relays move events to a Redis pub/sub channel for observers outside this process.
type Publisher struct {
	logger  *slog.Logger
	client  *redis.Client
	channel string
}

func NewPublisher(logger *slog.Logger, client *redis.Client, channel string) *Publisher {
	return &Publisher{
		logger:  logger.With("component", "redisPublisher", "channel", channel),
		client:  client,
		channel: channel,
	}
}

// Notify - publishes event. Errors are logged, the move has already been applied.
func (that *Publisher) Notify(ctx context.Context, event entity.MoveEvent) {
	if err := that.Publish(ctx, event); err != nil {
		that.logger.Error("failed to relay move event", "gameID", event.GameID, "error", err)
	}
}

func (that *Publisher) Publish(ctx context.Context, event entity.MoveEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal move event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err = that.client.Publish(ctx, that.channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish move event: %w", err)
	}

	return nil
}
