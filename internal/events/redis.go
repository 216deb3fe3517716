package events

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisBridge republishes dispatcher events on a Redis channel so dashboard
// processes can refresh without polling. Publish failures are logged and
// swallowed: the write that produced the event has already committed.
type RedisBridge struct {
	client  *redis.Client
	channel string
	logger  *zap.Logger
}

// NewRedisBridge creates the bridge.
func NewRedisBridge(client *redis.Client, channel string, logger *zap.Logger) *RedisBridge {
	return &RedisBridge{client: client, channel: channel, logger: logger}
}

// Register subscribes the bridge to every event type.
func (b *RedisBridge) Register(dispatcher Dispatcher) {
	if b == nil || dispatcher == nil {
		return
	}
	for _, eventType := range Types() {
		dispatcher.Subscribe(eventType, b.handle)
	}
}

func (b *RedisBridge) handle(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		b.logger.Error("marshal event", zap.Error(err))
		return err
	}
	if err := b.client.Publish(ctx, b.channel, payload).Err(); err != nil {
		b.logger.Warn("publish event to redis",
			zap.String("channel", b.channel),
			zap.String("event_id", event.ID),
			zap.Error(err))
	}
	return nil
}
