package events

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Publisher is the subset of the go-redis client the relay needs.
type Publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// redisRelay delivers events to local subscribers and mirrors them onto a
// Redis channel for out-of-process consumers.
type redisRelay struct {
	local   Dispatcher
	client  Publisher
	channel string
	logger  *zap.Logger
}

// NewRedisRelay wraps local so every published event is also sent to channel.
func NewRedisRelay(local Dispatcher, client Publisher, channel string, logger *zap.Logger) Dispatcher {
	return &redisRelay{local: local, client: client, channel: channel, logger: logger}
}

func (r *redisRelay) Publish(ctx context.Context, event Event) error {
	if err := r.local.Publish(ctx, event); err != nil {
		return err
	}
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if err := r.client.Publish(ctx, r.channel, body).Err(); err != nil {
		r.logger.Warn("event relay failed",
			zap.String("channel", r.channel),
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
	}
	return nil
}

func (r *redisRelay) Subscribe(eventType EventType, handler EventHandler) {
	r.local.Subscribe(eventType, handler)
}
