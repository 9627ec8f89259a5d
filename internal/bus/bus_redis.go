package bus

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type redisBus struct {
	client  *redis.Client
	channel string
	buffer  int
	logger  *zap.Logger
}

// NewRedisBus returns a Bus backed by Redis pub/sub so broadcasts reach
// application instances behind every gateway replica.
func NewRedisBus(client *redis.Client, channel string, buffer int, logger *zap.Logger) Bus {
	if channel == "" {
		channel = "offlinegate:events"
	}
	if buffer <= 0 {
		buffer = 8
	}
	return &redisBus{client: client, channel: channel, buffer: buffer, logger: logger}
}

func (b *redisBus) Publish(ctx context.Context, msg Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return b.client.Publish(ctx, b.channel, payload).Err()
}

func (b *redisBus) Subscribe(ctx context.Context) (<-chan Message, func()) {
	sub := b.client.Subscribe(ctx, b.channel)
	out := make(chan Message, b.buffer)

	go func() {
		defer close(out)
		for m := range sub.Channel() {
			var msg Message
			if err := json.Unmarshal([]byte(m.Payload), &msg); err != nil {
				b.logger.Warn("drop malformed bus message", zap.Error(err))
				continue
			}
			select {
			case out <- msg:
			default:
				// Subscriber buffer full: drop. No delivery guarantee.
			}
		}
	}()

	return out, func() { _ = sub.Close() }
}
