package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Channel prefix for pub/sub delivery; the real-time edge (websocket fan-out)
// subscribes to notify:<recipient>.
const channelPrefix = "notify:"

// RedisGateway publishes events over Redis pub/sub.
type RedisGateway struct {
	client *redis.Client
}

// NewRedisGateway wraps an existing Redis client.
func NewRedisGateway(client *redis.Client) *RedisGateway {
	return &RedisGateway{client: client}
}

// Publish serializes the event and pushes it to the recipient's channel.
func (g *RedisGateway) Publish(ctx context.Context, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	if err := g.client.Publish(ctx, channelPrefix+event.Recipient, data).Err(); err != nil {
		return fmt.Errorf("publish notification: %w", err)
	}
	return nil
}
