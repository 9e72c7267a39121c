package publisher

import (
	"context"
	"encoding/base64"

	"github.com/redis/go-redis/v9"
)

// RedisPublisher implements Publisher using a Redis stream
type RedisPublisher struct {
	client          *redis.Client
	ctx             context.Context
	stream          string
	streamMaxLength int64
}

// NewRedisPublisher creates a new Redis publisher
func NewRedisPublisher(ctx context.Context, addr string, db int, stream string, streamMaxLength int) *RedisPublisher {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	return &RedisPublisher{
		client:          client,
		ctx:             ctx,
		stream:          stream,
		streamMaxLength: int64(streamMaxLength),
	}
}

// Ping checks that the server is reachable
func (p *RedisPublisher) Ping() error {
	return p.client.Ping(p.ctx).Err()
}

// Publish appends a base64 encoded message to the stream under key,
// trimming the stream to roughly streamMaxLength entries
func (p *RedisPublisher) Publish(key string, message []byte) error {
	encodedMessage := base64.StdEncoding.EncodeToString(message)

	return p.client.XAdd(p.ctx, &redis.XAddArgs{
		Stream: p.stream,
		MaxLen: p.streamMaxLength,
		Approx: true,
		Values: map[string]interface{}{
			key: encodedMessage,
		},
	}).Err()
}

// Close closes the Redis connection
func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
