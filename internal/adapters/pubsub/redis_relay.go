// Package pubsub relays session events between API instances over Redis
package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"clubportal/internal/core/domain"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisRelay publishes session events on a channel and hands every received
// event, including its own, to the deliver callback.
type RedisRelay struct {
	client   *redis.Client
	channel  string
	instance string
}

// Connect parses the URL and pings the server
func Connect(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Printf("✅ [Redis] Connected to %s", opts.Addr)
	return client, nil
}

// NewRedisRelay creates a relay on the given channel
func NewRedisRelay(client *redis.Client, channel string) *RedisRelay {
	return &RedisRelay{
		client:   client,
		channel:  channel,
		instance: uuid.NewString(),
	}
}

// Publish sends an event to every instance
func (r *RedisRelay) Publish(ctx context.Context, event domain.SessionEvent) error {
	event.Origin = r.instance
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return r.client.Publish(ctx, r.channel, payload).Err()
}

// Run subscribes and delivers events until ctx is cancelled
func (r *RedisRelay) Run(ctx context.Context, deliver func(domain.SessionEvent)) error {
	sub := r.client.Subscribe(ctx, r.channel)
	defer sub.Close()

	// wait for the subscription to be confirmed
	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", r.channel, err)
	}
	log.Printf("📡 [Redis] Relaying session events on %s", r.channel)

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var event domain.SessionEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				log.Printf("⚠️ [Redis] Dropping malformed session event: %v", err)
				continue
			}
			deliver(event)
		}
	}
}

// Ping checks the connection
func (r *RedisRelay) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Name identifies the relay in health output
func (r *RedisRelay) Name() string {
	return "redis"
}
