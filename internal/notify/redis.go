package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// RedisBridge publishes events on a Redis channel and relays every event on
// that channel into the local hub, so subscribers connected to any API
// instance receive them.
type RedisBridge struct {
	client  redis.UniversalClient
	channel string
	hub     *Hub
}

var _ Publisher = (*RedisBridge)(nil)

func NewRedisBridge(client redis.UniversalClient, channel string, hub *Hub) *RedisBridge {
	return &RedisBridge{client: client, channel: channel, hub: hub}
}

func (b *RedisBridge) Publish(ctx context.Context, event Event) error {
	if event.At.IsZero() {
		event.At = time.Now().UTC()
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode %s event: %w", event.Type, err)
	}
	if err := b.client.Publish(ctx, b.channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", event.Type, err)
	}
	return nil
}

// Run subscribes to the channel and relays its messages into the hub until
// ctx is cancelled. It returns once the subscription is confirmed; the
// returned channel is closed when the relay goroutine has exited.
func (b *RedisBridge) Run(ctx context.Context) (<-chan struct{}, error) {
	pubsub := b.client.Subscribe(ctx, b.channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", b.channel, err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer pubsub.Close()
		messages := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}
				var event Event
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					log.Printf("Discarding malformed notification on %s: %v", b.channel, err)
					continue
				}
				if err := b.hub.Publish(ctx, event); err != nil {
					log.Printf("Error relaying %s event: %v", event.Type, err)
				}
			}
		}
	}()

	log.Printf("Relaying notifications from Redis channel %s", b.channel)
	return done, nil
}
