package redis

import (
	"context"

	"github.com/KunafaIceCream/udst-healthpage/internal/infrastructure/messaging"
)

// PubSubAdapter adapts Client to messaging.RedisClient so the Redis store
// connection can also carry the event bus.
type PubSubAdapter struct {
	client *Client
}

// NewPubSubAdapter creates an adapter over an established client.
func NewPubSubAdapter(client *Client) *PubSubAdapter {
	return &PubSubAdapter{client: client}
}

// Publish sends a message to a channel.
func (a *PubSubAdapter) Publish(ctx context.Context, channel string, message interface{}) error {
	return a.client.client.Publish(ctx, channel, message).Err()
}

// Subscribe subscribes to channels and converts messages to the
// messaging package's representation. The returned channel closes when
// ctx is cancelled.
func (a *PubSubAdapter) Subscribe(ctx context.Context, channels ...string) (<-chan messaging.RedisMessage, error) {
	sub := a.client.client.Subscribe(ctx, channels...)

	// Force the subscription to be established before returning.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, err
	}

	out := make(chan messaging.RedisMessage)

	go func() {
		defer close(out)
		defer sub.Close()

		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				select {
				case out <- messaging.RedisMessage{Channel: msg.Channel, Payload: msg.Payload}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

// Close closes the underlying client.
func (a *PubSubAdapter) Close() error {
	return a.client.Close()
}

var _ messaging.RedisClient = (*PubSubAdapter)(nil)
