package cart

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// RedisHub relays cart events over Redis pub/sub so every storefront replica
// can push them to its connected views.
type RedisHub struct {
	client *redis.Client
	log    logrus.FieldLogger
}

func NewRedisHub(client *redis.Client, log logrus.FieldLogger) *RedisHub {
	return &RedisHub{client: client, log: log}
}

func (h *RedisHub) Publish(ctx context.Context, event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		h.log.WithError(err).Warn("marshal cart event failed")
		return
	}
	if err := h.client.Publish(ctx, eventChannel(event.Session), payload).Err(); err != nil {
		h.log.WithError(err).WithField("session", event.Session).Warn("publish cart event failed")
	}
}

func (h *RedisHub) Subscribe(ctx context.Context, session string) (<-chan Event, func()) {
	ctx, cancel := context.WithCancel(ctx)
	ps := h.client.Subscribe(ctx, eventChannel(session))
	out := make(chan Event, subscriberBuffer)

	// wait for the subscription to be confirmed so no event published right
	// after Subscribe returns is missed
	if _, err := ps.Receive(ctx); err != nil {
		h.log.WithError(err).WithField("session", session).Warn("subscribe to cart events failed")
	}

	go func() {
		defer close(out)
		messages := ps.Channel()
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
					h.log.WithError(err).Warn("unmarshal cart event failed")
					continue
				}
				event.Session = session
				select {
				case out <- event:
				default:
				}
			}
		}
	}()

	return out, func() {
		cancel()
		if err := ps.Close(); err != nil {
			h.log.WithError(err).Debug("close cart event subscription")
		}
	}
}

func eventChannel(session string) string {
	return fmt.Sprintf("cart-events:%s", session)
}
