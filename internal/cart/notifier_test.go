package cart

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for cart event")
		return Event{}
	}
}

func TestHub_DeliversToSessionOnly(t *testing.T) {
	hub := NewHub()
	ctx := context.Background()

	mine, cancelMine := hub.Subscribe(ctx, "a")
	defer cancelMine()
	other, cancelOther := hub.Subscribe(ctx, "b")
	defer cancelOther()

	hub.Publish(ctx, Event{Session: "a", Count: 2, Total: 100})

	assert.Equal(t, Event{Session: "a", Count: 2, Total: 100}, receive(t, mine))
	select {
	case ev := <-other:
		t.Fatalf("unexpected event for other session: %+v", ev)
	default:
	}
}

func TestHub_CancelClosesChannel(t *testing.T) {
	hub := NewHub()
	ctx, cancelCtx := context.WithCancel(context.Background())

	ch, _ := hub.Subscribe(ctx, "a")
	cancelCtx()

	select {
	case _, ok := <-ch:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("channel not closed after context cancel")
	}

	// publishing after unsubscribe must not panic
	hub.Publish(context.Background(), Event{Session: "a"})
}

func TestStoreMutationReachesSubscriber(t *testing.T) {
	hub := NewHub()
	ctx := context.Background()
	svc := NewService(nil, hub, testLogger())

	ch, cancel := hub.Subscribe(ctx, "s1")
	defer cancel()

	svc.Session("s1").Clear(ctx)
	assert.Equal(t, "s1", receive(t, ch).Session)
}

func TestRedisHub_PublishSubscribe(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	hub := NewRedisHub(client, testLogger())
	ctx := context.Background()

	ch, cancel := hub.Subscribe(ctx, "s1")
	defer cancel()

	hub.Publish(ctx, Event{Session: "s1", Count: 3, Total: 4500})

	ev := receive(t, ch)
	assert.Equal(t, "s1", ev.Session)
	assert.Equal(t, 3, ev.Count)
	assert.Equal(t, int64(4500), ev.Total)
}

func TestRedisHub_PublishWithoutServerDoesNotPanic(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	mr.Close()

	hub := NewRedisHub(client, testLogger())
	require.NotPanics(t, func() {
		hub.Publish(context.Background(), Event{Session: "s1"})
	})
}
