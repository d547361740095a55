package events

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/kadeksinduarta/selat-frontend/internal/domain"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func newTestPublisher() (*KafkaPublisher, *fakeWriter) {
	l := logrus.New()
	l.SetOutput(io.Discard)
	w := &fakeWriter{}
	return &KafkaPublisher{writer: w, log: l}, w
}

func TestOrderPlaced_WritesKeyedMessage(t *testing.T) {
	p, w := newTestPublisher()
	event := OrderPlaced{
		OrderID:     "42",
		SessionID:   "sid",
		UserID:      7,
		Mode:        "cart",
		Items:       []domain.OrderLine{{ProductID: 1, Qty: 3, Price: 15000}},
		TotalAmount: 45000,
		PickupDate:  "2026-11-01",
		PlacedAt:    time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC),
	}

	require.NoError(t, p.OrderPlaced(context.Background(), event))
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, []byte("42"), msg.Key)
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "event_type", msg.Headers[0].Key)
	assert.Equal(t, EventTypeOrderPlaced, string(msg.Headers[0].Value))

	var decoded OrderPlaced
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, event, decoded)
}

func TestOrderPlaced_WriterError(t *testing.T) {
	p, w := newTestPublisher()
	w.err = errors.New("broker unavailable")

	err := p.OrderPlaced(context.Background(), OrderPlaced{OrderID: "1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker unavailable")
}

func TestClose(t *testing.T) {
	p, w := newTestPublisher()
	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestNoop(t *testing.T) {
	var p Publisher = Noop{}
	assert.NoError(t, p.OrderPlaced(context.Background(), OrderPlaced{}))
	assert.NoError(t, p.Close())
}
