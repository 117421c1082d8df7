package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/warehouse-inventory/internal/application/notification"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { w.closed = true; return nil }

func advisory() notification.Advisory {
	return notification.Advisory{
		MessageID: "msg-1",
		Kind:      notification.KindLowStock,
		Subject:   "Low stock: Office Desk",
		Success:   true,
		At:        time.Date(2025, 11, 20, 9, 0, 0, 0, time.UTC),
		ElapsedMS: 12,
	}
}

func TestPublish_EscribeSobreJSON(t *testing.T) {
	w := &fakeWriter{}
	p := newAdvisoryPublisher(w)

	require.NoError(t, p.Publish(context.Background(), advisory()))
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, "msg-1", string(msg.Key), "la clave agrupa los avisos del mismo mensaje")
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "low_stock", string(msg.Headers[1].Value))

	var ev Event
	require.NoError(t, json.Unmarshal(msg.Value, &ev))
	assert.Equal(t, EventType, ev.EventType)
	assert.Equal(t, "Low stock: Office Desk", ev.Payload.Subject)
	assert.True(t, ev.Payload.Success)
	assert.Equal(t, "msg-1:2025-11-20T09:00:00Z", ev.EventID)
}

func TestPublish_PropagaErrorYCierra(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker caído")}
	p := newAdvisoryPublisher(w)

	err := p.Publish(context.Background(), advisory())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker caído")

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}
