package mykafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *recordingWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return w.err
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func TestPublishEvent(t *testing.T) {
	t.Parallel()

	w := &recordingWriter{}
	p := NewProducerWithWriter(w)

	event := map[string]any{"type": "order_status_changed", "orderID": "o-1", "to": "completed"}
	require.NoError(t, p.PublishEvent(context.Background(), "order_events", "o-1", event))

	require.Len(t, w.msgs, 1)
	msg := w.msgs[0]
	assert.Equal(t, "order_events", msg.Topic)
	assert.Equal(t, []byte("o-1"), msg.Key)

	var got map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, "order_status_changed", got["type"])
	assert.Equal(t, "completed", got["to"])

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestPublishEvent_Errors(t *testing.T) {
	t.Parallel()

	w := &recordingWriter{err: errors.New("leader not available")}
	p := NewProducerWithWriter(w)
	err := p.PublishEvent(context.Background(), "order_events", "k", map[string]string{"a": "b"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "leader not available")

	err = p.PublishEvent(context.Background(), "order_events", "k", make(chan int))
	require.Error(t, err)
}

func TestNewProducer(t *testing.T) {
	t.Parallel()

	_, err := NewProducer(nil)
	require.Error(t, err)

	p, err := NewProducer([]string{"localhost:9092"})
	require.NoError(t, err)
	require.NotNil(t, p)
	require.NoError(t, p.Close())
}
