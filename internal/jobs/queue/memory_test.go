package queue

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryFIFOAndAck(t *testing.T) {
	q := NewMemory()
	ctx := context.Background()

	first := Message{JobID: uuid.New(), Type: "email", Recipient: "a@example.com", Message: "one"}
	second := Message{JobID: uuid.New(), Type: "sms", Recipient: "+1555", Message: "two"}
	require.NoError(t, q.Enqueue(ctx, first))
	require.NoError(t, q.Enqueue(ctx, second))

	d, err := q.Dequeue(ctx, time.Second)
	require.NoError(t, err)
	assert.Equal(t, first, d.Message)

	queued, inflight := q.Len()
	assert.Equal(t, 1, queued)
	assert.Equal(t, 1, inflight)

	require.NoError(t, q.Ack(ctx, d))
	_, inflight = q.Len()
	assert.Equal(t, 0, inflight)
}

func TestMemoryDequeueTimesOut(t *testing.T) {
	q := NewMemory()
	_, err := q.Dequeue(context.Background(), 10*time.Millisecond)
	assert.True(t, errors.Is(err, ErrEmpty))
}

func TestMemoryDequeueHonoursCancel(t *testing.T) {
	q := NewMemory()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := q.Dequeue(ctx, time.Minute)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestMemoryWakesBlockedConsumer(t *testing.T) {
	q := NewMemory()
	got := make(chan *Delivery, 1)
	go func() {
		d, _ := q.Dequeue(context.Background(), 5*time.Second)
		got <- d
	}()
	time.Sleep(20 * time.Millisecond)
	require.NoError(t, q.Enqueue(context.Background(), Message{Type: "email"}))

	select {
	case d := <-got:
		require.NotNil(t, d)
		assert.Equal(t, "email", d.Message.Type)
	case <-time.After(2 * time.Second):
		t.Fatal("consumer was not woken")
	}
}

func TestMemoryRequeueInflightOnlyFromExpiredConsumers(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	a := NewMemory()
	a.now = func() time.Time { return now }
	b := a.NewConsumer()
	ctx := context.Background()
	require.NoError(t, a.Enqueue(ctx, Message{Type: "email", Message: "a"}))
	require.NoError(t, a.Enqueue(ctx, Message{Type: "email", Message: "b"}))

	require.NoError(t, a.Heartbeat(ctx, time.Minute))
	d, err := a.Dequeue(ctx, time.Second)
	require.NoError(t, err)
	assert.Equal(t, "a", d.Message.Message)

	n, err := b.RequeueInflight(ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "a live consumer keeps its deliveries")

	n, err = a.RequeueInflight(ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "a consumer never reclaims its own deliveries")

	now = now.Add(2 * time.Minute)
	n, err = b.RequeueInflight(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	again, err := b.Dequeue(ctx, time.Second)
	require.NoError(t, err)
	assert.Equal(t, "a", again.Message.Message, "requeued deliveries go to the front")
}

func TestMemoryRequeueInflightWithoutHeartbeat(t *testing.T) {
	a := NewMemory()
	b := a.NewConsumer()
	ctx := context.Background()
	require.NoError(t, a.Enqueue(ctx, Message{Type: "sms"}))
	_, err := a.Dequeue(ctx, time.Second)
	require.NoError(t, err)

	n, err := b.RequeueInflight(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestMemoryClosed(t *testing.T) {
	q := NewMemory()
	require.NoError(t, q.Close())
	assert.ErrorIs(t, q.Enqueue(context.Background(), Message{}), ErrClosed)
	_, err := q.Dequeue(context.Background(), time.Millisecond)
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, q.NewConsumer().Heartbeat(context.Background(), time.Second), ErrClosed)
}
