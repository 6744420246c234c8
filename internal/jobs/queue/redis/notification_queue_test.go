package redis

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/trainermatch-backend/internal/jobs/queue"
	"github.com/yungbote/trainermatch-backend/internal/platform/logger"
)

func testConfig(t *testing.T) Config {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("set TEST_REDIS_ADDR to run redis queue integration tests")
	}
	return Config{Addr: addr, Key: "test:notifications:" + uuid.NewString()}
}

func newTestQueue(t *testing.T, cfg Config) queue.Queue {
	t.Helper()
	q, err := NewNotificationQueue(logger.Nop(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = q.Close() })
	return q
}

func TestNotificationQueueRoundTrip(t *testing.T) {
	q := newTestQueue(t, testConfig(t))
	ctx := context.Background()

	msg := queue.Message{JobID: uuid.New(), Type: "whatsapp", Recipient: "+15550001111", Message: "hi"}
	require.NoError(t, q.Enqueue(ctx, msg))

	d, err := q.Dequeue(ctx, time.Second)
	require.NoError(t, err)
	assert.Equal(t, msg, d.Message)
	require.NoError(t, q.Ack(ctx, d))

	_, err = q.Dequeue(ctx, 100*time.Millisecond)
	assert.True(t, errors.Is(err, queue.ErrEmpty))
}

func TestNotificationQueueReclaimsOnlyExpiredConsumers(t *testing.T) {
	cfg := testConfig(t)
	a := newTestQueue(t, cfg)
	b := newTestQueue(t, cfg)
	ctx := context.Background()

	require.NoError(t, a.Heartbeat(ctx, 300*time.Millisecond))
	require.NoError(t, b.Heartbeat(ctx, time.Minute))
	require.NoError(t, a.Enqueue(ctx, queue.Message{JobID: uuid.New(), Type: "email", Recipient: "x@example.com", Message: "m"}))
	_, err := a.Dequeue(ctx, time.Second)
	require.NoError(t, err)

	n, err := b.RequeueInflight(ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "a live consumer keeps its deliveries")

	time.Sleep(500 * time.Millisecond)
	n, err = b.RequeueInflight(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	d, err := b.Dequeue(ctx, time.Second)
	require.NoError(t, err)
	require.NoError(t, b.Ack(ctx, d))
}

func TestNewNotificationQueueRequiresAddr(t *testing.T) {
	_, err := NewNotificationQueue(logger.Nop(), Config{})
	assert.ErrorContains(t, err, "REDIS_ADDR")
}
