package queue

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrEmpty is returned by Dequeue when nothing arrived within the wait.
	ErrEmpty  = errors.New("queue: empty")
	ErrClosed = errors.New("queue: closed")
)

// Message is the notification payload carried on the queue.
type Message struct {
	JobID     uuid.UUID `json:"job_id"`
	Type      string    `json:"type"`
	Recipient string    `json:"recipient"`
	Message   string    `json:"message"`
	TraceID   string    `json:"trace_id,omitempty"`
	RequestID string    `json:"request_id,omitempty"`
}

// Delivery is a dequeued message that stays in flight until acked.
type Delivery struct {
	Message Message
	Raw     string
}

// Queue delivers each message at least once. A Queue value is one consumer:
// its in-flight deliveries stay owned by it while its heartbeat lease is
// live. RequeueInflight only returns deliveries whose owner's lease expired.
type Queue interface {
	Enqueue(ctx context.Context, msg Message) error
	Dequeue(ctx context.Context, wait time.Duration) (*Delivery, error)
	Ack(ctx context.Context, d *Delivery) error
	// Heartbeat keeps this consumer's in-flight deliveries owned for ttl.
	Heartbeat(ctx context.Context, ttl time.Duration) error
	RequeueInflight(ctx context.Context) (int, error)
	Close() error
}
