package queue

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memoryStore struct {
	mu       sync.Mutex
	items    []*Delivery
	inflight map[*Delivery]string
	leases   map[string]time.Time
	notify   chan struct{}
	closed   bool
	now      func() time.Time
}

// Memory is an in-process queue for local runs and tests. It offers the same
// consumer lease semantics as the Redis queue but nothing survives a restart.
// Consumers made with NewConsumer share the store.
type Memory struct {
	*memoryStore
	consumer string
}

var _ Queue = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		memoryStore: &memoryStore{
			inflight: map[*Delivery]string{},
			leases:   map[string]time.Time{},
			notify:   make(chan struct{}, 1),
			now:      time.Now,
		},
		consumer: uuid.NewString(),
	}
}

// NewConsumer returns another consumer of the same store, as a second worker
// process would be against a shared Redis list.
func (m *Memory) NewConsumer() *Memory {
	return &Memory{memoryStore: m.memoryStore, consumer: uuid.NewString()}
}

func (m *Memory) Enqueue(ctx context.Context, msg Message) error {
	raw, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}
	m.items = append(m.items, &Delivery{Message: msg, Raw: string(raw)})
	m.mu.Unlock()
	m.wake()
	return nil
}

func (m *Memory) Dequeue(ctx context.Context, wait time.Duration) (*Delivery, error) {
	timer := time.NewTimer(wait)
	defer timer.Stop()
	for {
		m.mu.Lock()
		if m.closed {
			m.mu.Unlock()
			m.wake()
			return nil, ErrClosed
		}
		if len(m.items) > 0 {
			d := m.items[0]
			m.items = m.items[1:]
			m.inflight[d] = m.consumer
			more := len(m.items) > 0
			m.mu.Unlock()
			if more {
				m.wake()
			}
			return d, nil
		}
		m.mu.Unlock()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
			return nil, ErrEmpty
		case <-m.notify:
		}
	}
}

func (m *Memory) Ack(ctx context.Context, d *Delivery) error {
	m.mu.Lock()
	delete(m.inflight, d)
	m.mu.Unlock()
	return nil
}

func (m *Memory) Heartbeat(ctx context.Context, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.leases[m.consumer] = m.now().Add(ttl)
	return nil
}

func (m *Memory) RequeueInflight(ctx context.Context) (int, error) {
	m.mu.Lock()
	now := m.now()
	var back []*Delivery
	for d, owner := range m.inflight {
		if owner == m.consumer {
			continue
		}
		if until, ok := m.leases[owner]; ok && now.Before(until) {
			continue
		}
		back = append(back, d)
		delete(m.inflight, d)
	}
	for owner, until := range m.leases {
		if owner != m.consumer && !now.Before(until) {
			delete(m.leases, owner)
		}
	}
	m.items = append(back, m.items...)
	m.mu.Unlock()

	if len(back) > 0 {
		m.wake()
	}
	return len(back), nil
}

// Len reports queued plus in-flight messages across all consumers.
func (m *Memory) Len() (queued, inflight int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items), len(m.inflight)
}

// Close closes the shared store for every consumer.
func (m *Memory) Close() error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	m.wake()
	return nil
}

func (m *Memory) wake() {
	select {
	case m.notify <- struct{}{}:
	default:
	}
}
