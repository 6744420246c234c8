package runtime

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Receipt describes a delivery accepted by a provider.
type Receipt struct {
	Provider  string
	MessageID string
}

// Channel delivers one notification type.
type Channel interface {
	Type() string
	Send(ctx context.Context, recipient, message string) (*Receipt, error)
}

type Registry struct {
	mu       sync.RWMutex
	channels map[string]Channel
}

func NewRegistry() *Registry {
	return &Registry{channels: make(map[string]Channel)}
}

func (r *Registry) Register(ch Channel) error {
	if ch == nil {
		return fmt.Errorf("nil channel")
	}
	t := ch.Type()
	if t == "" {
		return fmt.Errorf("channel Type() is empty")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.channels[t]; exists {
		return fmt.Errorf("channel already registered for type=%s", t)
	}
	r.channels[t] = ch
	return nil
}

func (r *Registry) Get(notificationType string) (Channel, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ch, ok := r.channels[notificationType]
	return ch, ok
}

func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.channels))
	for t := range r.channels {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
