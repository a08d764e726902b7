// Package notify forwards mapping store events to external listeners.
package notify

import (
	"context"
	"sync"

	"github.com/specialistvlad/prefillgrid/internal/ctxlog"
	"github.com/specialistvlad/prefillgrid/internal/mapping"
)

// Publisher delivers mapping events somewhere.
type Publisher interface {
	Publish(ctx context.Context, ev mapping.Event) error
	Close() error
}

// Forward subscribes p to the store. Publish errors are logged and dropped;
// they never affect the store.
func Forward(ctx context.Context, store *mapping.Store, p Publisher) {
	logger := ctxlog.FromContext(ctx).With("component", "notify")
	store.Subscribe(func(ev mapping.Event) {
		if err := p.Publish(ctx, ev); err != nil {
			logger.Warn("Failed to publish mapping event.", "kind", ev.Kind, "mapping", ev.Mapping.String(), "error", err)
		}
	})
}

// Nop discards every event.
type Nop struct{}

func (Nop) Publish(context.Context, mapping.Event) error { return nil }
func (Nop) Close() error { return nil }

// Recorder keeps every published event in memory.
type Recorder struct {
	mu     sync.Mutex
	events []mapping.Event
}

func (r *Recorder) Publish(_ context.Context, ev mapping.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func (r *Recorder) Close() error { return nil }

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []mapping.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]mapping.Event, len(r.events))
	copy(out, r.events)
	return out
}
