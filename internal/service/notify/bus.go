package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lkoster/screenlens/internal/model/notify"
)

// DefaultTTL is how long a toast stays visible without explicit dismissal.
const DefaultTTL = 5 * time.Second

// Subscriber receives the full current toast list on every change.
type Subscriber func([]notify.Toast)

// Bus broadcasts ephemeral toasts to all subscribers. It is an injected
// dependency rather than a package-level singleton so each test (and each
// server instance) gets an isolated list and listener set.
//
// Per-toast lifecycle: created -> visible -> (expired after TTL or dismissed
// early) -> removed. Subscribers are notified synchronously within the call
// that mutated the list.
type Bus struct {
	mu      sync.Mutex
	ttl     time.Duration
	toasts  []notify.Toast
	subs    map[int]Subscriber
	timers  map[string]*time.Timer
	nextSub int
}

// NewBus creates a bus whose toasts expire after ttl. Non-positive ttl
// falls back to DefaultTTL.
func NewBus(ttl time.Duration) *Bus {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &Bus{
		ttl:    ttl,
		subs:   make(map[int]Subscriber),
		timers: make(map[string]*time.Timer),
	}
}

// Publish appends a toast, notifies subscribers and schedules its automatic
// removal. The returned id allows early dismissal.
func (b *Bus) Publish(title, description, variant string) string {
	if variant == "" {
		variant = notify.VariantDefault
	}

	toast := notify.Toast{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		Variant:     variant,
	}

	b.mu.Lock()
	b.toasts = append(b.toasts, toast)
	b.timers[toast.ID] = time.AfterFunc(b.ttl, func() { b.Dismiss(toast.ID) })
	b.notifyLocked()
	b.mu.Unlock()

	return toast.ID
}

// Dismiss removes the toast with the given id if present. Dismissing twice
// or dismissing an unknown id is a no-op.
func (b *Bus) Dismiss(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if timer, ok := b.timers[id]; ok {
		timer.Stop()
		delete(b.timers, id)
	}

	kept := make([]notify.Toast, 0, len(b.toasts))
	removed := false
	for _, toast := range b.toasts {
		if toast.ID == id {
			removed = true
			continue
		}
		kept = append(kept, toast)
	}
	if !removed {
		return
	}

	b.toasts = kept
	b.notifyLocked()
}

// Subscribe registers fn and returns an unsubscribe handle. The handle is
// safe to call more than once and never affects other subscribers.
func (b *Bus) Subscribe(fn Subscriber) func() {
	b.mu.Lock()
	id := b.nextSub
	b.nextSub++
	b.subs[id] = fn
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
		})
	}
}

// Toasts returns a snapshot of the currently visible toasts.
func (b *Bus) Toasts() []notify.Toast {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snapshotLocked()
}

func (b *Bus) snapshotLocked() []notify.Toast {
	out := make([]notify.Toast, len(b.toasts))
	copy(out, b.toasts)
	return out
}

func (b *Bus) notifyLocked() {
	snapshot := b.snapshotLocked()
	for _, fn := range b.subs {
		fn(snapshot)
	}
}
