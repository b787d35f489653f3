package event

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Bus delivers published events to matching subscriptions synchronously.
// It is safe for concurrent use.
type Bus struct {
	mu   sync.RWMutex
	subs []*subscription

	panicHandler PanicHandler
	errorHandler ErrorHandler
}

// NewBus creates an empty bus.
func NewBus(opts ...BusOption) *Bus {
	b := &Bus{}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe registers handler for every topic matching pattern.
func (b *Bus) Subscribe(pattern Topic, handler Handler, opts ...SubscriptionOption) (Subscription, error) {
	if !pattern.IsValid() {
		return nil, ErrInvalidTopic
	}
	if handler == nil {
		return nil, ErrNilHandler
	}

	sub := &subscription{
		id:       uuid.NewString(),
		pattern:  pattern,
		handler:  handler,
		priority: PriorityNormal,
	}
	for _, opt := range opts {
		opt(sub)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.subs = append(b.subs, sub)
	sort.SliceStable(b.subs, func(i, j int) bool {
		return b.subs[i].priority < b.subs[j].priority
	})
	return sub, nil
}

// Unsubscribe cancels sub and removes it from the bus.
func (b *Bus) Unsubscribe(sub Subscription) error {
	if sub == nil {
		return ErrSubscriptionNotFound
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for i, s := range b.subs {
		if s.id == sub.ID() {
			s.Cancel()
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			return nil
		}
	}
	return ErrSubscriptionNotFound
}

// Count returns the number of active subscriptions.
func (b *Bus) Count() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	n := 0
	for _, s := range b.subs {
		if s.IsActive() {
			n++
		}
	}
	return n
}

// Publish delivers ev to every active matching subscription, in priority
// order, before returning. Handler errors and panics do not stop delivery.
func (b *Bus) Publish(ctx context.Context, ev Event) error {
	if !ev.Topic.IsValid() {
		return ErrInvalidTopic
	}

	for _, sub := range b.match(ev.Topic) {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !sub.IsActive() {
			continue
		}
		if b.deliver(ctx, sub, ev) && sub.once {
			_ = b.Unsubscribe(sub)
		}
	}
	return nil
}

// match returns a snapshot of matching subscriptions so handlers may
// subscribe or unsubscribe during delivery.
func (b *Bus) match(t Topic) []*subscription {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var out []*subscription
	for _, s := range b.subs {
		if s.IsActive() && t.Matches(s.pattern) {
			out = append(out, s)
		}
	}
	return out
}

func (b *Bus) deliver(ctx context.Context, sub *subscription, ev Event) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
			if b.panicHandler != nil {
				b.panicHandler(ev, sub.id, r)
			}
		}
	}()

	if err := sub.handler(ctx, ev); err != nil {
		if b.errorHandler != nil {
			b.errorHandler(&HandlerError{SubscriptionID: sub.id, Topic: ev.Topic, Err: err})
		}
		return false
	}
	return true
}
