package event

import (
	"context"
	"sync/atomic"
)

// Handler handles a delivered event.
type Handler func(ctx context.Context, ev Event) error

// Priority determines delivery order; lower values are delivered first.
type Priority int

// Standard priorities.
const (
	PriorityHigh   Priority = -100
	PriorityNormal Priority = 0
	PriorityLow    Priority = 100
)

// Subscription represents a registered handler.
type Subscription interface {
	// ID returns the unique subscription identifier.
	ID() string

	// Pattern returns the subscribed topic pattern.
	Pattern() Topic

	// IsActive reports whether the subscription still receives events.
	IsActive() bool

	// Cancel permanently stops delivery to this subscription.
	Cancel()
}

// SubscriptionOption configures a subscription.
type SubscriptionOption func(*subscription)

// WithPriority sets the subscription priority.
func WithPriority(p Priority) SubscriptionOption {
	return func(s *subscription) {
		s.priority = p
	}
}

// WithOnce cancels the subscription after its first successful delivery.
func WithOnce() SubscriptionOption {
	return func(s *subscription) {
		s.once = true
	}
}

type subscription struct {
	id        string
	pattern   Topic
	handler   Handler
	priority  Priority
	once      bool
	cancelled atomic.Bool
}

func (s *subscription) ID() string {
	return s.id
}

func (s *subscription) Pattern() Topic {
	return s.pattern
}

func (s *subscription) IsActive() bool {
	return !s.cancelled.Load()
}

func (s *subscription) Cancel() {
	s.cancelled.Store(true)
}
