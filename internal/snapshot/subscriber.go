// Package snapshot is the glue between the store and the derived views. One
// subscriber loop consumes change notifications, re-runs the aggregator, and
// publishes all four collections as a single value.
package snapshot

import (
	"context"
	"log"
	"sync"
	"sync/atomic"

	"applyboard-engine/internal/aggregate"
	"applyboard-engine/internal/domain"
)

// Loader reads one full, self-consistent snapshot from the store.
type Loader func(ctx context.Context) ([]domain.ServiceRegistration, error)

type Subscriber struct {
	load Loader

	// OnRefresh, when set, runs after each successful publish; the new
	// derived state is already readable when it fires.
	OnRefresh func()

	// derived holds an aggregate.Derived; swapped whole so a reader never
	// sees a torn update
	derived atomic.Value

	notify    chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

func NewSubscriber(load Loader) *Subscriber {
	s := &Subscriber{
		load:   load,
		notify: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	s.derived.Store(aggregate.Aggregate(nil))
	return s
}

// Notify marks the snapshot dirty. Back-to-back notifications coalesce into
// one refresh. After Close it is a no-op.
func (s *Subscriber) Notify() {
	select {
	case <-s.done:
		return
	default:
	}
	select {
	case s.notify <- struct{}{}:
	default:
	}
}

// Run performs an initial refresh and then serves notifications until the
// context ends or Close is called. Refreshes are strictly sequential: a new
// notification waits for the current pass to finish.
func (s *Subscriber) Run(ctx context.Context) {
	s.refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.done:
			return
		case <-s.notify:
			// a late notification after Close must not re-aggregate
			select {
			case <-s.done:
				return
			default:
			}
			s.refresh(ctx)
		}
	}
}

// Close tears down the subscription. In-flight notifications are dropped.
func (s *Subscriber) Close() {
	s.closeOnce.Do(func() { close(s.done) })
}

// Derived returns the most recently published collections.
func (s *Subscriber) Derived() aggregate.Derived {
	return s.derived.Load().(aggregate.Derived)
}

// refresh keeps the previous derived state on a failed read; the filter and
// pagination path never sees the error.
func (s *Subscriber) refresh(ctx context.Context) {
	regs, err := s.load(ctx)
	if err != nil {
		log.Printf("[snapshot] load failed, keeping previous state: %v", err)
		return
	}
	s.derived.Store(aggregate.Aggregate(regs))
	if s.OnRefresh != nil {
		s.OnRefresh()
	}
}
