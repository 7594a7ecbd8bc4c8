// Package pubsub implements the bounded, multi-subscriber broadcast
// primitive shared by the Playback State Machine, Performance Monitor, and
// Buffer Manager. It is the generic descendant of the engine's websocket
// hub: same register/unregister/broadcast select loop, minus the transport.
package pubsub

import (
	"log/slog"
	"sync"
)

// OverflowPolicy controls what a Hub does when a subscriber's channel is
// full at publish time.
type OverflowPolicy int

const (
	// DropOldest evicts the subscriber's oldest buffered value to make room
	// for the new one. Used for snapshot-style streams where only the
	// latest values matter.
	DropOldest OverflowPolicy = iota
	// DropNewest discards the incoming value and increments the
	// subscriber's overflow counter. Used for alert-style streams where
	// every dropped event must stay observable.
	DropNewest
)

// Hub is a bounded fan-out broadcaster for values of type T. Subscribe adds
// the new subscriber under the hub's lock before it returns; a single
// background goroutine handles unsubscription, delivery, and close. Publish,
// Subscribe, and Unsubscribe are all safe for concurrent use.
type Hub[T any] struct {
	policy     OverflowPolicy
	bufferSize int
	logger     *slog.Logger
	onDrop     func()

	publish    chan T
	register   chan *subscription[T]
	unregister chan *subscription[T]
	done       chan struct{}
	closeOnce  sync.Once

	mu   sync.Mutex
	subs map[*subscription[T]]struct{}
}

type subscription[T any] struct {
	ch       chan T
	overflow *int64
	mu       *sync.Mutex
}

// New creates a Hub with the given per-subscriber buffer size and overflow
// policy, and starts its background dispatch loop. onDrop, if given, is
// called once per dropped value under DropNewest, in addition to the
// per-subscriber Overflow() counter — callers that need a single
// process-wide drop counter (e.g. a metrics.Counter) pass it here instead
// of polling every subscription.
func New[T any](bufferSize int, policy OverflowPolicy, logger *slog.Logger, onDrop ...func()) *Hub[T] {
	if bufferSize < 1 {
		bufferSize = 1
	}
	h := &Hub[T]{
		policy:     policy,
		bufferSize: bufferSize,
		logger:     logger,
		publish:    make(chan T, 64),
		register:   make(chan *subscription[T]),
		unregister: make(chan *subscription[T]),
		done:       make(chan struct{}),
		subs:       make(map[*subscription[T]]struct{}),
	}
	if len(onDrop) > 0 {
		h.onDrop = onDrop[0]
	}
	go h.run()
	return h
}

func (h *Hub[T]) run() {
	for {
		select {
		case <-h.done:
			h.mu.Lock()
			for sub := range h.subs {
				close(sub.ch)
				delete(h.subs, sub)
			}
			h.mu.Unlock()
			return
		case sub := <-h.register:
			h.mu.Lock()
			h.subs[sub] = struct{}{}
			h.mu.Unlock()
		case sub := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.subs[sub]; ok {
				close(sub.ch)
				delete(h.subs, sub)
			}
			h.mu.Unlock()
		case value := <-h.publish:
			h.mu.Lock()
			for sub := range h.subs {
				h.deliver(sub, value)
			}
			h.mu.Unlock()
		}
	}
}

func (h *Hub[T]) deliver(sub *subscription[T], value T) {
	select {
	case sub.ch <- value:
		return
	default:
	}

	switch h.policy {
	case DropOldest:
		select {
		case <-sub.ch:
		default:
		}
		select {
		case sub.ch <- value:
		default:
		}
	case DropNewest:
		sub.mu.Lock()
		*sub.overflow++
		sub.mu.Unlock()
		if h.logger != nil {
			h.logger.Debug("pubsub overflow, dropping value")
		}
		if h.onDrop != nil {
			h.onDrop()
		}
	}
}

// Publish fans a value out to every current subscriber. It never blocks the
// caller on a slow subscriber.
func (h *Hub[T]) Publish(value T) {
	select {
	case h.publish <- value:
	case <-h.done:
	}
}

// Subscription is the handle returned by Subscribe. Read from C until it is
// closed by Unsubscribe or Close. Overflow reports how many values this
// subscriber has dropped under DropNewest; it is always zero under
// DropOldest.
type Subscription[T any] struct {
	C    <-chan T
	stop func()
	sub  *subscription[T]
}

// Overflow returns the number of values dropped for this subscriber so far.
func (s *Subscription[T]) Overflow() int64 {
	s.sub.mu.Lock()
	defer s.sub.mu.Unlock()
	return *s.sub.overflow
}

// Unsubscribe stops delivery and closes C.
func (s *Subscription[T]) Unsubscribe() {
	s.stop()
}

// Subscribe registers a new listener and returns its Subscription.
func (h *Hub[T]) Subscribe() *Subscription[T] {
	var overflow int64
	sub := &subscription[T]{
		ch:       make(chan T, h.bufferSize),
		overflow: &overflow,
		mu:       &sync.Mutex{},
	}
	h.mu.Lock()
	select {
	case <-h.done:
		close(sub.ch)
	default:
		h.subs[sub] = struct{}{}
	}
	h.mu.Unlock()
	stopped := false
	var stopOnce sync.Once
	stop := func() {
		stopOnce.Do(func() {
			stopped = true
			select {
			case h.unregister <- sub:
			case <-h.done:
			}
		})
	}
	_ = stopped
	return &Subscription[T]{C: sub.ch, stop: stop, sub: sub}
}

// SubscribeWithReplay registers a new listener whose channel is pre-seeded
// with initial before it starts receiving broadcast values, without
// delivering initial to any other subscriber. Used by streams that replay
// their current value to every new subscriber.
func (h *Hub[T]) SubscribeWithReplay(initial T) *Subscription[T] {
	sub := h.Subscribe()
	select {
	case sub.sub.ch <- initial:
	default:
	}
	return sub
}

// SubscriberCount reports the current number of live subscribers.
func (h *Hub[T]) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Close stops the hub's dispatch loop and closes every subscriber channel.
func (h *Hub[T]) Close() {
	h.closeOnce.Do(func() {
		close(h.done)
	})
}
