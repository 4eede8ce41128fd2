package notify

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Hub is a broadcast change-notification registry.
//
// Publish offers every event to every subscriber; a subscriber receives
// the event only if its watched table set intersects the event's table
// set. The zero value is not usable; construct with NewHub.
type Hub struct {
	mu     sync.Mutex
	subs   map[string]*subscriber
	closed bool
	log    *zap.Logger
}

// HubOption configures a Hub.
type HubOption func(*Hub)

// WithLogger attaches a logger for debug-level subscription and delivery
// diagnostics. The default is a nop logger.
func WithLogger(log *zap.Logger) HubOption {
	return func(h *Hub) {
		if log != nil {
			h.log = log
		}
	}
}

// NewHub creates an empty hub.
func NewHub(opts ...HubOption) *Hub {
	h := &Hub{
		subs: make(map[string]*subscriber),
		log:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Subscription is one subscriber's live view of qualifying change events.
type Subscription struct {
	// Events delivers qualifying change events in publish order. The
	// channel is closed after Cancel (or Hub.Close), once any already
	// queued events have been delivered or discarded.
	Events <-chan ChangeEvent

	cancel func()
}

// Cancel releases the subscription. Idempotent. No events are delivered
// after the Events channel closes.
func (s *Subscription) Cancel() {
	s.cancel()
}

// subscriber pairs a watched set with its private delivery queue.
type subscriber struct {
	id      string
	watched map[string]struct{}
	queue   *eventQueue
	out     chan ChangeEvent
	done    chan struct{}
	stop    sync.Once
}

// Watch registers a subscriber for changes to any of the given tables.
// Table names are NFC-normalized. Watching an empty table set is allowed
// but can never match an event; callers that want "no invalidation"
// should skip subscribing instead.
func (h *Hub) Watch(tables []string) *Subscription {
	sub := &subscriber{
		id:      uuid.NewString(),
		watched: normalizeSet(tables),
		queue:   newEventQueue(),
		out:     make(chan ChangeEvent),
		done:    make(chan struct{}),
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		// Hub already closed: hand back a terminated subscription.
		close(sub.out)
		return &Subscription{Events: sub.out, cancel: func() {}}
	}
	h.subs[sub.id] = sub
	h.mu.Unlock()

	h.log.Debug("notify: subscribed", zap.String("id", sub.id), zap.Int("tables", len(sub.watched)))

	go sub.pump()

	return &Subscription{
		Events: sub.out,
		cancel: func() { h.unsubscribe(sub) },
	}
}

// Publish fans ev out to every subscriber whose watched set intersects
// ev.Tables. Never blocks on subscribers. Events published after Close
// are discarded.
func (h *Hub) Publish(ev ChangeEvent) {
	if len(ev.Tables) == 0 {
		return
	}
	ev.Tables = normalizeTables(ev.Tables)

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	targets := make([]*subscriber, 0, len(h.subs))
	for _, sub := range h.subs {
		if ev.Affects(sub.watched) {
			targets = append(targets, sub)
		}
	}
	h.mu.Unlock()

	for _, sub := range targets {
		sub.queue.enqueue(ev)
	}
}

// Close terminates every subscription and rejects further publishes.
// Idempotent.
func (h *Hub) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	subs := make([]*subscriber, 0, len(h.subs))
	for _, sub := range h.subs {
		subs = append(subs, sub)
	}
	h.subs = make(map[string]*subscriber)
	h.mu.Unlock()

	for _, sub := range subs {
		sub.terminate()
	}
}

// unsubscribe removes sub from the registry and terminates it.
func (h *Hub) unsubscribe(sub *subscriber) {
	h.mu.Lock()
	delete(h.subs, sub.id)
	h.mu.Unlock()

	sub.terminate()
	h.log.Debug("notify: unsubscribed", zap.String("id", sub.id))
}

// terminate stops the pump and closes the queue. Idempotent: Cancel and
// Hub.Close may race on the same subscriber.
func (s *subscriber) terminate() {
	s.stop.Do(func() {
		close(s.done)
		s.queue.close()
	})
}

// pump drains the private queue into the out channel, preserving order.
// Exits when the subscription is cancelled or the queue is closed and
// empty; always closes out on the way out.
func (s *subscriber) pump() {
	defer close(s.out)
	for {
		ev, ok := s.queue.tryDequeue()
		if ok {
			select {
			case s.out <- ev:
			case <-s.done:
				return
			}
			continue
		}

		if s.queue.isClosed() {
			return
		}

		select {
		case <-s.queue.wait():
		case <-s.done:
			return
		}
	}
}
