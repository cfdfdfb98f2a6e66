// Package notify delivers portal events (new applications, status changes)
// to the users they concern.
package notify

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type EventType string

const (
	EventApplicationSubmitted     EventType = "application.submitted"
	EventApplicationStatusChanged EventType = "application.status_changed"
	EventJobUpdated               EventType = "job.updated"
)

// Event is a notification addressed to one or more principals.
type Event struct {
	Type          EventType   `json:"type"`
	Recipients    []uuid.UUID `json:"recipients"`
	JobID         uuid.UUID   `json:"job_id,omitempty"`
	ApplicationID uuid.UUID   `json:"application_id,omitempty"`
	Status        string      `json:"status,omitempty"`
	Message       string      `json:"message"`
	At            time.Time   `json:"at"`
}

// Publisher is what the services depend on.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Subscription receives the events addressed to one principal.
type Subscription struct {
	C      <-chan Event
	cancel func()
}

// Close stops delivery and releases the subscription.
func (s *Subscription) Close() { s.cancel() }

const subscriberBuffer = 16

type subscriber struct {
	ch chan Event
}

// Hub fans events out to in-process subscribers.
type Hub struct {
	mu     sync.RWMutex
	subs   map[uuid.UUID]map[*subscriber]struct{}
	closed bool
}

var _ Publisher = (*Hub)(nil)

func NewHub() *Hub {
	return &Hub{subs: map[uuid.UUID]map[*subscriber]struct{}{}}
}

// Subscribe registers a listener for events addressed to principalID.
func (h *Hub) Subscribe(principalID uuid.UUID) *Subscription {
	sub := &subscriber{ch: make(chan Event, subscriberBuffer)}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		close(sub.ch)
		return &Subscription{C: sub.ch, cancel: func() {}}
	}
	if h.subs[principalID] == nil {
		h.subs[principalID] = map[*subscriber]struct{}{}
	}
	h.subs[principalID][sub] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return &Subscription{C: sub.ch, cancel: func() {
		once.Do(func() { h.unsubscribe(principalID, sub) })
	}}
}

func (h *Hub) unsubscribe(principalID uuid.UUID, sub *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.subs[principalID]
	if !ok {
		return
	}
	if _, ok := set[sub]; !ok {
		return
	}
	delete(set, sub)
	if len(set) == 0 {
		delete(h.subs, principalID)
	}
	close(sub.ch)
}

// Publish delivers event to every subscriber of its recipients. Slow
// subscribers whose buffer is full miss the event.
func (h *Hub) Publish(ctx context.Context, event Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if event.At.IsZero() {
		event.At = time.Now().UTC()
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		return nil
	}

	seen := map[uuid.UUID]bool{}
	for _, recipient := range event.Recipients {
		if seen[recipient] {
			continue
		}
		seen[recipient] = true
		for sub := range h.subs[recipient] {
			select {
			case sub.ch <- event:
			default:
				log.Warnf("Dropping %s event for %s: subscriber buffer full", event.Type, recipient)
			}
		}
	}
	return nil
}

// Subscribers reports how many subscriptions principalID holds.
func (h *Hub) Subscribers(principalID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[principalID])
}

// Close ends every subscription.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for id, set := range h.subs {
		for sub := range set {
			close(sub.ch)
		}
		delete(h.subs, id)
	}
}
