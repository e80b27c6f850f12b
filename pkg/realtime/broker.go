// Package realtime delivers newly persisted messages to connected clients. The
// broker holds no durable state: a dropped connection loses only in-flight
// pushes, never data, since messages are persisted before broadcast.
package realtime

import (
	"fmt"
	"log/slog"
	"sync"
)

// UserChannel is the per-user channel every connection joins once identified.
func UserChannel(userID uint) string {
	return fmt.Sprintf("user_%d", userID)
}

// CommunityChannel is the broadcast channel for one community.
func CommunityChannel(communityID uint) string {
	return fmt.Sprintf("community_%d", communityID)
}

// Event is one push to a subscriber.
type Event struct {
	Name    string `json:"event"`
	Payload any    `json:"payload"`
}

// queueSize bounds the per-subscriber outbound queue. A subscriber that cannot
// keep up has events dropped rather than blocking the sender.
const queueSize = 64

func NewBroker(logger *slog.Logger) *Broker {
	return &Broker{
		logger:   logger,
		channels: make(map[string]map[*Subscriber]struct{}),
	}
}

type Broker struct {
	logger   *slog.Logger
	lock     sync.Mutex
	channels map[string]map[*Subscriber]struct{}
}

type Subscriber struct {
	broker *Broker
	queue  chan Event
	// channel names this subscriber has joined, guarded by the broker lock
	joined map[string]struct{}
	closed bool
}

// Subscribe registers a new connection with the broker. The caller consumes
// Events and must call Unsubscribe when the connection goes away.
func (b *Broker) Subscribe() *Subscriber {
	return &Subscriber{
		broker: b,
		queue:  make(chan Event, queueSize),
		joined: make(map[string]struct{}),
	}
}

// Unsubscribe removes the subscriber from all joined channels and closes its
// event queue.
func (b *Broker) Unsubscribe(s *Subscriber) {
	b.lock.Lock()
	defer b.lock.Unlock()

	if s.closed {
		return
	}
	s.closed = true

	for channel := range s.joined {
		b.removeLocked(channel, s)
	}
	close(s.queue)
}

// Broadcast delivers an event to every subscriber of the channel. Delivery is
// best-effort and at-most-once: there is no acknowledgment or retry, and a full
// subscriber queue drops the event instead of blocking the sender.
func (b *Broker) Broadcast(channel string, name string, payload any) {
	b.lock.Lock()
	defer b.lock.Unlock()

	for subscriber := range b.channels[channel] {
		select {
		case subscriber.queue <- Event{Name: name, Payload: payload}:
		default:
			b.logger.Warn("Dropping event for slow subscriber", "channel", channel, "event", name)
		}
	}
}

// Events is the subscriber's ordered stream of pushes. It is closed by
// Unsubscribe.
func (s *Subscriber) Events() <-chan Event {
	return s.queue
}

// Join adds the subscriber to a channel. Joining twice is a no-op.
func (s *Subscriber) Join(channel string) {
	b := s.broker
	b.lock.Lock()
	defer b.lock.Unlock()

	if s.closed {
		return
	}

	s.joined[channel] = struct{}{}
	subscribers, ok := b.channels[channel]
	if !ok {
		subscribers = make(map[*Subscriber]struct{})
		b.channels[channel] = subscribers
	}
	subscribers[s] = struct{}{}
}

// Leave removes the subscriber from a channel.
func (s *Subscriber) Leave(channel string) {
	b := s.broker
	b.lock.Lock()
	defer b.lock.Unlock()

	delete(s.joined, channel)
	b.removeLocked(channel, s)
}

func (b *Broker) removeLocked(channel string, s *Subscriber) {
	subscribers, ok := b.channels[channel]
	if !ok {
		return
	}
	delete(subscribers, s)
	if len(subscribers) == 0 {
		delete(b.channels, channel)
	}
}
