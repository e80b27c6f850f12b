package realtime

import (
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestBroker() *Broker {
	return NewBroker(slog.New(slog.NewTextHandler(os.Stdout, nil)))
}

func TestBroker_Broadcast(t *testing.T) {
	broker := newTestBroker()
	subscriber := broker.Subscribe()
	subscriber.Join(UserChannel(123))

	broker.Broadcast(UserChannel(123), "newMessage", "hello")

	event := <-subscriber.Events()
	assert.Equal(t, "newMessage", event.Name)
	assert.Equal(t, "hello", event.Payload)
}

func TestBroker_Broadcast_MultipleSubscribers(t *testing.T) {
	broker := newTestBroker()
	first := broker.Subscribe()
	first.Join(CommunityChannel(7))
	second := broker.Subscribe()
	second.Join(CommunityChannel(7))

	broker.Broadcast(CommunityChannel(7), "newCommunityMessage", "hi all")

	assert.Equal(t, "hi all", (<-first.Events()).Payload)
	assert.Equal(t, "hi all", (<-second.Events()).Payload)
}

func TestBroker_Broadcast_NoSubscribers(t *testing.T) {
	broker := newTestBroker()

	// no-op rather than an error
	broker.Broadcast(UserChannel(999), "newMessage", "into the void")
}

func TestBroker_Broadcast_OnlyReachesJoinedChannels(t *testing.T) {
	broker := newTestBroker()
	subscriber := broker.Subscribe()
	subscriber.Join(UserChannel(1))

	broker.Broadcast(UserChannel(2), "newMessage", "not for you")

	assert.Empty(t, subscriber.Events())
}

func TestBroker_Broadcast_DropsWhenQueueFull(t *testing.T) {
	broker := newTestBroker()
	subscriber := broker.Subscribe()
	subscriber.Join(UserChannel(1))

	for i := 0; i < queueSize+10; i++ {
		broker.Broadcast(UserChannel(1), "newMessage", i)
	}

	// the first queueSize events survive, the rest are dropped
	assert.Len(t, subscriber.Events(), queueSize)
	assert.Equal(t, 0, (<-subscriber.Events()).Payload)
}

func TestBroker_Leave(t *testing.T) {
	broker := newTestBroker()
	subscriber := broker.Subscribe()
	subscriber.Join(CommunityChannel(7))
	subscriber.Leave(CommunityChannel(7))

	broker.Broadcast(CommunityChannel(7), "newCommunityMessage", "gone")

	assert.Empty(t, subscriber.Events())
}

func TestBroker_Unsubscribe(t *testing.T) {
	broker := newTestBroker()
	subscriber := broker.Subscribe()
	subscriber.Join(UserChannel(1))
	subscriber.Join(CommunityChannel(7))

	broker.Unsubscribe(subscriber)

	_, open := <-subscriber.Events()
	assert.False(t, open)
	assert.Empty(t, broker.channels)
}

func TestBroker_Unsubscribe_Twice(t *testing.T) {
	broker := newTestBroker()
	subscriber := broker.Subscribe()
	subscriber.Join(UserChannel(1))

	broker.Unsubscribe(subscriber)
	broker.Unsubscribe(subscriber)
}
