package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHub() *EventHub {
	return &EventHub{subscribers: map[chan string]struct{}{}}
}

func TestEventHubFanOut(t *testing.T) {
	t.Parallel()

	hub := newTestHub()
	a := hub.Subscribe()
	b := hub.Subscribe()

	hub.Publish(`{"action":"created"}`)

	assert.Equal(t, `{"action":"created"}`, <-a)
	assert.Equal(t, `{"action":"created"}`, <-b)
}

func TestEventHubSlowSubscriberDoesNotBlock(t *testing.T) {
	t.Parallel()

	hub := newTestHub()
	slow := hub.Subscribe()

	// More events than the channel buffer; Publish must never block even
	// though nobody is reading.
	for i := 0; i < eventBufferSize+5; i++ {
		hub.Publish("event")
	}

	received := 0
	for {
		select {
		case <-slow:
			received++
			continue
		default:
		}

		break
	}

	assert.Equal(t, eventBufferSize, received, "overflow events are dropped, not queued")
}

func TestEventHubUnsubscribeClosesChannel(t *testing.T) {
	t.Parallel()

	hub := newTestHub()
	ch := hub.Subscribe()
	hub.Unsubscribe(ch)

	_, open := <-ch
	require.False(t, open)

	// Repeated unsubscribe and later publishes are no-ops for a gone
	// subscriber.
	hub.Unsubscribe(ch)
	hub.Publish("event")
}
