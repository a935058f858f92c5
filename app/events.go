package app

import (
	"sync"
)

const eventBufferSize int = 16

// EventHub fans report change events out to subscribed moderation streams.
// A subscriber that cannot keep up loses events instead of blocking the
// publisher; the paginated list stays the source of truth.
type EventHub struct {
	mu          sync.Mutex
	subscribers map[chan string]struct{}
}

func (h *EventHub) Subscribe() chan string {
	ch := make(chan string, eventBufferSize)

	h.mu.Lock()
	defer h.mu.Unlock()

	h.subscribers[ch] = struct{}{}

	return ch
}

func (h *EventHub) Unsubscribe(ch chan string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.subscribers[ch]; ok {
		delete(h.subscribers, ch)
		close(ch)
	}
}

func (h *EventHub) Publish(event string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.subscribers {
		select {
		case ch <- event:
		default:
		}
	}
}

var (
	reportEvents     *EventHub
	reportEventsOnce sync.Once
)

func ReportEvents() *EventHub {
	reportEventsOnce.Do(func() {
		reportEvents = &EventHub{subscribers: map[chan string]struct{}{}}
	})

	return reportEvents
}
