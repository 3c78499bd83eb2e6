package memstore

import (
	"context"
	"sync"

	"github.com/courtline/courtline/internal/broadcast"
)

// Recorder is a broadcast.Publisher that keeps every message.
type Recorder struct {
	mu       sync.Mutex
	messages []broadcast.Message
}

// Publish records msg.
func (r *Recorder) Publish(_ context.Context, msg broadcast.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, msg)
	return nil
}

// Messages returns a copy of what was published.
func (r *Recorder) Messages() []broadcast.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]broadcast.Message(nil), r.messages...)
}

// Events returns the event names in publish order.
func (r *Recorder) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	events := make([]string, len(r.messages))
	for i, m := range r.messages {
		events[i] = m.Event
	}
	return events
}

// Last returns the most recent message with the given event name.
func (r *Recorder) Last(event string) (broadcast.Message, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.messages) - 1; i >= 0; i-- {
		if r.messages[i].Event == event {
			return r.messages[i], true
		}
	}
	return broadcast.Message{}, false
}

// Reset forgets recorded messages.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = nil
}
