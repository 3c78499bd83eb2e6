// Package broadcast fans scoreboard state out to viewers subscribed to a match.
// Delivery is fire-and-forget and at-most-once: there is no acknowledgement
// and no replay, viewers resynchronize through the read endpoints.
package broadcast

import (
	"context"
	"time"
)

// Event names understood by scoreboard viewers.
const (
	EventPeriodSync    = "periodSync"
	EventServerMessage = "serverMessage"
	EventScoreUpdated  = "scoreUpdated"
	EventFoulsSync     = "foulsSync"
	EventTimeoutsSync  = "timeoutsSync"
	EventTimerSync     = "timerSync"
	EventMatchClosed   = "partidoCerrado"
	EventMatchReset    = "partidoReset"
	EventScoreboard    = "scoreboardSync"
)

// AllMatches subscribes to every match.
const AllMatches int64 = 0

// Message is the envelope pushed to subscribers.
type Message struct {
	MatchID int64     `json:"matchId"`
	Event   string    `json:"event"`
	Payload any       `json:"payload,omitempty"`
	SentAt  time.Time `json:"sentAt"`
}

// ServerText is the payload of EventServerMessage.
type ServerText struct {
	Message string `json:"message"`
}

// MatchRef is the payload of match lifecycle events.
type MatchRef struct {
	MatchID int64 `json:"partidoId"`
}

// Publisher delivers a message to the subscribers of its match.
type Publisher interface {
	Publish(ctx context.Context, msg Message) error
}

// PublisherFunc adapts a function to Publisher.
type PublisherFunc func(ctx context.Context, msg Message) error

// Publish calls f.
func (f PublisherFunc) Publish(ctx context.Context, msg Message) error {
	return f(ctx, msg)
}

// Observer receives delivery statistics. Implementations must be safe for
// concurrent use.
type Observer interface {
	MessagePublished(event string)
	MessageDropped(reason string)
	SubscribersChanged(count int)
}

type nopObserver struct{}

func (nopObserver) MessagePublished(string) {}
func (nopObserver) MessageDropped(string)   {}
func (nopObserver) SubscribersChanged(int)  {}
