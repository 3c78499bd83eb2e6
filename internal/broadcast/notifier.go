package broadcast

import (
	"context"
	"log/slog"
	"time"
)

// Notifier is what services use after a successful commit. Failures are
// logged and swallowed so a broken broadcast path never fails a mutation.
type Notifier struct {
	publisher Publisher
	logger    *slog.Logger
	now       func() time.Time
}

// NewNotifier constructs a Notifier. A nil publisher disables delivery.
func NewNotifier(publisher Publisher, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{publisher: publisher, logger: logger, now: time.Now}
}

// WithNow overrides the clock for deterministic tests.
func (n *Notifier) WithNow(now func() time.Time) {
	if now != nil {
		n.now = now
	}
}

// Notify publishes event with payload to the match topic. The request context
// may already be cancelled once the transaction commits, so delivery runs
// detached from it.
func (n *Notifier) Notify(ctx context.Context, matchID int64, event string, payload any) {
	if n == nil || n.publisher == nil {
		return
	}
	msg := Message{MatchID: matchID, Event: event, Payload: payload, SentAt: n.now().UTC()}
	if err := n.publisher.Publish(context.WithoutCancel(ctx), msg); err != nil {
		n.logger.Warn("broadcast publish",
			slog.Int64("match_id", matchID),
			slog.String("event", event),
			slog.Any("error", err))
	}
}

// Announce publishes a server message to the match topic.
func (n *Notifier) Announce(ctx context.Context, matchID int64, text string) {
	if text == "" {
		return
	}
	n.Notify(ctx, matchID, EventServerMessage, ServerText{Message: text})
}
