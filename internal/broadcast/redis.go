package broadcast

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"
)

// DefaultChannelPrefix namespaces match channels in Redis.
const DefaultChannelPrefix = "courtline:match"

// ChannelName returns the Redis channel carrying a match's messages.
func ChannelName(prefix string, matchID int64) string {
	return prefix + ":" + strconv.FormatInt(matchID, 10)
}

// RedisPublisher publishes messages to per-match Redis channels so every API
// instance running a Relay can deliver them to its own subscribers.
type RedisPublisher struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisPublisher constructs a RedisPublisher.
func NewRedisPublisher(client redis.UniversalClient, prefix string) *RedisPublisher {
	if prefix == "" {
		prefix = DefaultChannelPrefix
	}
	return &RedisPublisher{client: client, prefix: prefix}
}

// Publish encodes msg as JSON and publishes it on the match channel.
func (p *RedisPublisher) Publish(ctx context.Context, msg Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("broadcast: encode message: %w", err)
	}
	if err := p.client.Publish(ctx, ChannelName(p.prefix, msg.MatchID), data).Err(); err != nil {
		return fmt.Errorf("broadcast: redis publish: %w", err)
	}
	return nil
}

// Relay forwards messages from Redis match channels to a local Publisher,
// normally the Hub.
type Relay struct {
	client redis.UniversalClient
	prefix string
	target Publisher
	logger *slog.Logger
}

// NewRelay constructs a Relay.
func NewRelay(client redis.UniversalClient, prefix string, target Publisher, logger *slog.Logger) *Relay {
	if prefix == "" {
		prefix = DefaultChannelPrefix
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Relay{client: client, prefix: prefix, target: target, logger: logger}
}

// Run subscribes to every match channel and blocks until ctx is cancelled.
func (r *Relay) Run(ctx context.Context) error {
	sub := r.client.PSubscribe(ctx, r.prefix+":*")
	defer func() { _ = sub.Close() }()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("broadcast: subscribe: %w", err)
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case m, ok := <-ch:
			if !ok {
				return nil
			}
			r.forward(ctx, m)
		}
	}
}

func (r *Relay) forward(ctx context.Context, m *redis.Message) {
	if !strings.HasPrefix(m.Channel, r.prefix+":") {
		return
	}
	var msg Message
	if err := json.Unmarshal([]byte(m.Payload), &msg); err != nil {
		r.logger.Warn("relay decode", slog.String("channel", m.Channel), slog.Any("error", err))
		return
	}
	if err := r.target.Publish(ctx, msg); err != nil {
		r.logger.Warn("relay deliver", slog.Int64("match_id", msg.MatchID), slog.Any("error", err))
	}
}
