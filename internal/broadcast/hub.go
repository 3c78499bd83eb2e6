package broadcast

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

const inboundBufferSize = 1000

// ErrHubBusy is returned when the inbound buffer is full and a message was dropped.
var ErrHubBusy = errors.New("broadcast: hub buffer full")

// Hub keeps per-match subscriber sets and delivers published messages to them.
type Hub struct {
	topics map[int64]map[*Client]struct{}
	mu     sync.RWMutex

	inbound    chan Message
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	observer Observer
	logger   *slog.Logger
}

// NewHub constructs an idle hub; call Run to start delivering.
func NewHub(logger *slog.Logger, observer Observer) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	if observer == nil {
		observer = nopObserver{}
	}
	return &Hub{
		topics:     make(map[int64]map[*Client]struct{}),
		inbound:    make(chan Message, inboundBufferSize),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		observer:   observer,
		logger:     logger,
	}
}

// Run processes registrations and deliveries until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return
		case c := <-h.register:
			h.add(c)
		case c := <-h.unregister:
			h.remove(c)
		case msg := <-h.inbound:
			h.deliver(msg)
		}
	}
}

// Register subscribes c to its match topic.
func (h *Hub) Register(c *Client) {
	select {
	case h.register <- c:
	case <-h.done:
	}
}

// Unregister removes c and closes its send channel.
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Publish enqueues msg without blocking. A full buffer drops the message.
func (h *Hub) Publish(_ context.Context, msg Message) error {
	select {
	case h.inbound <- msg:
		return nil
	default:
		h.observer.MessageDropped("hub_full")
		return ErrHubBusy
	}
}

// Subscribers returns the number of connected clients.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.countLocked()
}

func (h *Hub) countLocked() int {
	n := 0
	for _, set := range h.topics {
		n += len(set)
	}
	return n
}

func (h *Hub) add(c *Client) {
	h.mu.Lock()
	set, ok := h.topics[c.MatchID]
	if !ok {
		set = make(map[*Client]struct{})
		h.topics[c.MatchID] = set
	}
	set[c] = struct{}{}
	count := h.countLocked()
	h.mu.Unlock()

	h.observer.SubscribersChanged(count)
	h.logger.Debug("subscriber connected", slog.String("client_id", c.ID), slog.Int64("match_id", c.MatchID), slog.Int("total", count))
}

func (h *Hub) remove(c *Client) {
	h.mu.Lock()
	set, ok := h.topics[c.MatchID]
	if !ok {
		h.mu.Unlock()
		return
	}
	if _, ok := set[c]; !ok {
		h.mu.Unlock()
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(h.topics, c.MatchID)
	}
	close(c.Send)
	count := h.countLocked()
	h.mu.Unlock()

	h.observer.SubscribersChanged(count)
	h.logger.Debug("subscriber disconnected", slog.String("client_id", c.ID), slog.Int("total", count))
}

// deliver sends msg to the match topic and to clients watching every match.
// Clients whose buffer is full are disconnected.
func (h *Hub) deliver(msg Message) {
	h.mu.RLock()
	targets := make([]*Client, 0, len(h.topics[msg.MatchID])+len(h.topics[AllMatches]))
	for c := range h.topics[msg.MatchID] {
		targets = append(targets, c)
	}
	if msg.MatchID != AllMatches {
		for c := range h.topics[AllMatches] {
			targets = append(targets, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range targets {
		if c.TrySend(msg) {
			continue
		}
		h.observer.MessageDropped("slow_client")
		h.logger.Warn("subscriber too slow, disconnecting", slog.String("client_id", c.ID))
		go h.Unregister(c)
	}
	h.observer.MessagePublished(msg.Event)
}

func (h *Hub) shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for matchID, set := range h.topics {
		for c := range set {
			close(c.Send)
		}
		delete(h.topics, matchID)
	}
	h.observer.SubscribersChanged(0)
}
