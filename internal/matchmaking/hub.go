package matchmaking

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/pairup/matchmaker/internal/events"
)

// DefaultTickInterval is the period between pairing passes.
const DefaultTickInterval = 5 * time.Second

var ErrHubStopped = errors.New("hub stopped")

// Options configures a Hub.
type Options struct {
	// TickInterval is the period between pairing passes. Zero selects
	// DefaultTickInterval.
	TickInterval time.Duration

	// Publisher receives every created room. Nil discards them.
	Publisher events.RoomPublisher

	// NewRoomID generates room identifiers. Nil selects random UUIDs.
	NewRoomID func() string

	Logger *slog.Logger
}

// Stats is a point-in-time view of the hub state.
type Stats struct {
	Online      int `json:"online"`
	Connections int `json:"connections"`
	Queued      int `json:"queued"`
	Rooms       int `json:"rooms"`
}

// Hub is the central brain of the matchmaker. It owns the registry, the
// waiting queue and the room store, and is the only goroutine that touches
// them: inbound events, disconnects and pairing passes are all serialized
// through Run.
type Hub struct {
	registry *Registry
	queue    *Queue
	rooms    *RoomStore

	// queuedBy records the connection that put each queue entry there, so
	// a disconnect withdraws only the entries it owns.
	queuedBy map[string]*Client

	register   chan *Client
	unregister chan *Client
	inbound    chan inbound
	matchNow   chan chan int
	stats      chan chan Stats

	// done is closed when Run returns.
	done chan struct{}

	tickInterval time.Duration
	publisher    events.RoomPublisher
	logger       *slog.Logger
}

type inbound struct {
	client *Client
	msg    *Message
}

// NewHub creates a Hub. Call Run to start processing.
func NewHub(opts Options) *Hub {
	if opts.TickInterval <= 0 {
		opts.TickInterval = DefaultTickInterval
	}
	if opts.Publisher == nil {
		opts.Publisher = events.Noop{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Hub{
		registry:     NewRegistry(),
		queue:        NewQueue(),
		rooms:        NewRoomStore(opts.NewRoomID),
		queuedBy:     make(map[string]*Client),
		register:     make(chan *Client),
		unregister:   make(chan *Client),
		inbound:      make(chan inbound),
		matchNow:     make(chan chan int),
		stats:        make(chan chan Stats),
		done:         make(chan struct{}),
		tickInterval: opts.TickInterval,
		publisher:    opts.Publisher,
		logger:       opts.Logger,
	}
}

// Run starts the hub's main processing loop and blocks until ctx is done.
// It must be called exactly once.
func (h *Hub) Run(ctx context.Context) {
	ticker := time.NewTicker(h.tickInterval)
	defer func() {
		ticker.Stop()
		h.shutdown()
	}()

	h.logger.Info("matchmaker started", "tick_interval", h.tickInterval)

	for {
		select {
		case <-ctx.Done():
			h.logger.Info("matchmaker stopping", "reason", ctx.Err())
			return

		case client := <-h.register:
			h.registry.Connect(client)
			client.logger.Debug("connection registered")

		case client := <-h.unregister:
			h.disconnect(client)

		case in := <-h.inbound:
			h.handle(in.client, in.msg)

		case <-ticker.C:
			h.match()

		case reply := <-h.matchNow:
			reply <- h.match()

		case reply := <-h.stats:
			reply <- h.snapshot()
		}
	}
}

// shutdown closes every remaining outbound channel so write pumps send a
// close frame, then marks the hub as stopped.
func (h *Hub) shutdown() {
	for _, c := range h.registry.Connections() {
		h.registry.Unregister(c)
		close(c.send)
	}
	close(h.done)
}

// Register hands a new connection to the hub. It returns false if the hub
// has stopped.
func (h *Hub) Register(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

// Unregister reports that c has disconnected.
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Dispatch hands an inbound message from c to the hub. It returns false if
// the hub has stopped.
func (h *Hub) Dispatch(c *Client, msg *Message) bool {
	select {
	case h.inbound <- inbound{client: c, msg: msg}:
		return true
	case <-h.done:
		return false
	}
}

// MatchNow runs a pairing pass immediately, serialized with every other hub
// event, and returns the number of rooms it created.
func (h *Hub) MatchNow(ctx context.Context) (int, error) {
	reply := make(chan int, 1)
	select {
	case h.matchNow <- reply:
	case <-ctx.Done():
		return 0, ctx.Err()
	case <-h.done:
		return 0, ErrHubStopped
	}
	return await(ctx, h.done, reply)
}

// Stats returns a snapshot of the hub state.
func (h *Hub) Stats(ctx context.Context) (Stats, error) {
	reply := make(chan Stats, 1)
	select {
	case h.stats <- reply:
	case <-ctx.Done():
		return Stats{}, ctx.Err()
	case <-h.done:
		return Stats{}, ErrHubStopped
	}
	return await(ctx, h.done, reply)
}

func await[T any](ctx context.Context, done <-chan struct{}, reply <-chan T) (T, error) {
	var zero T
	select {
	case v := <-reply:
		return v, nil
	case <-ctx.Done():
		return zero, ctx.Err()
	case <-done:
		select {
		case v := <-reply:
			return v, nil
		default:
			return zero, ErrHubStopped
		}
	}
}

func (h *Hub) snapshot() Stats {
	return Stats{
		Online:      h.registry.Online(),
		Connections: len(h.registry.conns),
		Queued:      h.queue.Len(),
		Rooms:       h.rooms.Len(),
	}
}
