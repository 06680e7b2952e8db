package matchmaking

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pairup/matchmaker/internal/events"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeClient builds a connection with no socket behind it; outbound messages
// accumulate in its send buffer.
func fakeClient(id string, buffer int) *Client {
	return &Client{
		ID:     id,
		codec:  JSON,
		logger: testLogger(),
		send:   make(chan *Message, buffer),
	}
}

// startHub runs a hub whose ticker never fires during the test; passes are
// forced with MatchNow.
func startHub(t *testing.T, opts Options) *Hub {
	t.Helper()
	if opts.TickInterval == 0 {
		opts.TickInterval = time.Hour
	}
	opts.Logger = testLogger()
	h := NewHub(opts)

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(stopped)
	}()
	t.Cleanup(func() {
		cancel()
		<-stopped
	})
	return h
}

func connect(t *testing.T, h *Hub, id string) *Client {
	t.Helper()
	c := fakeClient(id, 64)
	require.True(t, h.Register(c))
	return c
}

func send(t *testing.T, h *Hub, c *Client, typ, userID string) {
	t.Helper()
	require.True(t, h.Dispatch(c, &Message{Type: typ, ID: userID}))
}

// stats doubles as a barrier: every event sent before it has been applied
// once it returns.
func stats(t *testing.T, h *Hub) Stats {
	t.Helper()
	s, err := h.Stats(context.Background())
	require.NoError(t, err)
	return s
}

func matchNow(t *testing.T, h *Hub) int {
	t.Helper()
	n, err := h.MatchNow(context.Background())
	require.NoError(t, err)
	return n
}

// drain returns every message currently buffered for c.
func drain(c *Client) []*Message {
	var out []*Message
	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				return out
			}
			out = append(out, msg)
		default:
			return out
		}
	}
}

func ofType(msgs []*Message, typ string) []*Message {
	var out []*Message
	for _, m := range msgs {
		if m.Type == typ {
			out = append(out, m)
		}
	}
	return out
}

func last(t *testing.T, msgs []*Message, typ string) *Message {
	t.Helper()
	matching := ofType(msgs, typ)
	require.NotEmpty(t, matching, "no %s message", typ)
	return matching[len(matching)-1]
}

type recordingPublisher struct {
	rooms []string
	err   error
}

func (p *recordingPublisher) PublishRoom(event events.RoomCreated) error {
	p.rooms = append(p.rooms, event.RoomID)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }
