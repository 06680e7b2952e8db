// Package client talks to a matchmaker server over its websocket protocol.
package client

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/pairup/matchmaker/internal/config"
	"github.com/pairup/matchmaker/internal/matchmaking"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
	bufferSize     = 16
)

// Client manages the websocket connection to the matchmaker.
type Client struct {
	conn      *websocket.Conn
	serverURL string
	codec     matchmaking.Codec
	logger    *slog.Logger
	incoming  chan *matchmaking.Message
	outgoing  chan *matchmaking.Message
	done      chan struct{}
	closeOnce sync.Once
}

// New creates a client for serverURL. A nil codec means JSON.
func New(serverURL string, codec matchmaking.Codec, logger *slog.Logger) *Client {
	if codec == nil {
		codec = matchmaking.JSON
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		serverURL: serverURL,
		codec:     codec,
		logger:    logger,
		incoming:  make(chan *matchmaking.Message, bufferSize),
		outgoing:  make(chan *matchmaking.Message, bufferSize),
		done:      make(chan struct{}),
	}
}

// Dial creates a client from cfg and connects it.
func Dial(ctx context.Context, cfg *config.Client, logger *slog.Logger) (*Client, error) {
	c := New(cfg.ServerURL, matchmaking.CodecFor(cfg.Codec), logger)
	if err := c.Connect(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// Connect establishes the websocket connection and starts the pumps.
func (c *Client) Connect(ctx context.Context) error {
	dialer := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: 10 * time.Second,
		Subprotocols:     []string{c.codec.Name()},
	}

	conn, resp, err := dialer.DialContext(ctx, c.serverURL, nil)
	if err != nil {
		if resp != nil {
			return WrapError("connect", ErrServerRejected, resp.Status)
		}
		return NewError("connect", err)
	}

	// An old server may ignore the subprotocol and speak JSON
	if got := conn.Subprotocol(); got != c.codec.Name() {
		c.logger.Debug("server did not accept codec", "wanted", c.codec.Name(), "got", got)
		c.codec = matchmaking.CodecFor(got)
	}

	c.conn = conn
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	go c.readPump()
	go c.writePump()

	return nil
}

// readPump reads messages from the websocket connection.
func (c *Client) readPump() {
	defer func() {
		c.Close()
		c.conn.Close()
		close(c.incoming)
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Debug("connection lost", "error", err)
			}
			return
		}

		var msg matchmaking.Message
		if err := c.codec.Decode(data, &msg); err != nil {
			c.logger.Warn("dropping undecodable message", "error", err)
			continue
		}

		select {
		case c.incoming <- &msg:
		case <-c.done:
			return
		}
	}
}

// writePump writes messages to the websocket connection and sends periodic pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message := <-c.outgoing:
			data, err := c.codec.Encode(message)
			if err != nil {
				c.logger.Warn("dropping unencodable message", "type", message.Type, "error", err)
				continue
			}
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(c.codec.FrameType(), data); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			// Queued messages still go out, so a final queue-leave reaches
			// the server.
			c.flush()
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

func (c *Client) flush() {
	for {
		select {
		case message := <-c.outgoing:
			data, err := c.codec.Encode(message)
			if err != nil {
				continue
			}
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(c.codec.FrameType(), data); err != nil {
				return
			}
		default:
			return
		}
	}
}

// Send queues msg for delivery.
func (c *Client) Send(msg *matchmaking.Message) error {
	select {
	case <-c.done:
		return NewError(fmt.Sprintf("send %s", msg.Type), ErrConnectionClosed)
	default:
	}

	select {
	case c.outgoing <- msg:
		return nil
	case <-c.done:
		return NewError(fmt.Sprintf("send %s", msg.Type), ErrConnectionClosed)
	}
}

// Incoming returns the channel of server events. It is closed when the
// connection ends.
func (c *Client) Incoming() <-chan *matchmaking.Message {
	return c.incoming
}

// Done is closed once the client is closed or the server hangs up.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Codec reports the codec in use after negotiation.
func (c *Client) Codec() matchmaking.Codec {
	return c.codec
}

// Close closes the websocket connection and cleans up resources.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
}
