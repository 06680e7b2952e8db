package matchmaking

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer. Inbound events only carry an id.
	maxMessageSize = 4 * 1024
)

// Client is a wrapper for a single websocket connection.
type Client struct {
	// ID identifies the connection itself, independent of the user ID the
	// client declares.
	ID string

	hub    *Hub
	conn   *websocket.Conn
	codec  Codec
	logger *slog.Logger

	// send is a buffered channel of outbound messages. The hub writes to it
	// and closes it on unregister; WritePump drains it to the socket.
	send chan *Message

	// userID is the last identity announced on this connection. Only the
	// hub goroutine touches it.
	userID string
}

// NewClient wraps conn for hub. sendBuffer sizes the outbound channel.
func NewClient(hub *Hub, conn *websocket.Conn, codec Codec, sendBuffer int) *Client {
	id := uuid.NewString()
	return &Client{
		ID:     id,
		hub:    hub,
		conn:   conn,
		codec:  codec,
		logger: hub.logger.With("conn_id", id),
		send:   make(chan *Message, sendBuffer),
	}
}

// ReadPump pumps messages from the websocket connection to the hub.
//
// The application runs ReadPump in a per-connection goroutine. The application
// ensures that there is at most one reader on a connection by executing all
// reads from this goroutine.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn("websocket read failed", "error", err)
			}
			return
		}

		var msg Message
		if err := c.codec.Decode(data, &msg); err != nil {
			c.logger.Warn("dropping undecodable message", "codec", c.codec.Name(), "error", err)
			continue
		}

		if !c.hub.Dispatch(c, &msg) {
			return
		}
	}
}

// WritePump pumps messages from the hub to the websocket connection.
//
// A goroutine running WritePump is started for each connection. The
// application ensures that there is at most one writer to a connection by
// executing all writes from this goroutine.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			data, err := c.codec.Encode(message)
			if err != nil {
				c.logger.Error("encoding outbound message", "type", message.Type, "error", err)
				continue
			}
			if err := c.conn.WriteMessage(c.codec.FrameType(), data); err != nil {
				c.logger.Debug("websocket write failed", "error", err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
