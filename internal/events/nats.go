package events

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

// NATSPublisher publishes rooms as JSON on a NATS subject. Publish only
// buffers the message in the client, so it does not stall the caller while
// the server is reachable.
type NATSPublisher struct {
	conn    *nats.Conn
	subject string
}

// NewNATSPublisher connects to the NATS server at url.
func NewNATSPublisher(url, subject string, logger *slog.Logger) (*NATSPublisher, error) {
	if subject == "" {
		subject = DefaultSubject
	}

	conn, err := nats.Connect(
		url,
		nats.Name("matchmaker"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("nats reconnected", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}

	return &NATSPublisher{conn: conn, subject: subject}, nil
}

func (p *NATSPublisher) PublishRoom(event RoomCreated) error {
	data, err := encode(event)
	if err != nil {
		return fmt.Errorf("encode room %s: %w", event.RoomID, err)
	}
	if err := p.conn.Publish(p.subject, data); err != nil {
		return fmt.Errorf("publish room %s: %w", event.RoomID, err)
	}
	return nil
}

// Close flushes pending publishes and closes the connection.
func (p *NATSPublisher) Close() error {
	return p.conn.Drain()
}

// New returns a NATS publisher when url is set and a Noop otherwise.
func New(url, subject string, logger *slog.Logger) (RoomPublisher, error) {
	if url == "" {
		return Noop{}, nil
	}
	return NewNATSPublisher(url, subject, logger)
}
