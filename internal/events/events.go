// Package events fans created rooms out to other services, such as the peer
// session layer that turns a room ID into a live call.
package events

import (
	"encoding/json"
	"time"
)

// DefaultSubject is the subject rooms are published on when none is configured.
const DefaultSubject = "matchmaker.rooms"

// RoomCreated is published once for every room the matchmaker creates.
type RoomCreated struct {
	RoomID       string    `json:"roomID"`
	Participants [2]string `json:"participants"`
	CreatedAt    time.Time `json:"createdAt"`
}

// RoomPublisher delivers RoomCreated events. Implementations must not block
// for long: PublishRoom is called from the matchmaking loop.
type RoomPublisher interface {
	PublishRoom(event RoomCreated) error
	Close() error
}

// Noop discards every event. It is used when no broker is configured.
type Noop struct{}

func (Noop) PublishRoom(RoomCreated) error { return nil }
func (Noop) Close() error                  { return nil }

func encode(event RoomCreated) ([]byte, error) {
	return json.Marshal(event)
}
