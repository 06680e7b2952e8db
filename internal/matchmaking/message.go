package matchmaking

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Message defines the structure for all client-to-server and server-to-client
// websocket events.
type Message struct {
	Type         string   `json:"type" msgpack:"type"`
	ID           string   `json:"id,omitempty" msgpack:"id,omitempty"`
	Size         *int     `json:"size,omitempty" msgpack:"size,omitempty"`
	RoomID       string   `json:"roomID,omitempty" msgpack:"roomID,omitempty"`
	Participants []string `json:"participants,omitempty" msgpack:"participants,omitempty"`
}

// Inbound event types.
const (
	TypePresenceAnnounce = "presence-announce"
	TypeQueueJoin        = "queue-join"
	TypeQueueLeave       = "queue-leave"
)

// Outbound event types.
const (
	TypeOnlineCountChanged = "online-count-changed"
	TypeQueueSizeChanged   = "queue-size-changed"
	TypeRoomAssigned       = "room-assigned"
)

var (
	ErrInvalidMessage     = errors.New("invalid message")
	ErrUnknownMessageType = errors.New("unknown message type")
)

var validate = validator.New()

type inboundEvent struct {
	Type string `validate:"required"`
	ID   string `validate:"required,max=128,printascii"`
}

// ValidateInbound checks that msg is one of the events a client may send.
func ValidateInbound(msg *Message) error {
	if msg == nil {
		return ErrInvalidMessage
	}
	switch msg.Type {
	case TypePresenceAnnounce, TypeQueueJoin, TypeQueueLeave:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMessageType, msg.Type)
	}
	if err := validate.Struct(inboundEvent{Type: msg.Type, ID: msg.ID}); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}
	return nil
}

func countMessage(typ string, size int) *Message {
	return &Message{Type: typ, Size: &size}
}

func roomAssignedMessage(room *Room) *Message {
	return &Message{
		Type:         TypeRoomAssigned,
		RoomID:       room.ID,
		Participants: []string{room.Participants[0], room.Participants[1]},
	}
}

// Count returns the size carried by a count notification, or -1 when absent.
func (m *Message) Count() int {
	if m.Size == nil {
		return -1
	}
	return *m.Size
}
