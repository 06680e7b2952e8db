package matchmaking

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// maxRoomIDAttempts bounds how many fresh identifiers Create draws before
// giving up on a pairing.
const maxRoomIDAttempts = 8

var ErrRoomIDExhausted = errors.New("room id generator exhausted")

// Room is a pairing of two users. It is immutable once created.
type Room struct {
	ID           string
	Participants [2]string
	CreatedAt    time.Time
}

// RoomStore records every room created during the process lifetime.
// Like Queue, it is owned by the Hub goroutine.
type RoomStore struct {
	rooms map[string]*Room
	newID func() string
	now   func() time.Time
}

// NewRoomStore creates an empty store. newID generates candidate room IDs;
// nil selects random UUIDs.
func NewRoomStore(newID func() string) *RoomStore {
	if newID == nil {
		newID = uuid.NewString
	}
	return &RoomStore{
		rooms: make(map[string]*Room),
		newID: newID,
		now:   time.Now,
	}
}

// Create stores a new room for participants under a fresh identifier.
// An identifier that is already taken is never reused: Create draws again,
// and fails with ErrRoomIDExhausted if every attempt collides.
func (s *RoomStore) Create(participants [2]string) (*Room, error) {
	for range maxRoomIDAttempts {
		id := s.newID()
		if _, taken := s.rooms[id]; taken {
			continue
		}
		room := &Room{
			ID:           id,
			Participants: participants,
			CreatedAt:    s.now(),
		}
		s.rooms[id] = room
		return room, nil
	}
	return nil, ErrRoomIDExhausted
}

// Get returns the room stored under id.
func (s *RoomStore) Get(id string) (*Room, bool) {
	room, ok := s.rooms[id]
	return room, ok
}

// Len returns the number of rooms created so far.
func (s *RoomStore) Len() int {
	return len(s.rooms)
}
