package client

import (
	"context"
	"errors"

	"github.com/samber/lo"

	"github.com/pairup/matchmaker/internal/matchmaking"
)

// Counts is the latest lobby state seen by a session. -1 means the server
// has not reported that count yet.
type Counts struct {
	Online int
	Queued int
}

// Assignment is the room the matchmaker put this session's user in.
type Assignment struct {
	RoomID       string
	Participants []string
}

// Peer returns the other participant.
func (a *Assignment) Peer(self string) string {
	peer, _ := lo.Find(a.Participants, func(p string) bool { return p != self })
	return peer
}

// Session drives one user through the lobby: announce, queue, and wait for
// a room.
type Session struct {
	client *Client
	userID string
	counts Counts
}

func NewSession(client *Client, userID string) *Session {
	return &Session{
		client: client,
		userID: userID,
		counts: Counts{Online: -1, Queued: -1},
	}
}

func (s *Session) UserID() string {
	return s.userID
}

func (s *Session) Announce() error {
	return s.client.Send(&matchmaking.Message{Type: matchmaking.TypePresenceAnnounce, ID: s.userID})
}

func (s *Session) JoinQueue() error {
	return s.client.Send(&matchmaking.Message{Type: matchmaking.TypeQueueJoin, ID: s.userID})
}

func (s *Session) LeaveQueue() error {
	return s.client.Send(&matchmaking.Message{Type: matchmaking.TypeQueueLeave, ID: s.userID})
}

// Wait consumes server events until a room naming this user arrives.
// onCounts, if set, is called whenever a count changes.
func (s *Session) Wait(ctx context.Context, onCounts func(Counts)) (*Assignment, error) {
	for {
		select {
		case msg, ok := <-s.client.Incoming():
			if !ok {
				return nil, NewError("wait for room", ErrConnectionClosed)
			}
			if room := s.apply(msg); room != nil {
				return room, nil
			}
			if onCounts != nil && isCount(msg) {
				onCounts(s.counts)
			}

		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return nil, NewError("wait for room", ErrTimeout)
			}
			return nil, ctx.Err()
		}
	}
}

// apply folds msg into the session state and returns the assignment when
// msg is one.
func (s *Session) apply(msg *matchmaking.Message) *Assignment {
	switch msg.Type {
	case matchmaking.TypeOnlineCountChanged:
		s.counts.Online = msg.Count()
	case matchmaking.TypeQueueSizeChanged:
		s.counts.Queued = msg.Count()
	case matchmaking.TypeRoomAssigned:
		if lo.Contains(msg.Participants, s.userID) {
			return &Assignment{RoomID: msg.RoomID, Participants: msg.Participants}
		}
	}
	return nil
}

func isCount(msg *matchmaking.Message) bool {
	return msg.Type == matchmaking.TypeOnlineCountChanged || msg.Type == matchmaking.TypeQueueSizeChanged
}

// Counts returns the latest counts. It must not be called concurrently
// with Wait.
func (s *Session) Counts() Counts {
	return s.counts
}
