package matchmaking

import "github.com/pairup/matchmaker/internal/events"

// match runs one pairing pass and returns the number of rooms created.
//
// The queue is drained oldest first, two at a time, so the two
// longest-waiting users are always paired together. Delivery is best
// effort: a participant without a live binding simply misses the
// notification and the room stands. A single unpaired user keeps its place
// at the front of the queue for the next pass.
func (h *Hub) match() int {
	pairs, leftover, hasLeftover := h.queue.DrainPairs()
	if len(pairs) == 0 {
		if hasLeftover {
			h.logger.Debug("pairing pass: waiting for a partner", "user_id", leftover)
		}
		return 0
	}

	var (
		created int
		retry   []string
	)
	for _, pair := range pairs {
		room, err := h.rooms.Create(pair)
		if err != nil {
			h.logger.Error("creating room", "participants", pair, "error", err)
			retry = append(retry, pair[0], pair[1])
			continue
		}
		created++
		delete(h.queuedBy, pair[0])
		delete(h.queuedBy, pair[1])

		h.logger.Info("room created", "room_id", room.ID, "participants", pair)
		h.deliver(room)
		h.publish(room)
	}
	if len(retry) > 0 {
		h.queue.Requeue(retry...)
	}

	h.logger.Debug("pairing pass complete",
		"rooms", created,
		"queued", h.queue.Len(),
		"leftover", hasLeftover)

	h.broadcastQueueSize()
	return created
}

// deliver notifies each participant of room.
func (h *Hub) deliver(room *Room) {
	msg := roomAssignedMessage(room)
	for _, userID := range room.Participants {
		c, ok := h.registry.Lookup(userID)
		if !ok {
			h.logger.Warn("participant unreachable, skipping notification",
				"room_id", room.ID,
				"user_id", userID)
			continue
		}
		h.send(c, msg)
	}
}

func (h *Hub) publish(room *Room) {
	err := h.publisher.PublishRoom(events.RoomCreated{
		RoomID:       room.ID,
		Participants: room.Participants,
		CreatedAt:    room.CreatedAt,
	})
	if err != nil {
		h.logger.Warn("publishing room", "room_id", room.ID, "error", err)
	}
}
