package matchmaking

// handle applies one inbound event from c. Invalid events are logged and
// dropped; the connection stays open.
func (h *Hub) handle(c *Client, msg *Message) {
	if !h.registry.Connected(c) {
		return
	}
	if err := ValidateInbound(msg); err != nil {
		c.logger.Warn("dropping inbound message", "type", msg.Type, "error", err)
		return
	}

	switch msg.Type {
	case TypePresenceAnnounce:
		dropped := h.registry.Register(msg.ID, c)
		c.logger.Info("presence announced", "user_id", msg.ID, "online", h.registry.Online())

		// A connection that re-announces under a new identity gives up the
		// queue slot of the old one.
		queueChanged := false
		if dropped != "" {
			queueChanged = h.leaveQueue(dropped)
		}

		h.broadcastOnline()
		if queueChanged {
			h.broadcastQueueSize()
		}

	case TypeQueueJoin:
		if h.queue.Join(msg.ID) {
			c.logger.Info("queue joined", "user_id", msg.ID, "queued", h.queue.Len())
		}
		h.queuedBy[msg.ID] = c
		h.broadcastQueueSize()

	case TypeQueueLeave:
		if h.leaveQueue(msg.ID) {
			c.logger.Info("queue left", "user_id", msg.ID, "queued", h.queue.Len())
		}
		h.broadcastQueueSize()
	}
}

// disconnect tears down c: its binding, its outbound channel, and the queue
// entries it owns. An entry whose user ID another connection has announced
// since is left alone, as is one re-queued by another connection.
func (h *Hub) disconnect(c *Client) {
	if !h.registry.Connected(c) {
		return
	}

	userID, wasBound := h.registry.Unregister(c)
	close(c.send)

	queueChanged := false
	if wasBound && h.leaveQueue(userID) {
		queueChanged = true
	}
	for id, owner := range h.queuedBy {
		if owner != c {
			continue
		}
		if _, claimed := h.registry.Lookup(id); claimed {
			continue
		}
		if h.leaveQueue(id) {
			queueChanged = true
		}
	}

	c.logger.Info("connection closed",
		"user_id", userID,
		"was_bound", wasBound,
		"online", h.registry.Online(),
		"queued", h.queue.Len())

	h.broadcastOnline()
	if queueChanged {
		h.broadcastQueueSize()
	}
}

// leaveQueue removes userID from the queue along with its owner record.
func (h *Hub) leaveQueue(userID string) bool {
	delete(h.queuedBy, userID)
	return h.queue.Leave(userID)
}

// send queues msg for c without blocking. A full buffer means the peer is
// not keeping up; the message is dropped for that recipient only.
func (h *Hub) send(c *Client, msg *Message) bool {
	select {
	case c.send <- msg:
		return true
	default:
		c.logger.Warn("dropping outbound message, send buffer full", "type", msg.Type)
		return false
	}
}

func (h *Hub) broadcast(msg *Message) {
	for _, c := range h.registry.Connections() {
		h.send(c, msg)
	}
}

func (h *Hub) broadcastOnline() {
	h.broadcast(countMessage(TypeOnlineCountChanged, h.registry.Online()))
}

func (h *Hub) broadcastQueueSize() {
	h.broadcast(countMessage(TypeQueueSizeChanged, h.queue.Len()))
}
