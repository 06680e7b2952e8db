package matchmaking

import "github.com/samber/lo"

// Registry tracks live connections and the user ID each one declared.
//
// Connection identity (Client.ID) is what delivery and teardown key on; the
// declared user ID is what the queue and rooms key on. A user ID is bound to
// at most one connection at a time and the latest announcement wins.
//
// Registry is owned by the Hub goroutine and is not safe for concurrent use.
type Registry struct {
	conns map[string]*Client // connection id -> live connection
	users map[string]*Client // declared user id -> connection
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		conns: make(map[string]*Client),
		users: make(map[string]*Client),
	}
}

// Connect records a live connection that has not declared an identity yet.
func (r *Registry) Connect(c *Client) {
	r.conns[c.ID] = c
}

// Connected reports whether c is still live.
func (r *Registry) Connected(c *Client) bool {
	live, ok := r.conns[c.ID]
	return ok && live == c
}

// Register binds userID to c, replacing any prior binding for that user ID.
// If c had previously declared a different user ID that is still bound to
// it, that binding is released and its user ID returned as dropped.
func (r *Registry) Register(userID string, c *Client) (dropped string) {
	r.conns[c.ID] = c

	if prev := c.userID; prev != "" && prev != userID && r.users[prev] == c {
		delete(r.users, prev)
		dropped = prev
	}

	r.users[userID] = c
	c.userID = userID
	return dropped
}

// Unregister removes the connection c. The user ID binding is removed only
// when it still points at c, so closing a connection that was superseded by
// a newer announcement leaves the newer binding intact.
func (r *Registry) Unregister(c *Client) (userID string, wasBound bool) {
	delete(r.conns, c.ID)

	if c.userID == "" {
		return "", false
	}
	if r.users[c.userID] != c {
		return c.userID, false
	}
	delete(r.users, c.userID)
	return c.userID, true
}

// Lookup returns the connection currently bound to userID.
func (r *Registry) Lookup(userID string) (*Client, bool) {
	c, ok := r.users[userID]
	return c, ok
}

// Online returns the number of users with a live binding.
func (r *Registry) Online() int {
	return len(r.users)
}

// Connections returns every live connection, announced or not.
func (r *Registry) Connections() []*Client {
	return lo.Values(r.conns)
}

// Users returns the user IDs that currently have a live binding.
func (r *Registry) Users() []string {
	return lo.Keys(r.users)
}
