package matchmaking

// Queue is the waiting queue: a deduplicated, insertion-ordered set of user
// IDs awaiting a partner.
//
// Queue is not safe for concurrent use. The Hub owns it and only touches it
// from its Run goroutine, which is what makes DrainPairs indivisible with
// respect to Join and Leave.
type Queue struct {
	order   []string
	members map[string]struct{}
}

// NewQueue creates an empty waiting queue.
func NewQueue() *Queue {
	return &Queue{members: make(map[string]struct{})}
}

// Join appends userID unless it is already queued. It reports whether the
// queue changed.
func (q *Queue) Join(userID string) bool {
	if _, ok := q.members[userID]; ok {
		return false
	}
	q.members[userID] = struct{}{}
	q.order = append(q.order, userID)
	return true
}

// Leave removes userID if present. It reports whether the queue changed.
func (q *Queue) Leave(userID string) bool {
	if _, ok := q.members[userID]; !ok {
		return false
	}
	delete(q.members, userID)
	for i, id := range q.order {
		if id == userID {
			q.order = append(q.order[:i], q.order[i+1:]...)
			break
		}
	}
	return true
}

// Requeue puts userIDs back at the front of the queue, in the given order,
// ahead of everyone already waiting. IDs that are already queued are skipped.
func (q *Queue) Requeue(userIDs ...string) {
	front := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		if _, ok := q.members[id]; ok {
			continue
		}
		q.members[id] = struct{}{}
		front = append(front, id)
	}
	q.order = append(front, q.order...)
}

// DrainPairs removes entries from the front two at a time, oldest first,
// until fewer than two remain. A leftover entry is not removed: it keeps its
// place at the front for the next pass and is reported through leftover/ok.
func (q *Queue) DrainPairs() (pairs [][2]string, leftover string, ok bool) {
	n := len(q.order) &^ 1
	pairs = make([][2]string, 0, n/2)
	for i := 0; i < n; i += 2 {
		a, b := q.order[i], q.order[i+1]
		delete(q.members, a)
		delete(q.members, b)
		pairs = append(pairs, [2]string{a, b})
	}
	q.order = append([]string(nil), q.order[n:]...)

	if len(q.order) == 1 {
		return pairs, q.order[0], true
	}
	return pairs, "", false
}

// Contains reports whether userID is waiting.
func (q *Queue) Contains(userID string) bool {
	_, ok := q.members[userID]
	return ok
}

// Len returns the number of waiting users.
func (q *Queue) Len() int {
	return len(q.order)
}

// Snapshot returns the waiting user IDs in queue order.
func (q *Queue) Snapshot() []string {
	return append([]string(nil), q.order...)
}
