package core

// matchQueue is the FIFO waiting set of connections seeking a partner.
// The two longest-waiting entries are paired first; a connection appears
// at most once. Only the hub goroutine touches it.
type matchQueue struct {
	order   []string
	waiting map[string]struct{}
}

func newMatchQueue() *matchQueue {
	return &matchQueue{waiting: make(map[string]struct{})}
}

// Enqueue appends a connection to the waiting set.
// Returns false if it was already waiting.
func (q *matchQueue) Enqueue(connID string) bool {
	if _, exists := q.waiting[connID]; exists {
		return false
	}
	q.order = append(q.order, connID)
	q.waiting[connID] = struct{}{}
	return true
}

// Remove drops a connection from the waiting set. No-op if absent.
func (q *matchQueue) Remove(connID string) bool {
	if _, exists := q.waiting[connID]; !exists {
		return false
	}
	delete(q.waiting, connID)
	for i, id := range q.order {
		if id == connID {
			q.order = append(q.order[:i], q.order[i+1:]...)
			break
		}
	}
	return true
}

// PopPair removes and returns the two longest-waiting connections.
// Returns false when fewer than two are waiting.
func (q *matchQueue) PopPair() (a, b string, ok bool) {
	if len(q.order) < 2 {
		return "", "", false
	}
	a, b = q.order[0], q.order[1]
	q.order = q.order[2:]
	delete(q.waiting, a)
	delete(q.waiting, b)
	return a, b, true
}

// Contains reports whether a connection is waiting.
func (q *matchQueue) Contains(connID string) bool {
	_, exists := q.waiting[connID]
	return exists
}

// Len returns the number of waiting connections.
func (q *matchQueue) Len() int {
	return len(q.order)
}
