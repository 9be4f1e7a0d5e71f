package core

import "time"

// Room is an ephemeral two-party session.
type Room struct {
	ID        string
	CreatedAt time.Time
	a, b      *Client
}

// Members returns both member clients.
func (r *Room) Members() (*Client, *Client) {
	return r.a, r.b
}

// Other returns the member that is not c, or nil if c is not a member.
func (r *Room) Other(c *Client) *Client {
	switch c {
	case r.a:
		return r.b
	case r.b:
		return r.a
	default:
		return nil
	}
}

// HasMember reports whether c belongs to the room.
func (r *Room) HasMember(c *Client) bool {
	return c == r.a || c == r.b
}

// Broadcast sends an event to both members.
func (r *Room) Broadcast(ev *Event) {
	r.a.send(ev)
	r.b.send(ev)
}

// roomTable maps room ids to active rooms and tracks which room each
// connection belongs to. Only the hub goroutine touches it.
type roomTable struct {
	rooms    map[string]*Room
	byClient map[string]*Room
}

func newRoomTable() *roomTable {
	return &roomTable{
		rooms:    make(map[string]*Room),
		byClient: make(map[string]*Room),
	}
}

// Create records a room for two clients. Returns ErrAlreadyInRoom if
// either client already has an active room.
func (t *roomTable) Create(id string, a, b *Client) (*Room, error) {
	if _, exists := t.byClient[a.ID]; exists {
		return nil, ErrAlreadyInRoom
	}
	if _, exists := t.byClient[b.ID]; exists {
		return nil, ErrAlreadyInRoom
	}
	room := &Room{ID: id, CreatedAt: time.Now(), a: a, b: b}
	t.rooms[id] = room
	t.byClient[a.ID] = room
	t.byClient[b.ID] = room
	return room, nil
}

// Get returns the room with the given id.
func (t *roomTable) Get(id string) (*Room, bool) {
	room, ok := t.rooms[id]
	return room, ok
}

// ByClient returns the room a connection belongs to.
func (t *roomTable) ByClient(connID string) (*Room, bool) {
	room, ok := t.byClient[connID]
	return room, ok
}

// Delete removes the room and both membership entries.
func (t *roomTable) Delete(room *Room) {
	delete(t.rooms, room.ID)
	delete(t.byClient, room.a.ID)
	delete(t.byClient, room.b.ID)
}

// Len returns the number of active rooms.
func (t *roomTable) Len() int {
	return len(t.rooms)
}
