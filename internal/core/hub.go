package core

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// PresenceStore abstracts the external user store as seen by the hub.
// Updates are fire-and-forget: the in-memory join/leave succeeds even
// when persistence lags.
type PresenceStore interface {
	SetOnline(ctx context.Context, userID int64, online bool) error
	TouchLastSeen(ctx context.Context, userID int64) error
}

type hubOp int

const (
	opRegister hubOp = iota
	opUnregister
	opCommand
)

type envelope struct {
	op     hubOp
	client *Client
	cmd    *Command
}

// Hub is the event dispatcher. A single goroutine (Run) owns the
// presence registry, the matching queue and the room table, so every
// mutation is serialized and the pairing/teardown invariants hold
// without explicit locking.
type Hub struct {
	inbox    chan envelope
	clients  map[string]*Client
	presence *presenceRegistry
	queue    *matchQueue
	rooms    *roomTable
	users    PresenceStore
	log      zerolog.Logger
}

// NewHub creates a hub. Both the store and the logger may be nil.
func NewHub(users PresenceStore, logger *zerolog.Logger) *Hub {
	lg := zerolog.Nop()
	if logger != nil {
		lg = *logger
	}
	return &Hub{
		inbox:    make(chan envelope, 256),
		clients:  make(map[string]*Client),
		presence: newPresenceRegistry(),
		queue:    newMatchQueue(),
		rooms:    newRoomTable(),
		users:    users,
		log:      lg,
	}
}

// Run processes events until the context is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case env := <-h.inbox:
			h.dispatch(env)
		}
	}
}

// RegisterClient announces a new connection and starts pumping its
// commands into the hub.
func (h *Hub) RegisterClient(c *Client) {
	h.inbox <- envelope{op: opRegister, client: c}
	go func() {
		for cmd := range c.Commands {
			h.inbox <- envelope{op: opCommand, client: c, cmd: cmd}
		}
	}()
}

// UnregisterClient triggers the full disconnect cascade for a
// connection: presence leave, queue removal, room teardown and a
// presence-count broadcast, all handled atomically by the hub
// goroutine. Safe to call once per client after its command writers
// have stopped.
func (h *Hub) UnregisterClient(c *Client) {
	h.inbox <- envelope{op: opUnregister, client: c}
}

func (h *Hub) dispatch(env envelope) {
	switch env.op {
	case opRegister:
		h.clients[env.client.ID] = env.client
	case opUnregister:
		h.handleDisconnect(env.client)
	case opCommand:
		if _, known := h.clients[env.client.ID]; !known {
			return
		}
		h.handleCommand(env.client, env.cmd)
	}
}

func (h *Hub) handleCommand(c *Client, cmd *Command) {
	switch cmd.Kind {
	case CommandJoin:
		h.handleJoin(c, cmd)
	case CommandMatchRequest:
		h.handleMatchRequest(c)
	case CommandMatchCancel:
		h.handleMatchCancel(c)
	case CommandSendMessage:
		h.handleSendMessage(c, cmd)
	case CommandSignal:
		h.handleSignal(c, cmd)
	case CommandLeaveRoom:
		h.handleLeaveRoom(c, cmd)
	}
}

func (h *Hub) handleJoin(c *Client, cmd *Command) {
	if c.State != StateConnected {
		c.send(&Event{Kind: EventError, Error: coreError(ErrCodeAlreadyJoined, "already joined")})
		return
	}
	name := cmd.Name
	if name == "" {
		name = c.ID
	}
	h.presence.Join(c.ID, cmd.UserID, name)
	c.UserID = cmd.UserID
	c.Name = name
	c.State = StateIdentified

	c.send(&Event{Kind: EventJoinAck, Success: true})
	h.markOnline(cmd.UserID, true)
	h.broadcastPresence()

	h.log.Debug().Str("conn_id", c.ID).Int64("user_id", cmd.UserID).Str("name", name).Msg("participant joined")
}

func (h *Hub) handleMatchRequest(c *Client) {
	switch c.State {
	case StateConnected:
		c.send(&Event{Kind: EventError, Error: coreError(ErrCodeNotIdentified, "join before requesting a match")})
	case StateInRoom:
		c.send(&Event{Kind: EventError, Error: coreError(ErrCodeAlreadyInRoom, "leave the current room first")})
	case StateQueued:
		// Idempotent: re-ack without touching queue order.
		c.send(&Event{Kind: EventMatchSearching})
	case StateIdentified:
		h.queue.Enqueue(c.ID)
		c.State = StateQueued
		c.send(&Event{Kind: EventMatchSearching})
		h.attemptPair()
	}
}

func (h *Hub) handleMatchCancel(c *Client) {
	if c.State != StateQueued {
		return
	}
	h.queue.Remove(c.ID)
	c.State = StateIdentified
}

// attemptPair pops the two longest-waiting connections and creates a
// room for them. Runs inside the hub goroutine, so it is atomic with
// respect to concurrent enqueues and removals.
func (h *Hub) attemptPair() {
	a, b, ok := h.queue.PopPair()
	if !ok {
		return
	}
	clientA, okA := h.clients[a]
	clientB, okB := h.clients[b]
	if !okA || !okB {
		// Queue entries are removed on disconnect, so this is a bug.
		h.log.Error().Str("conn_a", a).Str("conn_b", b).Msg("queued connection no longer registered")
		if okA {
			clientA.State = StateIdentified
		}
		if okB {
			clientB.State = StateIdentified
		}
		return
	}
	h.createRoom(clientA, clientB)
}

func (h *Hub) createRoom(a, b *Client) {
	room, err := h.rooms.Create(uuid.NewString(), a, b)
	if err != nil {
		// Should not happen given the queue invariants; abort the
		// pairing and leave both connections unqueued and unpaired.
		h.log.Error().Err(err).Str("conn_a", a.ID).Str("conn_b", b.ID).Msg("room creation invariant violated")
		a.State = StateIdentified
		b.State = StateIdentified
		return
	}

	a.State = StateInRoom
	a.Room = room.ID
	b.State = StateInRoom
	b.Room = room.ID

	a.send(&Event{Kind: EventMatched, Room: room.ID, PartnerID: b.ID, PartnerName: b.Name})
	b.send(&Event{Kind: EventMatched, Room: room.ID, PartnerID: a.ID, PartnerName: a.Name})

	h.log.Info().Str("room_id", room.ID).Str("conn_a", a.ID).Str("conn_b", b.ID).Msg("room created")
}

func (h *Hub) handleSendMessage(c *Client, cmd *Command) {
	room, ok := h.rooms.Get(cmd.Room)
	if !ok || !room.HasMember(c) {
		// Torn down by a race or bogus room id; benign.
		return
	}
	kind := cmd.MessageKind
	if kind == "" {
		kind = MessageKindText
	}
	msg := Message{
		ID:        uuid.NewString(),
		Room:      room.ID,
		UserID:    c.UserID,
		From:      c.Name,
		Text:      cmd.Text,
		Kind:      kind,
		CreatedAt: time.Now(),
	}
	// Broadcast to both members including the sender, so every client
	// renders from one authoritative event stream.
	room.Broadcast(&Event{Kind: EventMessage, Room: room.ID, Message: msg})
}

func (h *Hub) handleSignal(c *Client, cmd *Command) {
	room, ok := h.rooms.Get(cmd.Room)
	if !ok || !room.HasMember(c) {
		return
	}
	// Point-to-point: the partner only, never echoed to the sender.
	room.Other(c).send(&Event{
		Kind:    EventSignal,
		Room:    room.ID,
		Signal:  cmd.Signal,
		Payload: cmd.Payload,
		From:    c.ID,
	})
}

func (h *Hub) handleLeaveRoom(c *Client, cmd *Command) {
	room, ok := h.rooms.Get(cmd.Room)
	if !ok || !room.HasMember(c) {
		return
	}
	h.teardownRoom(room, c)
}

// teardownRoom ends a room: the remaining member is notified and
// returned to the identified state, and the room entry is deleted.
// Once any member leaves, the session is over.
func (h *Hub) teardownRoom(room *Room, leaving *Client) {
	other := room.Other(leaving)
	h.rooms.Delete(room)

	leaving.State = StateIdentified
	leaving.Room = ""
	other.State = StateIdentified
	other.Room = ""
	other.send(&Event{Kind: EventPartnerLeft, Room: room.ID})

	h.log.Info().Str("room_id", room.ID).Str("left_conn", leaving.ID).Msg("room torn down")
}

func (h *Hub) handleDisconnect(c *Client) {
	if _, known := h.clients[c.ID]; !known {
		return
	}
	delete(h.clients, c.ID)

	participant, joined := h.presence.Leave(c.ID)
	h.queue.Remove(c.ID)
	if room, ok := h.rooms.ByClient(c.ID); ok {
		h.teardownRoom(room, c)
	}
	if joined {
		h.markOnline(participant.UserID, false)
	}
	h.broadcastPresence()
	close(c.Events)

	h.log.Debug().Str("conn_id", c.ID).Msg("connection cleaned up")
}

func (h *Hub) broadcastPresence() {
	ev := &Event{Kind: EventPresenceCount, Count: h.presence.Count()}
	for _, client := range h.clients {
		client.send(ev)
	}
}

// markOnline updates the external user store without blocking the hub.
func (h *Hub) markOnline(userID int64, online bool) {
	if h.users == nil {
		return
	}
	lg := h.log
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := h.users.SetOnline(ctx, userID, online); err != nil {
			lg.Warn().Err(err).Int64("user_id", userID).Msg("failed to update online status")
		}
		if err := h.users.TouchLastSeen(ctx, userID); err != nil {
			lg.Warn().Err(err).Int64("user_id", userID).Msg("failed to touch last seen")
		}
	}()
}
