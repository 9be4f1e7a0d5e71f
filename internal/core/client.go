package core

// ClientState tracks where a connection is in its session lifecycle.
type ClientState int

const (
	// StateConnected means the transport is up but no participant joined yet.
	StateConnected ClientState = iota
	// StateIdentified means a participant is bound, not searching, not paired.
	StateIdentified
	// StateQueued means the client is waiting in the matching queue.
	StateQueued
	// StateInRoom means the client is paired into an active room.
	StateInRoom
)

// Client is one live connection as seen by the core layer.
// State, UserID, Name and Room are owned by the hub goroutine; the
// transport only touches ID and the two channels.
type Client struct {
	ID       string
	UserID   int64
	Name     string
	State    ClientState
	Room     string
	Commands chan *Command
	Events   chan *Event
}

// NewClient constructs a client with initialized channels.
func NewClient(id string) *Client {
	return &Client{
		ID:       id,
		State:    StateConnected,
		Commands: make(chan *Command, 8),
		Events:   make(chan *Event, 16),
	}
}

// send delivers an event without blocking the hub.
func (c *Client) send(ev *Event) {
	select {
	case c.Events <- ev:
	default:
		// Drop if slow consumer.
	}
}
