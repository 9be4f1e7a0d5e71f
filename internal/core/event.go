package core

import "encoding/json"

// EventKind is a notification the core emits to clients.
type EventKind int

const (
	// EventJoinAck confirms (or denies) a join to the issuing client.
	EventJoinAck EventKind = iota
	// EventPresenceCount broadcasts the connected-user count to everyone.
	EventPresenceCount
	// EventMatchSearching confirms the client entered the matching queue.
	EventMatchSearching
	// EventMatched notifies both members of a freshly created room.
	EventMatched
	// EventMessage delivers a chat message to both room members.
	EventMessage
	// EventSignal forwards a signaling payload to the partner.
	EventSignal
	// EventPartnerLeft notifies the remaining member that the room is over.
	EventPartnerLeft
	// EventError notifies the client about a domain error.
	EventError
)

// Event is sent to clients to describe what happened in the system.
type Event struct {
	Kind EventKind

	// EventJoinAck
	Success bool

	// EventPresenceCount
	Count int

	// EventMatched / EventPartnerLeft / room-scoped events
	Room        string
	PartnerID   string
	PartnerName string

	// EventMessage
	Message Message

	// EventSignal
	Signal  SignalKind
	Payload json.RawMessage
	From    string

	// EventError
	Error *CoreError
}
