package core

import "encoding/json"

// CommandKind describes what the client wants to do.
type CommandKind int

const (
	// CommandJoin binds a participant identity to the connection.
	CommandJoin CommandKind = iota
	// CommandMatchRequest puts the client into the matching queue.
	CommandMatchRequest
	// CommandMatchCancel removes the client from the matching queue.
	CommandMatchCancel
	// CommandSendMessage relays a chat message to the client's room.
	CommandSendMessage
	// CommandSignal relays a WebRTC signaling payload to the partner.
	CommandSignal
	// CommandLeaveRoom ends the client's current room.
	CommandLeaveRoom
)

// SignalKind distinguishes the three WebRTC signaling payload types.
type SignalKind string

const (
	SignalOffer     SignalKind = "offer"
	SignalAnswer    SignalKind = "answer"
	SignalCandidate SignalKind = "ice-candidate"
)

// Command represents an action requested by a client.
type Command struct {
	Kind CommandKind

	// CommandJoin
	UserID int64
	Name   string

	// Room-scoped commands
	Room string

	// CommandSendMessage
	Text        string
	MessageKind MessageKind

	// CommandSignal
	Signal  SignalKind
	Payload json.RawMessage
}
