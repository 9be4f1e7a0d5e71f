package proto

import "encoding/json"

// Inbound is the envelope for messages coming from the client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

const (
	ProtocolVersion = 1

	InboundTypeJoin            = "join"
	InboundTypeMatch           = "match"
	InboundTypeCancel          = "cancel"
	InboundTypeMsg             = "msg"
	InboundTypeSignalOffer     = "signal-offer"
	InboundTypeSignalAnswer    = "signal-answer"
	InboundTypeSignalCandidate = "signal-candidate"
	InboundTypeLeave           = "leave"

	OutboundTypeEvent = "event"
	OutboundTypeError = "error"

	EventJoinAck             = "join_ack"
	EventPresenceCount       = "presence_count"
	EventMatchSearching      = "match_searching"
	EventMatched             = "matched"
	EventMessage             = "message"
	EventSignalOffer         = "signal_offer"
	EventSignalAnswer        = "signal_answer"
	EventSignalCandidate     = "signal_candidate"
	EventPartnerDisconnected = "partner_disconnected"
)

// JoinData binds a participant identity to the connection.
// When the socket was opened with a valid token, the identity from the
// token wins and these fields may be empty.
type JoinData struct {
	UserID int64  `json:"user_id,omitempty"`
	Name   string `json:"name,omitempty"`
}

// MsgData is a chat message from the client.
type MsgData struct {
	Room string `json:"room"`
	Text string `json:"text"`
	Kind string `json:"kind,omitempty"`
}

// SignalData carries a WebRTC signaling payload.
type SignalData struct {
	Room    string          `json:"room"`
	Payload json.RawMessage `json:"payload"`
}

// LeaveData requests leaving the current room.
type LeaveData struct {
	Room string `json:"room"`
}

// Outbound is the envelope for messages sent to the client.
type Outbound struct {
	Type  string `json:"type"`
	Event string `json:"event,omitempty"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// EventJoinAckData confirms a join.
type EventJoinAckData struct {
	Success bool `json:"success"`
}

// EventPresenceCountData carries the connected-user count.
type EventPresenceCountData struct {
	Count int `json:"count"`
}

// EventMatchedData announces a freshly created room.
type EventMatchedData struct {
	Room        string `json:"room"`
	PartnerID   string `json:"partner_id"`
	PartnerName string `json:"partner_name"`
}

// EventMessageData is a relayed chat message.
type EventMessageData struct {
	ID   string `json:"id"`
	Room string `json:"room"`
	User int64  `json:"user_id"`
	Name string `json:"username"`
	Text string `json:"text"`
	Kind string `json:"kind"`
	TS   int64  `json:"ts"`
}

// EventSignalData is a forwarded signaling payload.
type EventSignalData struct {
	Room    string          `json:"room"`
	Payload json.RawMessage `json:"payload"`
	From    string          `json:"from"`
}

// EventPartnerDisconnectedData tells the remaining member the room is over.
type EventPartnerDisconnectedData struct {
	Room string `json:"room"`
}

// Error describes a protocol-level error response.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}
