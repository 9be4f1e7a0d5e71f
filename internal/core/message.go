package core

import "time"

// MessageKind distinguishes user chat text from system notices.
type MessageKind string

const (
	MessageKindText   MessageKind = "text"
	MessageKindSystem MessageKind = "system"
)

// Message is the domain model for a relayed chat message.
// The ID is synthetic (uuid); nothing is persisted.
type Message struct {
	ID        string
	Room      string
	UserID    int64
	From      string
	Text      string
	Kind      MessageKind
	CreatedAt time.Time
}
