package core

import "errors"

// Error codes for domain errors.
const (
	ErrCodeNotIdentified = "not_identified"
	ErrCodeAlreadyJoined = "already_joined"
	ErrCodeAlreadyInRoom = "already_in_room"
	ErrCodeRoomNotFound  = "room_not_found"
	ErrCodeNotInRoom     = "not_in_room"
	ErrCodeBadRequest    = "bad_request"
)

var (
	ErrRoomNotFound  = errors.New("room not found")
	ErrNotInRoom     = errors.New("not in room")
	ErrAlreadyInRoom = errors.New("already in room")
)

// CoreError wraps a code and human-readable message.
type CoreError struct {
	Code    string
	Message string
}

func (e *CoreError) Error() string {
	return e.Message
}

func coreError(code, msg string) *CoreError {
	return &CoreError{Code: code, Message: msg}
}
