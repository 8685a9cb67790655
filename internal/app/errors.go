package app

import "errors"

var (
	// ErrRoomNotFound covers unknown and already-destroyed rooms alike;
	// callers cannot tell the difference and both are final.
	ErrRoomNotFound = errors.New("room not found")

	// ErrFileNotFound covers "room gone" and "id never existed" alike.
	ErrFileNotFound = errors.New("file not found")

	ErrPayloadTooLarge = errors.New("payload too large")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrNotBound        = errors.New("connection not bound to a room")
	ErrCodeSpace       = errors.New("room code space exhausted")
)
