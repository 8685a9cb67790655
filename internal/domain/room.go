// Package domain contains entities without logic, just meta-data
package domain

import (
	"strings"
	"time"
)

const (
	// RoomCodeLen is the length of the shareable room code.
	RoomCodeLen = 8
	// RoomCodeAlphabet is what a code may consist of after uppercasing.
	RoomCodeAlphabet = "ABCDEF0123456789"
)

type (
	RoomCode  string
	HostToken string
)

// Room is a live session. All fields except Code and HostToken are
// mutated only under the orchestrator's lock.
type Room struct {
	Code         RoomCode  `json:"id"`
	HostToken    HostToken `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	Participants int       `json:"participants"`
}

// NormalizeCode uppercases user-supplied codes; the wire form is
// case-insensitive but the registry key is not.
func NormalizeCode(raw string) RoomCode {
	return RoomCode(strings.ToUpper(strings.TrimSpace(raw)))
}
