package orch

import "github.com/7cAT-0805/FastTransfer/internal/domain"

// Outbound event types on the realtime channel. Names are part of the
// wire contract with existing clients.
const (
	EventRoomJoined       = "roomJoined"
	EventFileUploaded     = "fileUploaded"
	EventParticipantCount = "participantCountUpdate"
	EventMessageShared    = "messageShared"
	EventRoomClosed       = "roomClosed"
	EventError            = "error"
)

type RoomJoinedEvent struct {
	Type   string                  `json:"type"`
	RoomID domain.RoomCode         `json:"roomId"`
	Files  []domain.FileDescriptor `json:"files"`
	IsHost bool                    `json:"isHost"`
}

type FileUploadedEvent struct {
	Type string                `json:"type"`
	File domain.FileDescriptor `json:"file"`
}

type ParticipantCountEvent struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

type MessageSharedEvent struct {
	Type    string              `json:"type"`
	Message domain.ShareMessage `json:"message"`
}

type RoomClosedEvent struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

type ErrorEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
