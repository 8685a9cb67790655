package domain

import (
	"errors"
	"time"
)

const MaxMessageLen = 64 * 1024

var (
	ErrMessageEmpty   = errors.New("message content empty")
	ErrMessageTooLong = errors.New("message content too long")
	ErrBadMessageKind = errors.New("unknown message kind")
)

// MessageKind is a closed set; each kind carries only the metadata
// fields that make sense for it.
type MessageKind string

const (
	KindText      MessageKind = "text"
	KindURL       MessageKind = "url"
	KindClipboard MessageKind = "clipboard"
	KindVoice     MessageKind = "voice"
	KindImage     MessageKind = "image"
	KindFile      MessageKind = "file"
)

// ShareMessage is a relayed message. Content is the body for textual
// kinds and a retrieval reference for voice/image/file kinds.
type ShareMessage struct {
	ID         string      `json:"id"`
	Kind       MessageKind `json:"type"`
	Content    string      `json:"content"`
	SenderName string      `json:"senderName,omitempty"`
	Timestamp  time.Time   `json:"timestamp"`

	// Kind-specific metadata.
	DurationSec float64 `json:"duration,omitempty"` // voice only
	Size        int64   `json:"size,omitempty"`     // voice/image/file
	FileName    string  `json:"fileName,omitempty"` // image/file
}

// Validate rejects unknown kinds and out-of-bounds content before relay.
func (m *ShareMessage) Validate() error {
	switch m.Kind {
	case KindText, KindURL, KindClipboard, KindVoice, KindImage, KindFile:
	default:
		return ErrBadMessageKind
	}
	if len(m.Content) == 0 {
		return ErrMessageEmpty
	}
	if len(m.Content) > MaxMessageLen {
		return ErrMessageTooLong
	}
	return nil
}
