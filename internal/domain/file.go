package domain

import (
	"fmt"
	"time"
)

type FileID string

// FileDescriptor is the metadata half of an upload; the payload lives in
// the room's blob arena under the same id.
type FileDescriptor struct {
	ID           FileID    `json:"id"`
	OriginalName string    `json:"originalName"`
	Size         int64     `json:"size"`
	ContentType  string    `json:"mimetype"`
	UploadedAt   time.Time `json:"uploadedAt"`
	PreviewURL   string    `json:"previewUrl"`
}

// PreviewPath builds the retrieval reference clients embed in previews.
func PreviewPath(code RoomCode, id FileID) string {
	return fmt.Sprintf("/api/rooms/%s/files/%s", code, id)
}
