package orch

import (
	"github.com/rs/zerolog/log"

	"github.com/7cAT-0805/FastTransfer/internal/app"
	"github.com/7cAT-0805/FastTransfer/internal/domain"
)

// Upload stores a file in the room and broadcasts its descriptor to
// every bound connection. isHost reflects the uploader's verified host
// status for the policy check; request-path uploads prove it with the
// host token, realtime-bound uploaders with their binding.
func (o *Orchestrator) Upload(code domain.RoomCode, isHost bool, data []byte, name, contentType string) (domain.FileDescriptor, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.putAndBroadcast(code, isHost, data, name, contentType)
}

// UploadFromConn is the bound-connection upload path: the uploader must
// currently be bound to a room and its host flag comes from the binder.
func (o *Orchestrator) UploadFromConn(connID app.ConnID, data []byte, name, contentType string) (domain.FileDescriptor, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	code, isHost, ok := o.Binder.RoomOf(connID)
	if !ok {
		return domain.FileDescriptor{}, app.ErrNotBound
	}
	return o.putAndBroadcast(code, isHost, data, name, contentType)
}

// putAndBroadcast runs under o.mu. The size-limit rejection goes to the
// uploader only; a room destroyed between store and fanout just makes
// the broadcast target nobody.
func (o *Orchestrator) putAndBroadcast(code domain.RoomCode, isHost bool, data []byte, name, contentType string) (domain.FileDescriptor, error) {
	if !o.Registry.Exists(code) {
		return domain.FileDescriptor{}, app.ErrRoomNotFound
	}
	if !o.Policy.CanUpload(isHost) {
		return domain.FileDescriptor{}, app.ErrUnauthorized
	}
	desc, err := o.Files.PutFile(code, data, name, contentType)
	if err != nil {
		return domain.FileDescriptor{}, err
	}
	if o.Metrics != nil {
		o.Metrics.Uploads.Inc()
		o.Metrics.UploadBytes.Add(float64(desc.Size))
	}
	o.broadcast(code, "", FileUploadedEvent{Type: EventFileUploaded, File: desc})
	log.Info().Str("module", "orch").Str("room", string(code)).Str("file", name).
		Int64("size", desc.Size).Msg("file relayed")
	return desc, nil
}

// ListFiles returns the room's descriptors in upload order.
func (o *Orchestrator) ListFiles(code domain.RoomCode) ([]domain.FileDescriptor, error) {
	if !o.Registry.Exists(code) {
		return nil, app.ErrRoomNotFound
	}
	return o.Files.ListFiles(code), nil
}

// GetBlob retrieves a payload for download or preview.
func (o *Orchestrator) GetBlob(code domain.RoomCode, id domain.FileID) ([]byte, string, string, error) {
	return o.Files.GetBlob(code, id)
}
