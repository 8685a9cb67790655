package app

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/7cAT-0805/FastTransfer/internal/domain"
)

// DefaultMaxUploadBytes matches the reference deployment's cap.
const DefaultMaxUploadBytes int64 = 100 << 20

type blob struct {
	data        []byte
	name        string
	contentType string
}

// roomArena holds everything file-related for one room. It is created
// and dropped as a unit so descriptors and payloads can never drift
// apart.
type roomArena struct {
	files []domain.FileDescriptor
	blobs map[domain.FileID]blob
}

// FileStore keeps per-room blob arenas. It trusts the Registry as the
// source of truth for room lifetime: PutFile into a code the caller has
// not validated simply lazily allocates an arena, and the lifecycle
// controller drops it with the room.
type FileStore struct {
	mu       sync.RWMutex
	maxBytes int64
	arenas   map[domain.RoomCode]*roomArena
}

func NewFileStore(maxBytes int64) *FileStore {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	return &FileStore{
		maxBytes: maxBytes,
		arenas:   make(map[domain.RoomCode]*roomArena),
	}
}

func (s *FileStore) MaxBytes() int64 { return s.maxBytes }

// PutFile stores the payload and appends its descriptor to the room's
// ordered list. The descriptor is returned for broadcast.
func (s *FileStore) PutFile(code domain.RoomCode, data []byte, name, contentType string) (domain.FileDescriptor, error) {
	if int64(len(data)) > s.maxBytes {
		return domain.FileDescriptor{}, ErrPayloadTooLarge
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	id := domain.FileID(uuid.NewString())
	desc := domain.FileDescriptor{
		ID:           id,
		OriginalName: name,
		Size:         int64(len(data)),
		ContentType:  contentType,
		UploadedAt:   time.Now(),
		PreviewURL:   domain.PreviewPath(code, id),
	}

	s.mu.Lock()
	arena, ok := s.arenas[code]
	if !ok {
		arena = &roomArena{blobs: make(map[domain.FileID]blob)}
		s.arenas[code] = arena
	}
	arena.files = append(arena.files, desc)
	arena.blobs[id] = blob{data: data, name: name, contentType: contentType}
	s.mu.Unlock()

	log.Info().Str("module", "app.filestore").Str("room", string(code)).
		Str("file", name).Int64("size", desc.Size).Msg("file stored")
	return desc, nil
}

// ListFiles returns the room's descriptors in upload order; empty for
// unknown rooms.
func (s *FileStore) ListFiles(code domain.RoomCode) []domain.FileDescriptor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	arena, ok := s.arenas[code]
	if !ok {
		return []domain.FileDescriptor{}
	}
	out := make([]domain.FileDescriptor, len(arena.files))
	copy(out, arena.files)
	return out
}

// GetBlob retrieves the payload. ErrFileNotFound covers both a gone
// room and an id that never existed; callers cannot distinguish them.
func (s *FileStore) GetBlob(code domain.RoomCode, id domain.FileID) ([]byte, string, string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	arena, ok := s.arenas[code]
	if !ok {
		return nil, "", "", ErrFileNotFound
	}
	b, ok := arena.blobs[id]
	if !ok {
		return nil, "", "", ErrFileNotFound
	}
	return b.data, b.name, b.contentType, nil
}

// DestroyRoomData drops the whole arena. Called once per room teardown
// by the lifecycle controller; a second call is a no-op.
func (s *FileStore) DestroyRoomData(code domain.RoomCode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.arenas[code]; !ok {
		return
	}
	delete(s.arenas, code)
	log.Info().Str("module", "app.filestore").Str("room", string(code)).Msg("room data destroyed")
}
