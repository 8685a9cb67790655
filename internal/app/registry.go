package app

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/7cAT-0805/FastTransfer/internal/domain"
)

// codeAttempts bounds collision retries before we declare the code
// space exhausted. With 16^8 codes this only trips on a broken RNG.
const codeAttempts = 32

// Registry owns room identity and existence. A room is present here
// iff its host connection is (or is about to be) live.
type Registry struct {
	mu    sync.RWMutex
	rooms map[domain.RoomCode]*domain.Room
}

func NewRegistry() *Registry {
	return &Registry{rooms: make(map[domain.RoomCode]*domain.Room)}
}

// CreateRoom allocates an empty room under a fresh code and returns it
// together with the host token that gates its lifetime.
func (r *Registry) CreateRoom() (*domain.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := 0; i < codeAttempts; i++ {
		code := newCode()
		if _, taken := r.rooms[code]; taken {
			continue
		}
		room := &domain.Room{
			Code:      code,
			HostToken: domain.HostToken(uuid.NewString()),
			CreatedAt: time.Now(),
		}
		r.rooms[code] = room
		log.Info().Str("module", "app.registry").Str("room", string(code)).Msg("room created")
		return room, nil
	}
	return nil, ErrCodeSpace
}

func (r *Registry) Exists(code domain.RoomCode) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.rooms[code]
	return ok
}

func (r *Registry) Get(code domain.RoomCode) (*domain.Room, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	room, ok := r.rooms[code]
	return room, ok
}

// VerifyHost is a pure lookup: false for unknown rooms and mismatched
// tokens alike, never an error.
func (r *Registry) VerifyHost(code domain.RoomCode, token domain.HostToken) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	room, ok := r.rooms[code]
	return ok && token != "" && room.HostToken == token
}

// DestroyRoom removes the entry. Idempotent: disconnect handling and
// explicit cleanup can race, and the loser must see a no-op.
func (r *Registry) DestroyRoom(code domain.RoomCode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rooms[code]; !ok {
		return
	}
	delete(r.rooms, code)
	log.Info().Str("module", "app.registry").Str("room", string(code)).Msg("room destroyed")
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}

// newCode cuts the shareable code from a uuid, like the rest of our ids.
func newCode() domain.RoomCode {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return domain.RoomCode(strings.ToUpper(raw[:domain.RoomCodeLen]))
}
