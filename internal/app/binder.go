package app

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/7cAT-0805/FastTransfer/internal/domain"
)

type ConnID string

// EventConn abstracts the realtime transport endpoint. Owned by the
// adapter; the adapter must Close() it.
type EventConn interface {
	TrySend([]byte) error
	Close()
}

type binding struct {
	Code   domain.RoomCode
	IsHost bool
	Conn   EventConn
}

// BindResult reports what Bind actually did.
type BindResult struct {
	// Rejoin is set when the connection was already bound to the same
	// room; duplicate client-side join signals must not double-count.
	Rejoin bool
	// Prev/PrevHost carry the torn-down old binding, if any, so the
	// caller can do its leave-accounting.
	Prev     domain.RoomCode
	PrevHost bool
	HadPrev  bool
}

// Binder maps each live connection to at most one room and remembers
// whether that connection holds host authority.
type Binder struct {
	mu       sync.RWMutex
	bindings map[ConnID]*binding
}

func NewBinder() *Binder {
	return &Binder{bindings: make(map[ConnID]*binding)}
}

// Register makes a connection known before it joins anything, so its
// transport endpoint is reachable for direct error events.
func (b *Binder) Register(id ConnID, conn EventConn) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.bindings[id] = &binding{Conn: conn}
}

// Bind attaches the connection to a room. A previous binding to a
// different room is removed first and reported back.
func (b *Binder) Bind(id ConnID, code domain.RoomCode, isHost bool) BindResult {
	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.bindings[id]
	if !ok {
		e = &binding{}
		b.bindings[id] = e
	}
	res := BindResult{}
	if e.Code == code && code != "" {
		res.Rejoin = true
		return res
	}
	if e.Code != "" {
		res.Prev, res.PrevHost, res.HadPrev = e.Code, e.IsHost, true
	}
	e.Code = code
	e.IsHost = isHost
	log.Info().Str("module", "app.binder").Str("conn", string(id)).
		Str("room", string(code)).Bool("host", isHost).Msg("bound")
	return res
}

// Unbind removes the binding on disconnect and reports what was held.
// Safe on unknown or never-bound connections: connect/disconnect
// delivery order is not guaranteed.
func (b *Binder) Unbind(id ConnID) (domain.RoomCode, bool, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.bindings[id]
	if !ok {
		return "", false, false
	}
	delete(b.bindings, id)
	if e.Code == "" {
		return "", false, false
	}
	log.Info().Str("module", "app.binder").Str("conn", string(id)).
		Str("room", string(e.Code)).Msg("unbound")
	return e.Code, e.IsHost, true
}

func (b *Binder) RoomOf(id ConnID) (domain.RoomCode, bool, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	e, ok := b.bindings[id]
	if !ok || e.Code == "" {
		return "", false, false
	}
	return e.Code, e.IsHost, true
}

func (b *Binder) Conn(id ConnID) (EventConn, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	e, ok := b.bindings[id]
	if !ok || e.Conn == nil {
		return nil, false
	}
	return e.Conn, true
}

type boundConn struct {
	ID     ConnID
	IsHost bool
	Conn   EventConn
}

// ConnsInRoom snapshots every connection bound to a room for fanout.
func (b *Binder) ConnsInRoom(code domain.RoomCode) []boundConn {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]boundConn, 0, len(b.bindings))
	for id, e := range b.bindings {
		if e.Code == code {
			out = append(out, boundConn{ID: id, IsHost: e.IsHost, Conn: e.Conn})
		}
	}
	return out
}
