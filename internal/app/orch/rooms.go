package orch

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/7cAT-0805/FastTransfer/internal/app"
	"github.com/7cAT-0805/FastTransfer/internal/domain"
)

// hostLeftReason is shown to guests before their connections are cut.
const hostLeftReason = "host left"

// CreateRoom allocates a room and hands back the code plus the host
// token that gates its lifetime.
func (o *Orchestrator) CreateRoom() (*domain.Room, error) {
	room, err := o.Registry.CreateRoom()
	if err != nil {
		return nil, err
	}
	if o.Metrics != nil {
		o.Metrics.RoomsCreated.Inc()
		o.Metrics.ActiveRooms.Inc()
	}
	return room, nil
}

// JoinInfo is the request/response join path: it issues a participant
// id and returns the room's current files, but does not bind or count
// the caller. Only a live realtime join does the accounting.
func (o *Orchestrator) JoinInfo(code domain.RoomCode) (string, []domain.FileDescriptor, error) {
	if !o.Registry.Exists(code) {
		return "", nil, app.ErrRoomNotFound
	}
	return uuid.NewString(), o.Files.ListFiles(code), nil
}

// VerifyHost checks a host token against the registry.
func (o *Orchestrator) VerifyHost(code domain.RoomCode, token domain.HostToken) (bool, error) {
	if !o.Registry.Exists(code) {
		return false, app.ErrRoomNotFound
	}
	return o.Registry.VerifyHost(code, token), nil
}

// Join binds a connection to a room. Host authority is granted iff the
// supplied token matches; a binding to a different room is released
// first with its own leave-accounting.
func (o *Orchestrator) Join(connID app.ConnID, code domain.RoomCode, token domain.HostToken) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	conn, _ := o.Binder.Conn(connID)
	room, ok := o.Registry.Get(code)
	if !ok {
		log.Warn().Str("module", "orch").Str("room", string(code)).Msg("join to unknown room")
		o.SendError(conn, "room not found")
		return app.ErrRoomNotFound
	}

	isHost := o.Registry.VerifyHost(code, token)
	res := o.Binder.Bind(connID, code, isHost)

	if res.HadPrev {
		if prev, ok := o.Registry.Get(res.Prev); ok {
			if prev.Participants > 0 {
				prev.Participants--
			}
			o.broadcast(res.Prev, connID, ParticipantCountEvent{Type: EventParticipantCount, Count: prev.Participants})
		}
	}
	if !res.Rejoin {
		room.Participants++
	}

	o.sendTo(conn, RoomJoinedEvent{
		Type:   EventRoomJoined,
		RoomID: code,
		Files:  o.Files.ListFiles(code),
		IsHost: isHost,
	})
	o.broadcast(code, "", ParticipantCountEvent{Type: EventParticipantCount, Count: room.Participants})
	log.Info().Str("module", "orch").Str("conn", string(connID)).Str("room", string(code)).
		Bool("host", isHost).Bool("rejoin", res.Rejoin).Int("participants", room.Participants).Msg("joined room")
	return nil
}

// ShareMessage relays a message to everyone bound to the sender's room.
func (o *Orchestrator) ShareMessage(connID app.ConnID, msg domain.ShareMessage) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	code, _, ok := o.Binder.RoomOf(connID)
	if !ok {
		return app.ErrNotBound
	}
	if err := msg.Validate(); err != nil {
		return err
	}
	msg.ID = uuid.NewString()
	msg.Timestamp = time.Now()
	o.broadcast(code, "", MessageSharedEvent{Type: EventMessageShared, Message: msg})
	return nil
}

// Disconnect handles a dropped connection. A guest decrements the
// count; the host triggers notify-then-destroy: remaining guests are
// told why before their connections are severed and all room state is
// removed in one step.
func (o *Orchestrator) Disconnect(connID app.ConnID) {
	o.mu.Lock()
	defer o.mu.Unlock()

	code, wasHost, ok := o.Binder.Unbind(connID)
	if !ok {
		return
	}
	room, exists := o.Registry.Get(code)
	if !exists {
		return
	}

	if !wasHost {
		if room.Participants > 0 {
			room.Participants--
		}
		o.broadcast(code, "", ParticipantCountEvent{Type: EventParticipantCount, Count: room.Participants})
		log.Info().Str("module", "orch").Str("conn", string(connID)).Str("room", string(code)).
			Int("participants", room.Participants).Msg("guest left")
		return
	}

	log.Info().Str("module", "orch").Str("room", string(code)).Msg("host left, tearing down room")
	o.broadcast(code, connID, RoomClosedEvent{Type: EventRoomClosed, Reason: hostLeftReason})
	for _, bc := range o.Binder.ConnsInRoom(code) {
		o.Binder.Unbind(bc.ID)
		if bc.Conn != nil {
			bc.Conn.Close()
		}
	}
	o.Files.DestroyRoomData(code)
	o.Registry.DestroyRoom(code)
	if o.Metrics != nil {
		o.Metrics.RoomsDestroyed.Inc()
		o.Metrics.ActiveRooms.Dec()
	}
}
