// Package orch is the lifecycle controller: it reacts to connect,
// join, upload and disconnect events, mutates the registry and stores,
// and decides when a room must be torn down.
package orch

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/7cAT-0805/FastTransfer/internal/app"
	"github.com/7cAT-0805/FastTransfer/internal/domain"
	"github.com/7cAT-0805/FastTransfer/pkg/metrics"
)

type Orchestrator struct {
	Registry *app.Registry
	Files    *app.FileStore
	Binder   *app.Binder
	Policy   app.UploadPolicy
	Metrics  *metrics.Metrics

	// mu serializes room transitions. Rates are low and operations are
	// in-memory, so one coarse lock keeps participant counts and event
	// order coherent without per-room machinery.
	mu sync.Mutex
}

func New(reg *app.Registry, files *app.FileStore, binder *app.Binder, policy app.UploadPolicy, m *metrics.Metrics) *Orchestrator {
	if policy == nil {
		policy = app.OpenUploads{}
	}
	return &Orchestrator{
		Registry: reg,
		Files:    files,
		Binder:   binder,
		Policy:   policy,
		Metrics:  m,
	}
}

// sendTo delivers an event to one connection; send failures are the
// connection's problem, never the caller's.
func (o *Orchestrator) sendTo(conn app.EventConn, v any) {
	if conn == nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Msg("event marshal")
		return
	}
	if err := conn.TrySend(b); err != nil {
		if o.Metrics != nil {
			o.Metrics.EventsDropped.Inc()
		}
		log.Warn().Err(err).Str("module", "orch").Msg("event dropped")
	}
}

// broadcast fans an event out to every connection bound to the room,
// optionally excluding one. A slow connection drops its copy; it never
// blocks the others.
func (o *Orchestrator) broadcast(code domain.RoomCode, except app.ConnID, v any) {
	conns := o.Binder.ConnsInRoom(code)
	if len(conns) == 0 {
		log.Debug().Str("module", "orch").Str("room", string(code)).Msg("broadcast to empty room dropped")
		return
	}
	for _, bc := range conns {
		if bc.ID == except {
			continue
		}
		o.sendTo(bc.Conn, v)
	}
}

// SendError reports a failure to a single connection as an error event.
func (o *Orchestrator) SendError(conn app.EventConn, msg string) {
	o.sendTo(conn, ErrorEvent{Type: EventError, Message: msg})
}
