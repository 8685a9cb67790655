package ws

import (
	"encoding/json"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/7cAT-0805/FastTransfer/internal/app"
	"github.com/7cAT-0805/FastTransfer/internal/domain"
)

// dispatch routes one inbound frame by its type envelope.
func (ctl *Controller) dispatch(connID app.ConnID, c *Conn, data []byte) {
	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		log.Error().Err(err).Str("module", "ws").Msg("bad json")
		ctl.Orch.SendError(c, "bad payload")
		return
	}

	switch env.Type {
	case "joinRoom":
		ctl.handleJoin(connID, c, data)
	case "shareMessage":
		ctl.handleShareMessage(connID, c, data)
	case "ping":
		ctl.handlePing(c)
	default:
		log.Warn().Str("module", "ws").Str("type", env.Type).Msg("unknown event")
		ctl.Orch.SendError(c, "unknown event type")
	}
}

func (ctl *Controller) handleJoin(connID app.ConnID, c *Conn, data []byte) {
	var p struct {
		Type   string `json:"type"`
		Room   string `json:"room"`
		HostID string `json:"hostId,omitempty"`
	}
	if err := json.Unmarshal(data, &p); err != nil || p.Room == "" {
		log.Error().Err(err).Str("module", "ws").Msg("bad join payload")
		ctl.Orch.SendError(c, "bad payload")
		return
	}
	code := domain.NormalizeCode(p.Room)
	// Join emits roomJoined or error itself; nothing more to send here.
	_ = ctl.Orch.Join(connID, code, domain.HostToken(p.HostID))
}

func (ctl *Controller) handleShareMessage(connID app.ConnID, c *Conn, data []byte) {
	var p struct {
		Type    string              `json:"type"`
		Message domain.ShareMessage `json:"message"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "ws").Msg("bad message payload")
		ctl.Orch.SendError(c, "bad payload")
		return
	}
	if err := ctl.Orch.ShareMessage(connID, p.Message); err != nil {
		switch {
		case errors.Is(err, app.ErrNotBound):
			ctl.Orch.SendError(c, "join a room first")
		default:
			ctl.Orch.SendError(c, err.Error())
		}
	}
}

func (ctl *Controller) handlePing(c *Conn) {
	resp := struct {
		Type string `json:"type"`
	}{
		Type: "pong",
	}
	b, _ := json.Marshal(resp)
	_ = c.TrySend(b)
}
