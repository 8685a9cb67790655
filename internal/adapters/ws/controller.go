// Package ws adapts the realtime event channel onto gorilla websockets.
package ws

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/7cAT-0805/FastTransfer/internal/app"
	"github.com/7cAT-0805/FastTransfer/internal/app/orch"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type Controller struct {
	Orch         *orch.Orchestrator
	PingPeriod   time.Duration
	WriteTimeout time.Duration
}

func NewController(o *orch.Orchestrator, pingPeriod, writeTimeout time.Duration) *Controller {
	if pingPeriod <= 0 {
		pingPeriod = 54 * time.Second
	}
	if writeTimeout <= 0 {
		writeTimeout = 5 * time.Second
	}
	return &Controller{Orch: o, PingPeriod: pingPeriod, WriteTimeout: writeTimeout}
}

// Handle upgrades the request and runs the connection's pumps. Each
// connection gets its own id; the binder ties it to at most one room.
func (ctl *Controller) Handle(ctx context.Context, c *gin.Context) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "ws").Msg("upgrade failed")
		return
	}

	connID := app.ConnID(uuid.NewString())
	conn := newConn(ws)
	ctl.Orch.Binder.Register(connID, conn)
	if ctl.Orch.Metrics != nil {
		ctl.Orch.Metrics.ActiveConns.Inc()
	}
	log.Info().Str("module", "ws").Str("conn", string(connID)).Msg("connection open")

	ctx, cancel := context.WithCancel(ctx)
	go ctl.writePump(ctx, conn)
	go func() {
		defer cancel()
		ctl.readPump(ctx, connID, conn)
		ctl.Orch.Disconnect(connID)
		if ctl.Orch.Metrics != nil {
			ctl.Orch.Metrics.ActiveConns.Dec()
		}
		log.Info().Str("module", "ws").Str("conn", string(connID)).Msg("connection closed")
	}()
}

// writePump owns the underlying socket's lifetime: it drains the queue
// after Close (so final events like roomClosed still go out) and shuts
// the socket down on exit, which also unblocks the read pump.
func (ctl *Controller) writePump(ctx context.Context, c *Conn) {
	ticker := time.NewTicker(ctl.PingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case <-ctx.Done():
			return
		case data, ok := <-c.send:
			if !ok {
				deadline := time.Now().Add(ctl.WriteTimeout)
				_ = c.conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "room closed"), deadline)
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(ctl.WriteTimeout)); err != nil {
				log.Error().Err(err).Str("module", "ws").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "ws").Msg("writePump write error")
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(ctl.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (ctl *Controller) readPump(ctx context.Context, connID app.ConnID, c *Conn) {
	defer c.Close()
	for {
		select {
		case <-ctx.Done():
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					log.Warn().Err(err).Str("module", "ws").Str("conn", string(connID)).Msg("readPump error")
				}
				return
			}
			ctl.dispatch(connID, c, data)
		}
	}
}
