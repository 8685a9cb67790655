// Package metrics exposes Prometheus instrumentation for the relay.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	RoomsCreated   prometheus.Counter
	RoomsDestroyed prometheus.Counter
	ActiveRooms    prometheus.Gauge
	ActiveConns    prometheus.Gauge
	Uploads        prometheus.Counter
	UploadBytes    prometheus.Counter
	EventsDropped  prometheus.Counter
}

// New registers the relay's collectors on the given registerer
// (prometheus.DefaultRegisterer in production, a fresh registry in tests).
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		RoomsCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "fasttransfer_rooms_created_total",
			Help: "Rooms created since process start.",
		}),
		RoomsDestroyed: f.NewCounter(prometheus.CounterOpts{
			Name: "fasttransfer_rooms_destroyed_total",
			Help: "Rooms torn down since process start.",
		}),
		ActiveRooms: f.NewGauge(prometheus.GaugeOpts{
			Name: "fasttransfer_active_rooms",
			Help: "Rooms currently live.",
		}),
		ActiveConns: f.NewGauge(prometheus.GaugeOpts{
			Name: "fasttransfer_active_connections",
			Help: "Realtime connections currently open.",
		}),
		Uploads: f.NewCounter(prometheus.CounterOpts{
			Name: "fasttransfer_uploads_total",
			Help: "Files accepted for relay.",
		}),
		UploadBytes: f.NewCounter(prometheus.CounterOpts{
			Name: "fasttransfer_upload_bytes_total",
			Help: "Payload bytes accepted for relay.",
		}),
		EventsDropped: f.NewCounter(prometheus.CounterOpts{
			Name: "fasttransfer_events_dropped_total",
			Help: "Events dropped on slow connections.",
		}),
	}
}

// Handler exposes Prometheus metrics at /metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
