/*
Package metrics registers the server's Prometheus collectors and exposes the
/metrics handler.
*/
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// EventsTotal counts processed WebSocket events by type.
	EventsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "collabboard_events_total",
		Help: "Number of WebSocket events processed, by event type.",
	}, []string{"type"})

	// PermissionDeniedTotal counts refused actions by attempted action.
	PermissionDeniedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "collabboard_permission_denied_total",
		Help: "Number of events refused by the permission policy, by action.",
	}, []string{"action"})

	// ActiveRooms tracks the number of live rooms.
	ActiveRooms = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "collabboard_active_rooms",
		Help: "Number of rooms with at least one participant.",
	})

	// ActiveParticipants tracks the number of joined connections.
	ActiveParticipants = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "collabboard_active_participants",
		Help: "Number of connections currently bound to a room.",
	})
)

func init() {
	prometheus.MustRegister(EventsTotal, PermissionDeniedTotal, ActiveRooms, ActiveParticipants)
}

// Handler exposes Prometheus metrics at /metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
