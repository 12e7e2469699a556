package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// WebSocket Metrics
var (
	// WebSocketConnectionsCurrent tracks current active WebSocket connections
	WebSocketConnectionsCurrent = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections_current",
			Help: "Current number of active WebSocket connections",
		},
	)

	// WebSocketConnectionsTotal tracks total WebSocket connection attempts by result
	WebSocketConnectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websocket_connections_total",
			Help: "Total WebSocket connection attempts by result (success/error)",
		},
		[]string{"result"},
	)

	// WebSocketConnectionsRejected tracks rejected connection attempts by reason
	WebSocketConnectionsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websocket_connections_rejected_total",
			Help: "Total WebSocket connections rejected by reason (rate_limit/per_ip_limit/global_limit)",
		},
		[]string{"reason"},
	)

	// WebSocketMessageSendDuration tracks WebSocket message send duration
	WebSocketMessageSendDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "websocket_message_send_duration_seconds",
			Help:    "WebSocket message send duration in seconds",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .025, .05, .1, .25},
		},
	)

	// WebSocketPingFailures tracks WebSocket ping failures
	WebSocketPingFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_ping_failures_total",
			Help: "Total WebSocket ping failures (client not responding)",
		},
	)
)

// Relay Metrics
var (
	// RelaySubscriptionsTotal tracks subscribe frames applied to connections
	RelaySubscriptionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "relay_subscriptions_total",
			Help: "Total subscribe operations applied (including re-subscribes)",
		},
	)

	// RelayDeliveredFramesTotal tracks frames written to connections by kind
	RelayDeliveredFramesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_delivered_frames_total",
			Help: "Total notification frames enqueued to connections by kind (user/broadcast)",
		},
		[]string{"kind"},
	)

	// RelayDroppedFramesTotal tracks frames dropped for non-writable connections
	RelayDroppedFramesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "relay_dropped_frames_total",
			Help: "Total frames dropped because a connection was not writable at delivery time",
		},
	)

	// RelayParseErrorsTotal tracks inbound frames dropped before dispatch
	RelayParseErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_parse_errors_total",
			Help: "Total inbound frames dropped by reason (malformed/unknown_type)",
		},
		[]string{"reason"},
	)
)

// Build Information Metrics
var (
	// BuildInfo is a gauge that always returns 1, with build metadata as labels
	BuildInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "build_info",
			Help: "Build information with version, commit, build_time, and go_version labels (value is always 1)",
		},
		[]string{"version", "commit", "build_time", "go_version"},
	)
)
