// Package metrics holds the bridge's Prometheus instruments. They are
// registered on the default registry and exposed by the monitor server's
// /metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CommandsSent counts command frames fully transmitted to the device.
	CommandsSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "av2bridge_commands_sent_total",
		Help: "Command frames transmitted over the serial link.",
	})

	// CommandErrors counts commands dropped due to channel write/drain
	// failures. Failed commands are never retried.
	CommandErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "av2bridge_command_errors_total",
		Help: "Command frames dropped due to serial channel errors.",
	})

	// FramesDecoded counts inbound frames successfully decoded, labelled by
	// response code.
	FramesDecoded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "av2bridge_frames_decoded_total",
		Help: "Inbound status frames decoded, by response code.",
	}, []string{"code"})

	// FramesDropped counts inbound frames discarded as malformed.
	FramesDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "av2bridge_frames_dropped_total",
		Help: "Inbound frames dropped (bad header or truncated payload).",
	})

	// QueueDepth tracks the number of commands waiting for transmission.
	QueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "av2bridge_queue_depth",
		Help: "Commands waiting in the transmit queue.",
	})
)
