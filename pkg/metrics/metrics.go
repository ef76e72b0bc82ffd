// Package metrics exposes packer activity as Prometheus metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Error reasons used as the "reason" label of pack_errors_total.
const (
	ReasonUnknownAddress = "unknown_address"
	ReasonUnknownMessage = "unknown_message"
	ReasonUnknownSignal  = "unknown_signal"
	ReasonInvalidValue   = "invalid_value"
)

// Metrics holds the packer collectors. A nil *Metrics records nothing.
type Metrics struct {
	framesPacked       *prometheus.CounterVec
	packErrors         *prometheus.CounterVec
	counterInjections  *prometheus.CounterVec
	checksumInjections *prometheus.CounterVec
	packDuration       prometheus.Histogram
}

// New creates the collectors and registers them with r.
// Passing nil creates unregistered collectors.
func New(r prometheus.Registerer) *Metrics {
	return &Metrics{
		framesPacked: promauto.With(r).NewCounterVec(prometheus.CounterOpts{
			Namespace: "canpack",
			Subsystem: "packer",
			Name:      "frames_packed_total",
			Help:      "Total frames packed.",
		}, []string{"message"}),
		packErrors: promauto.With(r).NewCounterVec(prometheus.CounterOpts{
			Namespace: "canpack",
			Subsystem: "packer",
			Name:      "pack_errors_total",
			Help:      "Total pack calls rejected.",
		}, []string{"reason"}),
		counterInjections: promauto.With(r).NewCounterVec(prometheus.CounterOpts{
			Namespace: "canpack",
			Subsystem: "packer",
			Name:      "counter_injections_total",
			Help:      "Rolling counter values written automatically.",
		}, []string{"message"}),
		checksumInjections: promauto.With(r).NewCounterVec(prometheus.CounterOpts{
			Namespace: "canpack",
			Subsystem: "packer",
			Name:      "checksum_injections_total",
			Help:      "Checksum values computed by a hook and written.",
		}, []string{"message"}),
		packDuration: promauto.With(r).NewHistogram(prometheus.HistogramOpts{
			Namespace: "canpack",
			Subsystem: "packer",
			Name:      "pack_duration_seconds",
			Help:      "Time taken to pack one frame.",
			Buckets:   prometheus.ExponentialBuckets(1e-7, 4, 8),
		}),
	}
}

// ObservePack records a successfully packed frame.
func (m *Metrics) ObservePack(message string, d time.Duration) {
	if m == nil {
		return
	}
	m.framesPacked.WithLabelValues(message).Inc()
	m.packDuration.Observe(d.Seconds())
}

// PackError records a rejected pack call.
func (m *Metrics) PackError(reason string) {
	if m == nil {
		return
	}
	m.packErrors.WithLabelValues(reason).Inc()
}

// CounterInjected records an automatic counter write.
func (m *Metrics) CounterInjected(message string) {
	if m == nil {
		return
	}
	m.counterInjections.WithLabelValues(message).Inc()
}

// ChecksumInjected records a checksum write.
func (m *Metrics) ChecksumInjected(message string) {
	if m == nil {
		return
	}
	m.checksumInjections.WithLabelValues(message).Inc()
}
