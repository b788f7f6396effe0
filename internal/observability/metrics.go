package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "usbctl",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"node", "method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "usbctl",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"node", "method", "path", "status"},
	)
	modeReads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "usbctl",
			Subsystem: "mode",
			Name:      "reads_total",
			Help:      "Effective USB mode reads by resolved mode name.",
		},
		[]string{"node", "mode"},
	)
	modeSets = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "usbctl",
			Subsystem: "mode",
			Name:      "sets_total",
			Help:      "USB mode set attempts.",
		},
		[]string{"node", "mode", "permanent", "outcome"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(httpRequests, httpDuration, modeReads, modeSets)
	})
}

func RecordHTTPRequest(node, method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(node, method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(node, method, path, statusLabel).Observe(duration.Seconds())
}

func RecordModeRead(node, mode string) {
	RegisterMetrics()
	modeReads.WithLabelValues(node, mode).Inc()
}

func RecordModeSet(node, mode string, permanent bool, success bool) {
	RegisterMetrics()
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	modeSets.WithLabelValues(node, mode, strconv.FormatBool(permanent), outcome).Inc()
}
