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
			Namespace: "framegraphd",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total admin API HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "framegraphd",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Admin API HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
	graphOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "framegraph",
			Name:      "ops_total",
			Help:      "Frame graph operations by kind and outcome.",
		},
		[]string{"op", "outcome"},
	)
	poseQueryDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "framegraph",
			Name:      "pose_query_duration_seconds",
			Help:      "Latency of Pose/CreateRelativePose resolution and composition.",
			Buckets:   prometheus.DefBuckets,
		},
	)
)

// RegisterMetrics registers every collector exactly once.
func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(httpRequests, httpDuration, graphOps, poseQueryDuration)
	})
}

// RecordHTTPRequest records one admin API request's outcome.
func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(method, path, statusLabel).Observe(duration.Seconds())
}

// RecordGraphOp records one frame-graph operation, labeled by its
// kind (add_frame, delete_frame, set_local_pose, pose, ...) and
// outcome ("ok" or an error kind string).
func RecordGraphOp(op, outcome string) {
	RegisterMetrics()
	graphOps.WithLabelValues(op, outcome).Inc()
}

// RecordPoseQuery records the latency of one Pose/CreateRelativePose
// resolution.
func RecordPoseQuery(duration time.Duration) {
	RegisterMetrics()
	poseQueryDuration.Observe(duration.Seconds())
}
