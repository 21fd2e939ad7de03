// Package metrics holds the Prometheus collectors exported at /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	streamRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "videoflix_stream_requests_total",
		Help: "Stream requests by HTTP status",
	}, []string{"status"})

	streamBytesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "videoflix_stream_bytes_total",
		Help: "Bytes written to streaming clients",
	})

	renditionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "videoflix_renditions_total",
		Help: "Rendition encodes by resolution and outcome",
	}, []string{"resolution", "outcome"}) // outcome=success|failure

	encodeDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "videoflix_encode_duration_seconds",
		Help:    "Wall time of a single encoder invocation",
		Buckets: prometheus.ExponentialBuckets(1, 2, 12),
	}, []string{"resolution"}) // resolution=180p|360p|720p|1080p|thumbnail

	jobsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "videoflix_transcode_jobs_total",
		Help: "Finished transcode runs by resulting status",
	}, []string{"status"})

	progressUpdatesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "videoflix_progress_updates_total",
		Help: "Accepted playback position updates",
	})
)

func ObserveStream(status string, bytes int64) {
	streamRequestsTotal.WithLabelValues(status).Inc()
	if bytes > 0 {
		streamBytesTotal.Add(float64(bytes))
	}
}

func ObserveRendition(resolution string, ok bool, elapsed time.Duration) {
	outcome := "success"
	if !ok {
		outcome = "failure"
	}
	renditionsTotal.WithLabelValues(resolution, outcome).Inc()
	encodeDuration.WithLabelValues(resolution).Observe(elapsed.Seconds())
}

func ObserveThumbnail(elapsed time.Duration) {
	encodeDuration.WithLabelValues("thumbnail").Observe(elapsed.Seconds())
}

func IncJob(status string) {
	jobsTotal.WithLabelValues(status).Inc()
}

func IncProgressUpdate() {
	progressUpdatesTotal.Inc()
}
