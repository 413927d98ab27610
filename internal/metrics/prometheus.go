package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains all Prometheus metrics for the breathing app
type Metrics struct {
	// One-shot cue metrics
	CuesPlayed  *prometheus.CounterVec
	CuesDropped prometheus.Counter

	// Soundscape lifecycle metrics
	SoundscapesStarted *prometheus.CounterVec
	SoundscapesStopped prometheus.Counter
	SoundscapeVoices   prometheus.Gauge

	// Asset loading metrics
	AssetLoadDuration prometheus.Histogram
	AssetLoadFailures prometheus.Counter

	// Session metrics
	SessionsStarted   prometheus.Counter
	SessionsCompleted prometheus.Counter
	RoundDuration     prometheus.Histogram

	// HTTP API metrics
	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPErrors          *prometheus.CounterVec
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics() *Metrics {
	return &Metrics{
		// One-shot cue metrics
		CuesPlayed: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "breathing_cues_played_total",
			Help: "Total number of one-shot guidance cues played",
		}, []string{"cue"}),
		CuesDropped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "breathing_cues_dropped_total",
			Help: "Total number of cues dropped because audio was unavailable",
		}),

		// Soundscape lifecycle metrics
		SoundscapesStarted: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "breathing_soundscapes_started_total",
			Help: "Total number of soundscapes started",
		}, []string{"kind"}),
		SoundscapesStopped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "breathing_soundscapes_stopped_total",
			Help: "Total number of soundscape stops",
		}),
		SoundscapeVoices: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "breathing_soundscape_voices",
			Help: "Current number of voices owned by the active soundscape",
		}),

		// Asset loading metrics
		AssetLoadDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "breathing_asset_load_duration_seconds",
			Help:    "Time spent fetching and decoding soundscape assets",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10), // 50ms to ~25s
		}),
		AssetLoadFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "breathing_asset_load_failures_total",
			Help: "Total number of failed soundscape asset loads",
		}),

		// Session metrics
		SessionsStarted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "breathing_sessions_started_total",
			Help: "Total number of breathing sessions started",
		}),
		SessionsCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "breathing_sessions_completed_total",
			Help: "Total number of breathing sessions completed",
		}),
		RoundDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "breathing_round_duration_seconds",
			Help:    "Duration of completed breathing rounds",
			Buckets: prometheus.ExponentialBuckets(15, 2, 8), // 15s to ~32 minutes
		}),

		// HTTP API metrics
		HTTPRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "breathing_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "endpoint", "status_code"}),
		HTTPRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "breathing_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "endpoint"}),
		HTTPErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "breathing_http_errors_total",
			Help: "Total number of HTTP errors",
		}, []string{"method", "endpoint", "error_type"}),
	}
}

// RecordCue increments the played counter for one cue
func (m *Metrics) RecordCue(cue string) {
	m.CuesPlayed.WithLabelValues(cue).Inc()
}

// RecordCueDropped increments the dropped cue counter
func (m *Metrics) RecordCueDropped() {
	m.CuesDropped.Inc()
}

// RecordAssetLoad records a successful asset load duration
func (m *Metrics) RecordAssetLoad(durationSeconds float64) {
	m.AssetLoadDuration.Observe(durationSeconds)
}

// SetSoundscapeVoices sets the active soundscape voice gauge
func (m *Metrics) SetSoundscapeVoices(count int) {
	m.SoundscapeVoices.Set(float64(count))
}

// RecordHTTPRequest records an HTTP request with its duration
func (m *Metrics) RecordHTTPRequest(method, endpoint, statusCode string, durationSeconds float64) {
	m.HTTPRequests.WithLabelValues(method, endpoint, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(durationSeconds)
}

// RecordHTTPError records an HTTP error
func (m *Metrics) RecordHTTPError(method, endpoint, errorType string) {
	m.HTTPErrors.WithLabelValues(method, endpoint, errorType).Inc()
}
