package sample

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/RPuvvula/breathing-app/internal/audio"
	"github.com/RPuvvula/breathing-app/internal/metrics"
)

// Config contains asset loader configuration.
type Config struct {
	BaseURL      string
	FetchTimeout time.Duration
}

// Loader fetches and decodes audio assets over HTTP.
type Loader struct {
	config     Config
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *metrics.Metrics // may be nil in tests

	// Statistics
	mu           sync.Mutex
	totalLoads   uint64
	failedLoads  uint64
	avgFetchTime time.Duration

	// Test seams: invoked at the two suspension-point checkpoints.
	afterFetch  func()
	afterDecode func()
}

// NewLoader creates an asset loader.
func NewLoader(cfg Config, logger *slog.Logger, m *metrics.Metrics) *Loader {
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 30 * time.Second
	}
	return &Loader{
		config:     cfg,
		httpClient: &http.Client{Timeout: cfg.FetchTimeout},
		logger:     logger,
		metrics:    m,
	}
}

// LoadAndLoop fetches the asset at path, decodes it, and starts a
// looping voice connected through the target bus gain, then ramps the
// bus from its current value to targetGain over fadeIn seconds.
//
// The caller's context is the cancellation token: it is re-checked
// after the fetch and after the decode, because a stop may have been
// requested while the load was in flight and starting playback then
// would leak a running, inaudible source. A cancelled load returns
// ctx.Err() with nothing created and nothing logged, since a stop
// racing a start is an expected outcome, not a fault. Any other
// failure is returned for the caller to log and degrade to silence.
func (l *Loader) LoadAndLoop(ctx context.Context, m *audio.Mixer, path string, bus *audio.GainStage, targetGain, fadeIn float64) (*audio.BufferedLoopVoice, error) {
	data, err := l.fetch(ctx, path)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("failed to fetch asset %s: %w", path, err)
	}
	if l.afterFetch != nil {
		l.afterFetch()
	}
	if ctx.Err() != nil {
		// Nothing was built yet, so there is nothing to clean up.
		return nil, ctx.Err()
	}

	samples, err := audio.DecodeWAVMono(data, m.Rate())
	if err != nil {
		return nil, fmt.Errorf("failed to decode asset %s: %w", path, err)
	}
	if l.afterDecode != nil {
		l.afterDecode()
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	now := m.Now()
	voice := audio.NewBufferedLoopVoice(samples, audio.NewGainStage(1), bus, now)
	m.Add(voice)
	bus.LinearRampTo(targetGain, now, now+fadeIn)

	l.logger.Debug("asset looping",
		slog.String("path", path),
		slog.Int("samples", len(samples)),
		slog.Float64("target_gain", targetGain),
		slog.Float64("fade_in", fadeIn),
	)
	return voice, nil
}

// fetch retrieves the raw asset bytes.
func (l *Loader) fetch(ctx context.Context, path string) ([]byte, error) {
	assetURL, err := url.JoinPath(strings.TrimSuffix(l.config.BaseURL, "/"), path)
	if err != nil {
		return nil, fmt.Errorf("invalid asset path: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, assetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	start := time.Now()
	resp, err := l.httpClient.Do(req)
	if err != nil {
		// A fetch aborted by cancellation is an expected outcome, not
		// a failed load.
		if ctx.Err() == nil {
			l.recordLoad(0, true)
		}
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		l.recordLoad(0, true)
		return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, assetURL)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctx.Err() == nil {
			l.recordLoad(0, true)
		}
		return nil, fmt.Errorf("failed to read asset body: %w", err)
	}

	l.recordLoad(time.Since(start), false)
	return data, nil
}

func (l *Loader) recordLoad(elapsed time.Duration, failed bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.totalLoads++
	if failed {
		l.failedLoads++
		return
	}
	if l.avgFetchTime == 0 {
		l.avgFetchTime = elapsed
	} else {
		l.avgFetchTime = (l.avgFetchTime + elapsed) / 2
	}
	if l.metrics != nil {
		l.metrics.RecordAssetLoad(elapsed.Seconds())
	}
}

// Stats reports loader statistics for monitoring.
type Stats struct {
	TotalLoads   uint64        `json:"total_loads"`
	FailedLoads  uint64        `json:"failed_loads"`
	AvgFetchTime time.Duration `json:"avg_fetch_time"`
}

// GetStats returns current loader statistics.
func (l *Loader) GetStats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Stats{
		TotalLoads:   l.totalLoads,
		FailedLoads:  l.failedLoads,
		AvgFetchTime: l.avgFetchTime,
	}
}
