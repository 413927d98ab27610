package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/RPuvvula/breathing-app/internal/audio"
	"github.com/RPuvvula/breathing-app/internal/config"
	"github.com/RPuvvula/breathing-app/internal/engine"
	"github.com/RPuvvula/breathing-app/internal/metrics"
	"github.com/RPuvvula/breathing-app/internal/sample"
	"github.com/RPuvvula/breathing-app/internal/server"
	"github.com/RPuvvula/breathing-app/internal/session"
	"github.com/RPuvvula/breathing-app/internal/soundscape"
	"github.com/RPuvvula/breathing-app/internal/speech"
	"github.com/RPuvvula/breathing-app/internal/synth"
)

const (
	defaultConfigPath = "configs/config.yaml"
	serviceName       = "breathing-app"
	serviceVersion    = "1.0.0"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", defaultConfigPath, "Path to configuration file")
	renderDir := flag.String("render", "", "Render cues and soundscapes to WAV files in this directory and exit")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger based on configuration
	logger := initLogger(cfg.Logging)

	// Log service startup
	logger.Info("Service starting",
		slog.String("service", serviceName),
		slog.String("version", serviceVersion),
		slog.String("config_path", *configPath),
	)

	if *renderDir != "" {
		if err := renderAll(*renderDir, cfg, logger); err != nil {
			logger.Error("Render failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		return
	}

	// Log configuration summary
	logger.Info("Configuration loaded",
		slog.Int("sample_rate", cfg.Audio.SampleRate),
		slog.Bool("playback", cfg.Audio.Playback),
		slog.String("asset_base_url", cfg.Assets.BaseURL),
		slog.Int("rounds", cfg.Session.Rounds),
		slog.Int("breaths_per_round", cfg.Session.BreathsPerRound),
		slog.String("soundscape", cfg.Session.Soundscape),
		slog.String("log_level", cfg.Logging.Level),
	)

	soundscapeKind, err := soundscape.ParseKind(cfg.Session.Soundscape)
	if err != nil {
		logger.Error("Invalid soundscape", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Create cancellable context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize Prometheus metrics
	appMetrics := metrics.NewMetrics()
	logger.Info("Prometheus metrics initialized")

	// Initialize the audio engine
	actx := audio.NewContext(audio.Config{
		SampleRate: cfg.Audio.SampleRate,
		BufferSize: cfg.Audio.GetBufferSizeDuration(),
		Playback:   cfg.Audio.Playback,
	}, logger)

	loader := sample.NewLoader(sample.Config{
		BaseURL:      cfg.Assets.BaseURL,
		FetchTimeout: cfg.Assets.GetFetchTimeoutDuration(),
	}, logger, appMetrics)

	sched := soundscape.NewScheduler(actx, loader, soundscape.Config{
		FadeOut:   cfg.Soundscape.GetFadeOutDuration(),
		RainPath:  cfg.Assets.RainPath,
		ChantPath: cfg.Assets.ChantPath,
	}, rand.New(rand.NewSource(time.Now().UnixNano())), logger, appMetrics)

	voicePool := speech.NewPool(speech.EnumeratorFunc(systemVoices), logger)
	voicePool.Refresh()

	eng := engine.New(actx, sched, voicePool, logger, appMetrics)
	logger.Info("Audio engine initialized",
		slog.Int("sample_rate", cfg.Audio.SampleRate),
		slog.Bool("guidance_ready", eng.GuidanceReady()),
	)

	// Initialize HTTP API server (if enabled)
	var httpServer *server.HTTPServer
	if cfg.HTTP.Enabled {
		httpServer = server.NewHTTPServer(cfg.HTTP, logger, cfg, eng, appMetrics)
		if err := httpServer.Start(); err != nil {
			logger.Error("Failed to start HTTP server", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("HTTP API server initialized",
			slog.String("address", fmt.Sprintf("%s:%d", cfg.HTTP.Address, cfg.HTTP.Port)),
		)
	}

	// Setup signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		cancel()
	}()

	// Run the breathing session
	runner := session.NewRunner(eng, session.Config{
		Rounds:          cfg.Session.Rounds,
		BreathsPerRound: cfg.Session.BreathsPerRound,
		InhalePace:      cfg.Session.GetInhalePaceDuration(),
		ExhalePace:      cfg.Session.GetExhalePaceDuration(),
		RetentionHold:   cfg.Session.GetRetentionHoldDuration(),
		RecoveryHold:    cfg.Session.GetRecoveryHoldDuration(),
		Preparation:     cfg.Session.GetPreparationDuration(),
		Soundscape:      soundscapeKind,
	}, logger, appMetrics)

	if err := runner.Run(ctx); err != nil {
		logger.Info("Session interrupted", slog.String("reason", err.Error()))
	}

	logger.Info("Starting graceful shutdown...")

	// Stop HTTP server first (stop accepting new requests)
	if httpServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := httpServer.Stop(shutdownCtx); err != nil {
			logger.Error("Error stopping HTTP server", slog.String("error", err.Error()))
		}
	}

	// Suspend audio output
	eng.Shutdown()

	// Final asset loader statistics
	loaderStats := loader.GetStats()
	logger.Info("Final asset loader statistics",
		slog.Uint64("total_loads", loaderStats.TotalLoads),
		slog.Uint64("failed_loads", loaderStats.FailedLoads),
		slog.Duration("avg_fetch_time", loaderStats.AvgFetchTime),
	)

	logger.Info("Service stopped")
}

// systemVoices detects locally available speech synthesizers. One found
// tool is enough to mark spoken guidance as available.
func systemVoices() []speech.Voice {
	var voices []speech.Voice
	for _, tool := range []string{"say", "espeak-ng", "espeak", "flite"} {
		if _, err := exec.LookPath(tool); err == nil {
			voices = append(voices, speech.Voice{Name: tool, Language: "en"})
		}
	}
	return voices
}

// renderAll writes each guidance cue and a short excerpt of each
// synthesized soundscape to WAV files for auditioning without a sound
// device.
func renderAll(dir string, cfg *config.Config, logger *slog.Logger) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create render directory: %w", err)
	}

	rate := cfg.Audio.SampleRate
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	cues := []synth.Cue{synth.CueInhale, synth.CueExhale, synth.CueChime, synth.CueHold, synth.CueBell}
	for _, cue := range cues {
		profile, _ := synth.ProfileFor(cue)
		m := audio.NewMixer(rate)
		synth.PlayTone(m, nil, profile)
		if err := renderToFile(m, profile.Duration+0.5, filepath.Join(dir, "cue-"+string(cue)+".wav")); err != nil {
			return err
		}
		logger.Info("Rendered cue", slog.String("cue", string(cue)))
	}

	// Synthesized soundscapes, a few seconds each
	humMixer := audio.NewMixer(rate)
	humMaster := audio.NewGainStage(1)
	synth.StartHumDrone(humMixer, humMaster)
	if err := renderToFile(humMixer, 6, filepath.Join(dir, "soundscape-hum.wav")); err != nil {
		return err
	}
	logger.Info("Rendered soundscape", slog.String("kind", "hum"))

	bowlMixer := audio.NewMixer(rate)
	bowlMaster := audio.NewGainStage(1)
	synth.StrikeBowl(bowlMixer, bowlMaster, rng)
	if err := renderToFile(bowlMixer, 12, filepath.Join(dir, "soundscape-bowl.wav")); err != nil {
		return err
	}
	logger.Info("Rendered soundscape", slog.String("kind", "bowl"))

	logger.Info("Render complete", slog.String("dir", dir))
	return nil
}

// renderToFile drains the mixer for the given number of seconds and
// writes the result as 16-bit mono WAV.
func renderToFile(m *audio.Mixer, seconds float64, path string) error {
	frames := int(seconds * float64(m.Rate()))
	samples := make([]float64, 0, frames)
	const block = 4096
	for len(samples) < frames {
		n := frames - len(samples)
		if n > block {
			n = block
		}
		samples = append(samples, m.RenderFrames(n)...)
	}

	data, err := audio.EncodeWAV(audio.FloatToPCM16(samples), m.Rate())
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// initLogger creates and configures the structured logger based on configuration
func initLogger(cfg config.LoggingConfig) *slog.Logger {
	// Parse log level
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	// Determine output destination
	var output *os.File
	switch cfg.Output {
	case "stderr":
		output = os.Stderr
	case "stdout", "":
		output = os.Stdout
	default:
		// Assume it's a file path
		file, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file %s: %v, falling back to stdout\n", cfg.Output, err)
			output = os.Stdout
		} else {
			output = file
		}
	}

	// Create handler based on format
	var handler slog.Handler
	switch cfg.Format {
	case "json":
		handler = slog.NewJSONHandler(output, opts)
	case "text", "":
		handler = slog.NewTextHandler(output, opts)
	default:
		handler = slog.NewTextHandler(output, opts)
	}

	return slog.New(handler)
}
