package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/RPuvvula/breathing-app/internal/metrics"
	"github.com/RPuvvula/breathing-app/internal/soundscape"
	"github.com/RPuvvula/breathing-app/internal/synth"
)

// AudioDirector is the audio surface the runner drives. The engine
// facade satisfies it.
type AudioDirector interface {
	PlayCue(cue synth.Cue)
	StartSoundscape(ctx context.Context, kind soundscape.Kind)
	StopSoundscape()
	GuidanceReady() bool
}

// Config contains session timing configuration.
type Config struct {
	Rounds          int
	BreathsPerRound int
	InhalePace      time.Duration // time given to one inhale
	ExhalePace      time.Duration // time given to one exhale
	RetentionHold   time.Duration // breath-out hold after the last exhale
	RecoveryHold    time.Duration // breath-in hold ending each round
	Preparation     time.Duration // settle time before the first round
	Soundscape      soundscape.Kind
}

// Runner executes one breathing session
type Runner struct {
	director AudioDirector
	config   Config
	logger   *slog.Logger
	metrics  *metrics.Metrics // may be nil in tests

	// wait is replaced in tests to run sessions without real time
	wait func(ctx context.Context, d time.Duration) error
}

// NewRunner creates a session runner
func NewRunner(director AudioDirector, cfg Config, logger *slog.Logger, m *metrics.Metrics) *Runner {
	return &Runner{
		director: director,
		config:   cfg,
		logger:   logger,
		metrics:  m,
		wait:     sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Run executes the full session. It blocks until the session
// completes or the context is cancelled; on cancellation the
// soundscape is stopped before returning.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.Info("Session starting",
		slog.Int("rounds", r.config.Rounds),
		slog.Int("breaths_per_round", r.config.BreathsPerRound),
		slog.Bool("guidance_ready", r.director.GuidanceReady()))
	if r.metrics != nil {
		r.metrics.SessionsStarted.Inc()
	}

	r.director.StartSoundscape(ctx, r.config.Soundscape)
	defer r.director.StopSoundscape()

	if err := r.wait(ctx, r.config.Preparation); err != nil {
		return err
	}

	for round := 1; round <= r.config.Rounds; round++ {
		roundStart := time.Now()
		if err := r.runRound(ctx, round); err != nil {
			return err
		}
		if r.metrics != nil {
			r.metrics.RoundDuration.Observe(time.Since(roundStart).Seconds())
		}
	}

	r.director.PlayCue(synth.CueChime)
	if r.metrics != nil {
		r.metrics.SessionsCompleted.Inc()
	}
	r.logger.Info("Session complete", slog.Int("rounds", r.config.Rounds))
	return nil
}

func (r *Runner) runRound(ctx context.Context, round int) error {
	r.logger.Info("Round starting", slog.Int("round", round))

	for breath := 0; breath < r.config.BreathsPerRound; breath++ {
		r.director.PlayCue(synth.CueInhale)
		if err := r.wait(ctx, r.config.InhalePace); err != nil {
			return err
		}
		r.director.PlayCue(synth.CueExhale)
		if err := r.wait(ctx, r.config.ExhalePace); err != nil {
			return err
		}
	}

	// Retention: hold after the final exhale, lungs empty
	r.director.PlayCue(synth.CueHold)
	if err := r.wait(ctx, r.config.RetentionHold); err != nil {
		return err
	}

	// Recovery: deep inhale held before release
	r.director.PlayCue(synth.CueInhale)
	if err := r.wait(ctx, r.config.RecoveryHold); err != nil {
		return err
	}
	r.director.PlayCue(synth.CueChime)

	r.logger.Info("Round complete", slog.Int("round", round))
	return nil
}
