package engine

import (
	"context"
	"log/slog"

	"github.com/RPuvvula/breathing-app/internal/audio"
	"github.com/RPuvvula/breathing-app/internal/metrics"
	"github.com/RPuvvula/breathing-app/internal/soundscape"
	"github.com/RPuvvula/breathing-app/internal/speech"
	"github.com/RPuvvula/breathing-app/internal/synth"
)

// Engine combines the audio context, the soundscape scheduler, and the
// speech voice pool behind one surface. Methods never return errors;
// audio failures degrade to silence and are logged where they happen.
type Engine struct {
	logger  *slog.Logger
	metrics *metrics.Metrics // may be nil in tests

	actx   *audio.Context
	sched  *soundscape.Scheduler
	voices *speech.Pool
}

// New creates an engine around an already constructed context,
// scheduler, and voice pool.
func New(actx *audio.Context, sched *soundscape.Scheduler, voices *speech.Pool, logger *slog.Logger, m *metrics.Metrics) *Engine {
	return &Engine{
		logger:  logger,
		metrics: m,
		actx:    actx,
		sched:   sched,
		voices:  voices,
	}
}

// Context returns the underlying audio context.
func (e *Engine) Context() *audio.Context { return e.actx }

// PlayCue fires a one-shot guidance tone by cue name. Unknown cues and
// unavailable audio are silent no-ops; a missed cue never blocks a
// session.
func (e *Engine) PlayCue(cue synth.Cue) {
	profile, ok := synth.ProfileFor(cue)
	if !ok {
		e.logger.Debug("Unknown cue ignored", slog.String("cue", string(cue)))
		return
	}
	if !e.actx.Ensure() {
		if e.metrics != nil {
			e.metrics.RecordCueDropped()
		}
		return
	}

	synth.PlayTone(e.actx.Mixer(), nil, profile)
	if e.metrics != nil {
		e.metrics.RecordCue(string(cue))
	}
}

// StartSoundscape begins a continuous background sound. The context
// carries the caller's cancellation; a start abandoned mid-load unwinds
// without retaining audio state.
func (e *Engine) StartSoundscape(ctx context.Context, kind soundscape.Kind) {
	if kind == soundscape.KindOff {
		return
	}
	if !e.actx.Ensure() {
		return
	}
	e.sched.Start(ctx, kind)
}

// StopSoundscape fades out and tears down the active soundscape.
// Idempotent; stopping with nothing active is a no-op.
func (e *Engine) StopSoundscape() {
	e.sched.Stop()
}

// GuidanceReady reports whether at least one speech voice has been
// enumerated, so the caller can decide to speak or skip a prompt.
func (e *Engine) GuidanceReady() bool {
	if e.voices == nil {
		return false
	}
	return e.voices.Ready()
}

// SoundscapeState returns the scheduler state for monitoring.
func (e *Engine) SoundscapeState() soundscape.State {
	return e.sched.State()
}

// SoundscapeSnapshot returns the scheduler snapshot for monitoring.
func (e *Engine) SoundscapeSnapshot() soundscape.Snapshot {
	return e.sched.GetSnapshot()
}

// Shutdown suspends audio output. Safe to call when playback never
// started.
func (e *Engine) Shutdown() {
	e.sched.Stop()
	e.actx.Suspend()
}
