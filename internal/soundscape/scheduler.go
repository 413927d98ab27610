package soundscape

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/RPuvvula/breathing-app/internal/audio"
	"github.com/RPuvvula/breathing-app/internal/metrics"
	"github.com/RPuvvula/breathing-app/internal/sample"
	"github.com/RPuvvula/breathing-app/internal/synth"
)

// State is the scheduler lifecycle state.
type State int

// Scheduler states. Transitions: Idle→Starting on start, Starting→Active
// on successful construction, Starting→Idle on cancelled or failed
// start, Active→StoppingFadeOut on stop, StoppingFadeOut→Idle once the
// fade elapses.
const (
	StateIdle State = iota
	StateStarting
	StateActive
	StateStoppingFadeOut
)

// String returns the state name for logs and monitoring.
func (s State) String() string {
	switch s {
	case StateStarting:
		return "starting"
	case StateActive:
		return "active"
	case StateStoppingFadeOut:
		return "stopping"
	default:
		return "idle"
	}
}

// Soundscape is the record of the currently playing background sound:
// its kind, the master gain every other node routes through, the owned
// voices, and the repeating job when the kind has one.
type Soundscape struct {
	Kind   Kind
	Master *audio.GainStage
	Voices []audio.Voice
	Job    *repeatJob
}

// Config contains scheduler configuration.
type Config struct {
	FadeOut   time.Duration // fixed fade applied on stop
	RainPath  string        // asset path for the rain soundscape
	ChantPath string        // asset path for the chant soundscape
}

// Scheduler owns the active soundscape. All public methods are safe for
// concurrent use; the at-most-one-active invariant is enforced at this
// boundary so no two soundscape graphs ever coexist.
type Scheduler struct {
	actx    *audio.Context
	loader  *sample.Loader
	logger  *slog.Logger
	metrics *metrics.Metrics // may be nil in tests
	config  Config

	mu       sync.Mutex
	rng      *rand.Rand
	state    State
	current  *Soundscape
	fadeDone *time.Timer
}

// NewScheduler creates a scheduler. The random source feeds bowl
// fundamentals, decay times, and strike-interval jitter; tests inject a
// seeded one.
func NewScheduler(actx *audio.Context, loader *sample.Loader, cfg Config, rng *rand.Rand, logger *slog.Logger, m *metrics.Metrics) *Scheduler {
	if cfg.FadeOut <= 0 {
		cfg.FadeOut = 2 * time.Second
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Scheduler{
		actx:    actx,
		loader:  loader,
		logger:  logger,
		metrics: m,
		config:  cfg,
		rng:     rng,
	}
}

// State returns the current lifecycle state.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// CurrentKind returns the kind of the active soundscape, or KindOff.
func (s *Scheduler) CurrentKind() Kind {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return KindOff
	}
	return s.current.Kind
}

// Start begins the requested soundscape. Starting while one is already
// active (or fading out) is a no-op: the caller must stop first. The
// context is the cancellation token for sample-backed kinds, re-checked
// at every suspension point and once more before the node graph is
// promoted to active; a start cancelled at any checkpoint leaves the
// scheduler Idle with zero retained nodes and zero retained timers.
// Start never returns an error: load failures degrade to a session
// without background sound.
func (s *Scheduler) Start(ctx context.Context, kind Kind) {
	if kind == KindOff {
		return
	}

	s.mu.Lock()
	if s.state != StateIdle {
		s.logger.Debug("soundscape start ignored, not idle",
			slog.String("state", s.state.String()),
			slog.String("kind", string(kind)),
		)
		s.mu.Unlock()
		return
	}
	s.state = StateStarting
	s.mu.Unlock()

	m := s.actx.Mixer()
	p := params[kind]
	master := audio.NewGainStage(0)

	var voices []audio.Voice
	switch kind {
	case KindRain, KindChant:
		voice, err := s.loader.LoadAndLoop(ctx, m, s.assetPath(kind), master, p.volume, p.fadeIn)
		if err != nil {
			s.abortStart(kind, nil, err, ctx.Err() != nil)
			return
		}
		voices = append(voices, voice)

	case KindHum:
		now := m.Now()
		master.LinearRampTo(p.volume, now, now+p.fadeIn)
		for _, v := range synth.StartHumDrone(m, master) {
			voices = append(voices, v)
		}

	case KindOcean:
		now := m.Now()
		master.LinearRampTo(p.volume, now, now+p.fadeIn)
		s.mu.Lock()
		ocean := synth.StartOceanTexture(m, master, s.rng)
		s.mu.Unlock()
		voices = append(voices, ocean)

	case KindBowl:
		now := m.Now()
		master.LinearRampTo(p.volume, now, now+p.fadeIn)
		s.mu.Lock()
		struck := synth.StrikeBowl(m, master, s.rng)
		s.mu.Unlock()
		for _, v := range struck {
			voices = append(voices, v)
		}

	case KindBell:
		now := m.Now()
		master.LinearRampTo(p.volume, now, now+p.fadeIn)
		voices = append(voices, synth.PlayTone(m, master, mustProfile(synth.CueBell)))
	}

	// Final checkpoint before promotion: a stop requested during
	// construction must win, leaving nothing observable behind.
	if ctx.Err() != nil {
		s.abortStart(kind, voices, nil, true)
		return
	}

	s.mu.Lock()
	s.current = &Soundscape{Kind: kind, Master: master, Voices: voices}
	s.state = StateActive
	switch kind {
	case KindBowl:
		s.current.Job = startRepeatJob(s.bowlInterval, s.strikeBowl)
	case KindBell:
		s.current.Job = startRepeatJob(bellCycle(), s.bellTick)
	}
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.SoundscapesStarted.WithLabelValues(string(kind)).Inc()
		s.metrics.SetSoundscapeVoices(len(voices))
	}
	s.logger.Info("soundscape started",
		slog.String("kind", string(kind)),
		slog.Float64("volume", p.volume),
		slog.Float64("fade_in", p.fadeIn),
	)
}

// abortStart unwinds a start that was cancelled or failed: any voices
// already created are force-stopped and disconnected immediately, and
// the scheduler returns to Idle. A cancelled start is an expected
// outcome and is not logged; a load failure is logged and counted.
func (s *Scheduler) abortStart(kind Kind, voices []audio.Voice, err error, cancelled bool) {
	m := s.actx.Mixer()
	now := m.Now()
	for _, v := range voices {
		v.StopAt(now)
		m.Remove(v)
	}

	s.mu.Lock()
	s.state = StateIdle
	s.mu.Unlock()

	if err == nil || cancelled {
		return
	}
	if s.metrics != nil {
		s.metrics.AssetLoadFailures.Inc()
	}
	s.logger.Warn("soundscape failed to start",
		slog.String("kind", string(kind)),
		slog.String("error", err.Error()),
	)
}

// Stop fades out and tears down the active soundscape. Stopping while
// nothing is active is a no-op, including a second stop issued during
// the fade. Teardown runs in four separately-timed steps whose order is
// load-bearing: the repeating timer dies first so a late firing cannot
// resurrect the soundscape; the master gain then fades to zero; source
// stops are scheduled to coincide with fade completion, never earlier,
// because cutting a source before its gain reaches zero clicks audibly;
// and only after the fade elapses are the nodes disconnected and the
// record cleared.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.state != StateActive || s.current == nil {
		s.mu.Unlock()
		return
	}
	cur := s.current

	if cur.Job != nil {
		cur.Job.Stop()
	}

	m := s.actx.Mixer()
	now := m.Now()
	fadeEnd := now + s.config.FadeOut.Seconds()
	cur.Master.LinearRampTo(0, now, fadeEnd)
	for _, v := range cur.Voices {
		v.StopAt(fadeEnd)
	}

	s.state = StateStoppingFadeOut
	s.fadeDone = time.AfterFunc(s.config.FadeOut, s.finishStop)
	kind := cur.Kind
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.SoundscapesStopped.Inc()
	}
	s.logger.Info("soundscape stopping",
		slog.String("kind", string(kind)),
		slog.Duration("fade_out", s.config.FadeOut),
	)
}

// finishStop disconnects every node and clears the soundscape record
// once the fade has elapsed. Runs last: disconnecting a source that is
// still mid-ramp throws on some platforms.
func (s *Scheduler) finishStop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateStoppingFadeOut || s.current == nil {
		return
	}
	m := s.actx.Mixer()
	for _, v := range s.current.Voices {
		m.Remove(v)
	}
	s.current = nil
	s.state = StateIdle
	if s.metrics != nil {
		s.metrics.SetSoundscapeVoices(0)
	}
}

func (s *Scheduler) assetPath(kind Kind) string {
	if kind == KindChant {
		return s.config.ChantPath
	}
	return s.config.RainPath
}

// bowlInterval jitters the time between strikes so the pattern never
// settles into a metronome.
func (s *Scheduler) bowlInterval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return time.Duration((12 + s.rng.Float64()*5) * float64(time.Second))
}

// strikeBowl fires one strike into the active soundscape. The job may
// race a concurrent stop, so the state is re-checked under the lock.
func (s *Scheduler) strikeBowl() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateActive || s.current == nil || s.current.Kind != KindBowl {
		return
	}
	m := s.actx.Mixer()
	now := m.Now()

	// Drop voices from earlier strikes that have already rung out.
	kept := s.current.Voices[:0]
	for _, v := range s.current.Voices {
		if !v.Finished(now) {
			kept = append(kept, v)
		}
	}
	s.current.Voices = kept

	for _, v := range synth.StrikeBowl(m, s.current.Master, s.rng) {
		s.current.Voices = append(s.current.Voices, v)
	}
	if s.metrics != nil {
		s.metrics.SetSoundscapeVoices(len(s.current.Voices))
	}
}

// bellCycle returns the interval source for the breathing bell: a
// self-rescheduling 4-7-8 second pattern rather than a fixed interval,
// because the three breathing phases have different lengths.
func bellCycle() func() time.Duration {
	pattern := [...]time.Duration{4 * time.Second, 7 * time.Second, 8 * time.Second}
	idx := 0
	return func() time.Duration {
		d := pattern[idx%len(pattern)]
		idx++
		return d
	}
}

// bellTick plays one bell tone into the active soundscape.
func (s *Scheduler) bellTick() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateActive || s.current == nil || s.current.Kind != KindBell {
		return
	}
	m := s.actx.Mixer()
	now := m.Now()

	kept := s.current.Voices[:0]
	for _, v := range s.current.Voices {
		if !v.Finished(now) {
			kept = append(kept, v)
		}
	}
	s.current.Voices = kept

	v := synth.PlayTone(m, s.current.Master, mustProfile(synth.CueBell))
	s.current.Voices = append(s.current.Voices, v)
	if s.metrics != nil {
		s.metrics.SetSoundscapeVoices(len(s.current.Voices))
	}
}

func mustProfile(cue synth.Cue) synth.ToneProfile {
	p, _ := synth.ProfileFor(cue)
	return p
}

// Snapshot describes the scheduler for monitoring endpoints.
type Snapshot struct {
	State  string `json:"state"`
	Kind   string `json:"kind"`
	Voices int    `json:"voices"`
}

// GetSnapshot returns the current scheduler state for monitoring.
func (s *Scheduler) GetSnapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{State: s.state.String(), Kind: string(KindOff)}
	if s.current != nil {
		snap.Kind = string(s.current.Kind)
		snap.Voices = len(s.current.Voices)
	}
	return snap
}
