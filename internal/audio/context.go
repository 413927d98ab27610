package audio

import (
	"log/slog"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

// DefaultSampleRate is used when the configuration does not override it.
const DefaultSampleRate = 44100

// Config contains audio context configuration.
type Config struct {
	SampleRate int
	BufferSize time.Duration
	// Playback enables the output device. Disabled contexts render on
	// demand only, used by tests and offline rendering.
	Playback bool
}

// Context owns the shared audio processing graph root: the output
// device, the mixer, and the clock every component schedules against.
// It is created eagerly but brings the device up lazily on the first
// sound request, and lives for the process lifetime.
type Context struct {
	cfg    Config
	logger *slog.Logger
	mixer  *Mixer

	mu      sync.Mutex
	device  *oto.Context
	player  *oto.Player
	started bool
	failed  bool
}

// NewContext creates an audio context. No device is opened until
// Ensure is called.
func NewContext(cfg Config, logger *slog.Logger) *Context {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = DefaultSampleRate
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 50 * time.Millisecond
	}
	return &Context{
		cfg:    cfg,
		logger: logger,
		mixer:  NewMixer(cfg.SampleRate),
	}
}

// Mixer returns the mixer all voices connect to.
func (c *Context) Mixer() *Mixer { return c.mixer }

// Now returns the current audio clock reading in seconds.
func (c *Context) Now() float64 { return c.mixer.Now() }

// Ensure brings the context to a usable state and reports whether audio
// is available. The first call opens the output device; subsequent
// calls issue a fire-and-forget resume in case the device was suspended
// while the app was inactive. Once device creation has failed every
// later call returns false without retrying: the platform has no audio
// and all sound operations degrade to silent no-ops.
func (c *Context) Ensure() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.failed {
		return false
	}
	if c.started {
		if c.device != nil {
			dev := c.device
			// Resume failures are swallowed: audio stays silent, which
			// is non-fatal for a breathing session.
			go func() { _ = dev.Resume() }()
		}
		return true
	}

	if !c.cfg.Playback {
		c.started = true
		return true
	}

	dev, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   c.cfg.SampleRate,
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
		BufferSize:   c.cfg.BufferSize,
	})
	if err != nil {
		c.failed = true
		c.logger.Warn("audio device unavailable, all sound disabled",
			slog.String("error", err.Error()),
		)
		return false
	}

	c.device = dev
	c.player = dev.NewPlayer(c.mixer)
	c.player.Play()
	c.started = true

	c.logger.Info("audio device opening",
		slog.Int("sample_rate", c.cfg.SampleRate),
		slog.Duration("buffer_size", c.cfg.BufferSize),
	)
	// The device signals readiness asynchronously. Playback written
	// before then is buffered, so nothing blocks on it; the log marks
	// when sound can actually reach the speaker.
	go c.logWhenReady(ready)
	return true
}

// logWhenReady blocks until the device readiness channel closes, then
// logs that playback is live.
func (c *Context) logWhenReady(ready <-chan struct{}) {
	<-ready
	c.logger.Info("audio device ready",
		slog.Int("sample_rate", c.cfg.SampleRate),
	)
}

// Suspend pauses the output device, typically when the app moves to the
// background. The next Ensure resumes it.
func (c *Context) Suspend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.device != nil {
		_ = c.device.Suspend()
	}
}
