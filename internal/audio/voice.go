package audio

import (
	"math"
	"math/rand"
	"sync"
)

// Waveform selects the oscillator shape used by a tone voice.
type Waveform int

const (
	WaveSine Waveform = iota
	WaveTriangle
	WaveSquare
	WaveSawtooth
)

// String returns the waveform name used in configuration and logs.
func (w Waveform) String() string {
	switch w {
	case WaveTriangle:
		return "triangle"
	case WaveSquare:
		return "square"
	case WaveSawtooth:
		return "sawtooth"
	default:
		return "sine"
	}
}

func waveSample(w Waveform, phase float64) float64 {
	switch w {
	case WaveTriangle:
		return (2 / math.Pi) * math.Asin(math.Sin(phase))
	case WaveSquare:
		if math.Sin(phase) >= 0 {
			return 1
		}
		return -1
	case WaveSawtooth:
		return math.Mod(phase/math.Pi+1, 2) - 1
	default:
		return math.Sin(phase)
	}
}

// Voice is a sound source owned by the mixer. Each implementation is a
// tagged variant carrying exactly the handles it needs to be stopped
// and torn down; there is no untyped node bag.
type Voice interface {
	// StopAt schedules the source to go silent at time t on the audio
	// clock. Stopping an already-stopped voice is a tolerated no-op.
	StopAt(t float64)

	// StopTime returns the scheduled stop time, or 0 when the voice has
	// no stop scheduled and runs until removed.
	StopTime() float64

	// Finished reports whether the source has passed its stop time and
	// can be pruned from the mixer.
	Finished(now float64) bool

	render(dst []float64, startFrame int64, rate float64)
}

// voiceLifetime holds the start/stop window shared by all variants.
type voiceLifetime struct {
	mu      sync.Mutex
	startAt float64
	stopAt  float64
	stopped bool
}

func (l *voiceLifetime) StopAt(t float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.stopped {
		return
	}
	if t <= l.startAt {
		// Immediate stop, used when a cancelled start unwinds.
		l.stopped = true
		l.stopAt = t
		return
	}
	if l.stopAt == 0 || t < l.stopAt {
		l.stopAt = t
	}
}

func (l *voiceLifetime) StopTime() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stopAt
}

func (l *voiceLifetime) Finished(now float64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stopped || (l.stopAt > 0 && now >= l.stopAt)
}

// window reports whether time t falls inside the audible lifetime.
func (l *voiceLifetime) window(t float64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.stopped || t < l.startAt {
		return false
	}
	if l.stopAt > 0 && t >= l.stopAt {
		l.stopped = true
		return false
	}
	return true
}

// OscillatorVoice is a single enveloped oscillator. It is
// self-terminating: once its scheduled stop time passes the mixer
// prunes it automatically.
type OscillatorVoice struct {
	voiceLifetime
	Wave Waveform
	Freq float64
	Gain *GainStage
	Bus  *GainStage // optional shared master gain; nil for one-shot cues

	phase float64
}

// NewOscillatorVoice creates an oscillator starting at time start.
func NewOscillatorVoice(wave Waveform, freq float64, gain, bus *GainStage, start float64) *OscillatorVoice {
	v := &OscillatorVoice{Wave: wave, Freq: freq, Gain: gain, Bus: bus}
	v.startAt = start
	return v
}

func (v *OscillatorVoice) render(dst []float64, startFrame int64, rate float64) {
	step := 2 * math.Pi * v.Freq / rate
	for i := range dst {
		t := float64(startFrame+int64(i)) / rate
		if !v.window(t) {
			v.phase += step
			continue
		}
		g := v.Gain.At(t)
		if v.Bus != nil {
			g *= v.Bus.At(t)
		}
		dst[i] += waveSample(v.Wave, v.phase) * g
		v.phase += step
		if v.phase > math.Pi {
			v.phase -= 2 * math.Pi
		}
	}
}

// FilteredNoiseVoice is a looped white-noise buffer routed through a
// resonant low-pass filter whose cutoff is modulated by a slow LFO.
// The modulation feeds the filter parameter, not the audio path, so it
// reads as the swell and retreat of waves. Unlike oscillator voices it
// runs indefinitely until explicitly stopped.
type FilteredNoiseVoice struct {
	voiceLifetime
	Gain *GainStage
	Bus  *GainStage

	noise      []float64
	pos        int
	filter     biquad
	CutoffBase float64
	CutoffMod  float64 // peak deviation in Hz driven by the LFO
	LFORate    float64 // Hz, sub-audio
	Resonance  float64
}

// NewFilteredNoiseVoice builds the noise buffer and filter chain. The
// random source is injected so tests can render deterministically.
func NewFilteredNoiseVoice(rng *rand.Rand, rate int, gain, bus *GainStage, start float64) *FilteredNoiseVoice {
	// Two seconds of uniform noise is enough that the loop seam is
	// inaudible under the filter sweep.
	noise := make([]float64, rate*2)
	for i := range noise {
		noise[i] = rng.Float64()*2 - 1
	}
	v := &FilteredNoiseVoice{
		Gain:       gain,
		Bus:        bus,
		noise:      noise,
		CutoffBase: 400,
		CutoffMod:  250,
		LFORate:    0.2,
		Resonance:  1.0,
	}
	v.startAt = start
	return v
}

func (v *FilteredNoiseVoice) render(dst []float64, startFrame int64, rate float64) {
	// The LFO moves at ~0.2 Hz, so updating the filter coefficients
	// once per render quantum is indistinguishable from per-sample.
	blockTime := float64(startFrame) / rate
	cutoff := v.CutoffBase + v.CutoffMod*math.Sin(2*math.Pi*v.LFORate*blockTime)
	if cutoff < 40 {
		cutoff = 40
	}
	v.filter.setLowpass(rate, cutoff, v.Resonance)

	for i := range dst {
		t := float64(startFrame+int64(i)) / rate
		if !v.window(t) {
			continue
		}
		sample := v.filter.process(v.noise[v.pos])
		v.pos++
		if v.pos >= len(v.noise) {
			v.pos = 0
		}
		g := v.Gain.At(t)
		if v.Bus != nil {
			g *= v.Bus.At(t)
		}
		dst[i] += sample * g
	}
}

// BufferedLoopVoice plays a decoded sample buffer on a loop until
// stopped. Created only by the sample streamer after a successful
// fetch and decode.
type BufferedLoopVoice struct {
	voiceLifetime
	Gain *GainStage
	Bus  *GainStage

	data []float64
	pos  int
}

// NewBufferedLoopVoice wraps mono samples already at the mixer rate.
func NewBufferedLoopVoice(data []float64, gain, bus *GainStage, start float64) *BufferedLoopVoice {
	v := &BufferedLoopVoice{Gain: gain, Bus: bus, data: data}
	v.startAt = start
	return v
}

func (v *BufferedLoopVoice) render(dst []float64, startFrame int64, rate float64) {
	if len(v.data) == 0 {
		return
	}
	for i := range dst {
		t := float64(startFrame+int64(i)) / rate
		if !v.window(t) {
			continue
		}
		g := v.Gain.At(t)
		if v.Bus != nil {
			g *= v.Bus.At(t)
		}
		dst[i] += v.data[v.pos] * g
		v.pos++
		if v.pos >= len(v.data) {
			v.pos = 0
		}
	}
}

// biquad is a direct-form-I RBJ low-pass section.
type biquad struct {
	b0, b1, b2, a1, a2 float64
	x1, x2, y1, y2     float64
}

func (f *biquad) setLowpass(rate, cutoff, q float64) {
	w0 := 2 * math.Pi * cutoff / rate
	alpha := math.Sin(w0) / (2 * q)
	cosw0 := math.Cos(w0)

	b0 := (1 - cosw0) / 2
	b1 := 1 - cosw0
	b2 := (1 - cosw0) / 2
	a0 := 1 + alpha
	a1 := -2 * cosw0
	a2 := 1 - alpha

	f.b0 = b0 / a0
	f.b1 = b1 / a0
	f.b2 = b2 / a0
	f.a1 = a1 / a0
	f.a2 = a2 / a0
}

func (f *biquad) process(x float64) float64 {
	y := f.b0*x + f.b1*f.x1 + f.b2*f.x2 - f.a1*f.y1 - f.a2*f.y2
	f.x2, f.x1 = f.x1, x
	f.y2, f.y1 = f.y1, y
	return y
}
