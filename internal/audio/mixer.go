package audio

import (
	"encoding/binary"
	"math"
	"sync"
)

// Mixer renders all active voices into interleaved stereo float32
// samples and owns the audio clock. The output device pulls from Read;
// device-less contexts advance the clock through RenderFrames instead.
type Mixer struct {
	rate int

	mu      sync.Mutex
	voices  []Voice
	frames  int64
	scratch []float64
}

// NewMixer creates a mixer at the given sample rate.
func NewMixer(rate int) *Mixer {
	return &Mixer{rate: rate}
}

// Rate returns the mixer sample rate in Hz.
func (m *Mixer) Rate() int { return m.rate }

// Now returns the audio clock reading in seconds: the amount of audio
// rendered so far. All envelope and stop scheduling uses this clock.
func (m *Mixer) Now() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return float64(m.frames) / float64(m.rate)
}

// Add connects a voice to the mixer output.
func (m *Mixer) Add(v Voice) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.voices = append(m.voices, v)
}

// Remove disconnects a voice. Removing a voice that was already pruned
// or never added is a no-op.
func (m *Mixer) Remove(v Voice) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, existing := range m.voices {
		if existing == v {
			m.voices = append(m.voices[:i], m.voices[i+1:]...)
			return
		}
	}
}

// VoiceCount returns the number of connected voices.
func (m *Mixer) VoiceCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.voices)
}

// RenderFrames renders n mono frames, advancing the clock. Used by
// tests and by offline rendering; the device path goes through Read.
// The returned slice is reused by the next render call.
func (m *Mixer) RenderFrames(n int) []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.renderLocked(n)
}

func (m *Mixer) renderLocked(n int) []float64 {
	if cap(m.scratch) < n {
		m.scratch = make([]float64, n)
	}
	block := m.scratch[:n]
	for i := range block {
		block[i] = 0
	}
	start := m.frames
	for _, v := range m.voices {
		v.render(block, start, float64(m.rate))
	}
	m.frames += int64(n)

	// Prune voices whose scheduled stop has passed. Explicit Remove by
	// the owner remains safe afterwards.
	now := float64(m.frames) / float64(m.rate)
	kept := m.voices[:0]
	for _, v := range m.voices {
		if !v.Finished(now) {
			kept = append(kept, v)
		}
	}
	m.voices = kept

	for i, s := range block {
		block[i] = softClip(s)
	}
	return block
}

// Read implements io.Reader for the output device, producing
// interleaved stereo float32 little-endian samples. It never returns
// io.EOF: silence is rendered when no voice is active so the device
// keeps pulling and the clock keeps advancing.
func (m *Mixer) Read(p []byte) (int, error) {
	const frameBytes = 8 // two float32 channels
	frames := len(p) / frameBytes
	if frames == 0 {
		return 0, nil
	}
	m.mu.Lock()
	block := m.renderLocked(frames)
	m.mu.Unlock()

	for i, s := range block {
		bits := math.Float32bits(float32(s))
		binary.LittleEndian.PutUint32(p[i*frameBytes:], bits)
		binary.LittleEndian.PutUint32(p[i*frameBytes+4:], bits)
	}
	return frames * frameBytes, nil
}

// softClip applies gentle saturation so overlapping voices cannot
// produce hard clipping artifacts. The cubic interior and the
// saturating tails meet at |x|=1 with value 2/3, so the curve is
// continuous and monotonic across the knee.
func softClip(x float64) float64 {
	if x > 1 {
		return 1 - 1/(3*x)
	}
	if x < -1 {
		return -1 - 1/(3*x)
	}
	return x - x*x*x/3
}
