package synth

import (
	"math/rand"

	"github.com/RPuvvula/breathing-app/internal/audio"
)

// StartOceanTexture builds the wave-motion texture: looped white noise
// through a resonant low-pass whose cutoff is swept by a sub-audio LFO.
// The sweep widens and narrows the noise band slowly enough to read as
// surf rather than static. The returned voice runs until explicitly
// stopped; it is the one generator whose source never self-terminates.
func StartOceanTexture(m *audio.Mixer, bus *audio.GainStage, rng *rand.Rand) *audio.FilteredNoiseVoice {
	now := m.Now()
	gain := audio.NewGainStage(1)
	v := audio.NewFilteredNoiseVoice(rng, m.Rate(), gain, bus, now)
	m.Add(v)
	return v
}

// StartHumDrone builds a sustained low drone from slightly detuned sine
// oscillators. The ±0.4% detune produces a slow beating that keeps the
// drone alive without any modulation machinery. The voices run until
// explicitly stopped.
func StartHumDrone(m *audio.Mixer, bus *audio.GainStage) []*audio.OscillatorVoice {
	now := m.Now()
	detunes := [...]float64{-0.004, 0, 0.004}
	const fundamental = 110.0
	const peak = 0.12

	voices := make([]*audio.OscillatorVoice, 0, len(detunes))
	for _, d := range detunes {
		gain := audio.NewGainStage(peak)
		v := audio.NewOscillatorVoice(audio.WaveSine, fundamental*(1+d), gain, bus, now)
		m.Add(v)
		voices = append(voices, v)
	}
	return voices
}
