package synth

import (
	"math/rand"

	"github.com/RPuvvula/breathing-app/internal/audio"
)

// bowlRatios are the partials of a struck singing bowl. They are
// intentionally detuned from integer multiples: pure harmonics read as
// an organ tone, not metal.
var bowlRatios = [...]float64{1, 2.1, 3.2, 4.5, 6.1}

const (
	bowlFundamentalMin = 110.0
	bowlFundamentalMax = 180.0
	bowlDecayMin       = 8.0
	bowlDecayMax       = 12.0
	bowlPeak           = 0.22
)

// StrikeBowl synthesizes one singing-bowl strike: a cluster of sine
// partials at a randomized fundamental, each with its own independently
// randomized decay so the cluster rings down unevenly the way a real
// bowl does. All partials connect to the shared bus gain. The generator
// is stateless; periodic striking is the caller's job.
func StrikeBowl(m *audio.Mixer, bus *audio.GainStage, rng *rand.Rand) []*audio.OscillatorVoice {
	now := m.Now()
	fundamental := bowlFundamentalMin + rng.Float64()*(bowlFundamentalMax-bowlFundamentalMin)

	voices := make([]*audio.OscillatorVoice, 0, len(bowlRatios))
	for i, ratio := range bowlRatios {
		peak := bowlPeak / float64(i+1)
		decay := bowlDecayMin + rng.Float64()*(bowlDecayMax-bowlDecayMin)

		gain := audio.NewGainStage(0)
		gain.SetValueAt(now, peak)
		gain.ExponentialRampTo(audio.GainFloor, now, now+decay)

		v := audio.NewOscillatorVoice(audio.WaveSine, fundamental*ratio, gain, bus, now)
		v.StopAt(now + decay)
		m.Add(v)
		voices = append(voices, v)
	}
	return voices
}
