package synth

import (
	"github.com/RPuvvula/breathing-app/internal/audio"
)

// Cue identifies a one-shot guidance tone.
type Cue string

// Cues fired by the breathing session at phase transitions.
const (
	CueInhale Cue = "inhale"
	CueExhale Cue = "exhale"
	CueChime  Cue = "chime"
	CueHold   Cue = "hold"
	CueBell   Cue = "bell"
)

// ToneProfile is an immutable descriptor for a one-shot cue tone.
type ToneProfile struct {
	Wave     audio.Waveform
	Freq     float64 // Hz
	Peak     float64 // peak gain
	Duration float64 // seconds
	Attack   float64 // seconds of linear ramp to peak; 0 means instant
}

// toneProfiles is the fixed cue table. Inhale sits a fourth above
// exhale so the direction of the breath is audible without words; the
// chime is a longer triangle that rings out over the retention hold.
var toneProfiles = map[Cue]ToneProfile{
	CueInhale: {Wave: audio.WaveSine, Freq: 440.00, Peak: 0.30, Duration: 0.60, Attack: 0.05},
	CueExhale: {Wave: audio.WaveSine, Freq: 329.63, Peak: 0.28, Duration: 0.80, Attack: 0.05},
	CueChime:  {Wave: audio.WaveTriangle, Freq: 880.00, Peak: 0.35, Duration: 1.50, Attack: 0.01},
	CueHold:   {Wave: audio.WaveSine, Freq: 523.25, Peak: 0.25, Duration: 0.40, Attack: 0.02},
	CueBell:   {Wave: audio.WaveTriangle, Freq: 987.77, Peak: 0.30, Duration: 0.35, Attack: 0.0},
}

// ProfileFor returns the tone profile for a cue name.
func ProfileFor(cue Cue) (ToneProfile, bool) {
	p, ok := toneProfiles[cue]
	return p, ok
}

// PlayTone creates one enveloped oscillator voice and connects it to
// the mixer, optionally through a shared bus gain. The envelope rises
// to the peak (instantly or over the profile attack) and then decays
// exponentially toward the gain floor; the oscillator stop is scheduled
// at the profile duration, after which the mixer prunes the voice on
// its own. The voice is returned so long-lived owners can still
// disconnect it explicitly.
func PlayTone(m *audio.Mixer, bus *audio.GainStage, p ToneProfile) *audio.OscillatorVoice {
	now := m.Now()
	gain := audio.NewGainStage(0)
	if p.Attack > 0 {
		gain.LinearRampTo(p.Peak, now, now+p.Attack)
	} else {
		gain.SetValueAt(now, p.Peak)
	}
	gain.ExponentialRampTo(audio.GainFloor, now+p.Attack, now+p.Duration)

	v := audio.NewOscillatorVoice(p.Wave, p.Freq, gain, bus, now)
	v.StopAt(now + p.Duration)
	m.Add(v)
	return v
}
