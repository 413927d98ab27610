package synth

import (
	"math"
	"math/rand"
	"testing"

	"github.com/RPuvvula/breathing-app/internal/audio"
)

func TestProfileForKnownCues(t *testing.T) {
	for _, cue := range []Cue{CueInhale, CueExhale, CueChime, CueHold, CueBell} {
		p, ok := ProfileFor(cue)
		if !ok {
			t.Errorf("Expected profile for cue %s", cue)
			continue
		}
		if p.Freq <= 0 || p.Peak <= 0 || p.Duration <= 0 {
			t.Errorf("Cue %s has degenerate profile: %+v", cue, p)
		}
	}
}

func TestProfileForUnknownCue(t *testing.T) {
	if _, ok := ProfileFor(Cue("whale-song")); ok {
		t.Error("Expected no profile for unknown cue")
	}
}

func TestInhaleSitsAboveExhale(t *testing.T) {
	inhale, _ := ProfileFor(CueInhale)
	exhale, _ := ProfileFor(CueExhale)
	if inhale.Freq <= exhale.Freq {
		t.Errorf("Expected inhale (%f Hz) above exhale (%f Hz)", inhale.Freq, exhale.Freq)
	}
}

func TestPlayToneEnvelope(t *testing.T) {
	m := audio.NewMixer(44100)
	profile := ToneProfile{Wave: audio.WaveTriangle, Freq: 880, Peak: 0.4, Duration: 0.2, Attack: 0.0}
	v := PlayTone(m, nil, profile)

	if got := v.StopTime(); math.Abs(got-0.2) > 1e-9 {
		t.Errorf("Expected oscillator stopped at exactly 0.2s, got %f", got)
	}
	if v.Gain.At(0) != 0.4 {
		t.Errorf("Expected instant attack to peak 0.4, got %f", v.Gain.At(0))
	}
	if got := v.Gain.At(0.2); got != audio.GainFloor {
		t.Errorf("Expected decay to the gain floor at stop, got %f", got)
	}

	// Render past the duration: voice goes silent and is pruned
	m.RenderFrames(44100 / 2)
	if count := m.VoiceCount(); count != 0 {
		t.Errorf("Expected tone pruned after its duration, %d voices remain", count)
	}
}

func TestPlayToneWithAttack(t *testing.T) {
	m := audio.NewMixer(44100)
	profile, _ := ProfileFor(CueInhale)
	v := PlayTone(m, nil, profile)

	if got := v.Gain.At(0); got != 0 {
		t.Errorf("Expected attack to start from silence, got %f", got)
	}
	if got := v.Gain.At(profile.Attack); math.Abs(got-profile.Peak) > 1e-9 {
		t.Errorf("Expected peak %f at attack end, got %f", profile.Peak, got)
	}
}

func TestPlayToneAudible(t *testing.T) {
	m := audio.NewMixer(44100)
	profile, _ := ProfileFor(CueChime)
	PlayTone(m, nil, profile)

	block := m.RenderFrames(4410)
	var peak float64
	for _, s := range block {
		if a := math.Abs(s); a > peak {
			peak = a
		}
	}
	if peak < 0.1 {
		t.Errorf("Expected audible chime, peak %f", peak)
	}
}

func TestStrikeBowlPartials(t *testing.T) {
	m := audio.NewMixer(44100)
	bus := audio.NewGainStage(1)
	rng := rand.New(rand.NewSource(7))

	voices := StrikeBowl(m, bus, rng)
	if len(voices) != len(bowlRatios) {
		t.Fatalf("Expected %d partials, got %d", len(bowlRatios), len(voices))
	}
	if m.VoiceCount() != len(bowlRatios) {
		t.Errorf("Expected all partials connected, got %d", m.VoiceCount())
	}

	fundamental := voices[0].Freq
	if fundamental < bowlFundamentalMin || fundamental > bowlFundamentalMax {
		t.Errorf("Fundamental %f outside [%f, %f]", fundamental, bowlFundamentalMin, bowlFundamentalMax)
	}
	for i, v := range voices {
		want := fundamental * bowlRatios[i]
		if math.Abs(v.Freq-want) > 1e-9 {
			t.Errorf("Partial %d: expected %f Hz, got %f", i, want, v.Freq)
		}
		stop := v.StopTime()
		if stop < bowlDecayMin || stop > bowlDecayMax {
			t.Errorf("Partial %d: decay %f outside [%f, %f]", i, stop, bowlDecayMin, bowlDecayMax)
		}
	}
}

func TestStrikeBowlDeterministicWithSeed(t *testing.T) {
	a := StrikeBowl(audio.NewMixer(44100), audio.NewGainStage(1), rand.New(rand.NewSource(3)))
	b := StrikeBowl(audio.NewMixer(44100), audio.NewGainStage(1), rand.New(rand.NewSource(3)))

	for i := range a {
		if a[i].Freq != b[i].Freq || a[i].StopTime() != b[i].StopTime() {
			t.Errorf("Partial %d differs across identical seeds", i)
		}
	}
}

func TestStartHumDroneDetune(t *testing.T) {
	m := audio.NewMixer(44100)
	voices := StartHumDrone(m, audio.NewGainStage(1))

	if len(voices) != 3 {
		t.Fatalf("Expected 3 drone oscillators, got %d", len(voices))
	}
	if voices[0].Freq >= voices[1].Freq || voices[1].Freq >= voices[2].Freq {
		t.Errorf("Expected ascending detuned frequencies, got %f %f %f",
			voices[0].Freq, voices[1].Freq, voices[2].Freq)
	}
	for i, v := range voices {
		if v.StopTime() != 0 {
			t.Errorf("Drone oscillator %d should have no scheduled stop", i)
		}
	}
}

func TestStartOceanTextureRuns(t *testing.T) {
	m := audio.NewMixer(44100)
	rng := rand.New(rand.NewSource(11))
	v := StartOceanTexture(m, audio.NewGainStage(1), rng)

	if v.StopTime() != 0 {
		t.Error("Ocean texture should run until explicitly stopped")
	}

	block := m.RenderFrames(8820)
	var sumSq float64
	for _, s := range block {
		sumSq += s * s
	}
	if sumSq == 0 {
		t.Error("Expected non-silent ocean texture")
	}

	v.StopAt(m.Now())
	m.RenderFrames(441)
	if m.VoiceCount() != 0 {
		t.Errorf("Expected ocean texture pruned after stop, %d remain", m.VoiceCount())
	}
}
