package session

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/RPuvvula/breathing-app/internal/soundscape"
	"github.com/RPuvvula/breathing-app/internal/synth"
)

type fakeDirector struct {
	cues       []synth.Cue
	started    []soundscape.Kind
	stops      int
	ready      bool
	cancelOnce func()
}

func (f *fakeDirector) PlayCue(cue synth.Cue) {
	f.cues = append(f.cues, cue)
	if f.cancelOnce != nil {
		f.cancelOnce()
		f.cancelOnce = nil
	}
}

func (f *fakeDirector) StartSoundscape(ctx context.Context, kind soundscape.Kind) {
	f.started = append(f.started, kind)
}

func (f *fakeDirector) StopSoundscape() { f.stops++ }
func (f *fakeDirector) GuidanceReady() bool { return f.ready }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func instantRunner(director AudioDirector, cfg Config) *Runner {
	r := NewRunner(director, cfg, testLogger(), nil)
	r.wait = func(ctx context.Context, d time.Duration) error {
		return ctx.Err()
	}
	return r
}

func TestRunFiresCuesInOrder(t *testing.T) {
	director := &fakeDirector{}
	r := instantRunner(director, Config{
		Rounds:          1,
		BreathsPerRound: 2,
		InhalePace:      time.Second,
		ExhalePace:      time.Second,
		RetentionHold:   time.Minute,
		RecoveryHold:    15 * time.Second,
		Soundscape:      soundscape.KindRain,
	})

	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	want := []synth.Cue{
		synth.CueInhale, synth.CueExhale,
		synth.CueInhale, synth.CueExhale,
		synth.CueHold,
		synth.CueInhale, synth.CueChime,
		synth.CueChime, // session complete
	}
	if len(director.cues) != len(want) {
		t.Fatalf("Expected %d cues, got %d: %v", len(want), len(director.cues), director.cues)
	}
	for i, cue := range want {
		if director.cues[i] != cue {
			t.Errorf("Cue %d: expected %s, got %s", i, cue, director.cues[i])
		}
	}
}

func TestRunStartsAndStopsSoundscape(t *testing.T) {
	director := &fakeDirector{}
	r := instantRunner(director, Config{
		Rounds:          2,
		BreathsPerRound: 1,
		Soundscape:      soundscape.KindHum,
	})

	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(director.started) != 1 || director.started[0] != soundscape.KindHum {
		t.Errorf("Expected one soundscape start of hum, got %v", director.started)
	}
	if director.stops != 1 {
		t.Errorf("Expected exactly one soundscape stop, got %d", director.stops)
	}
}

func TestRunCancelledMidSession(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	director := &fakeDirector{cancelOnce: cancel}
	r := instantRunner(director, Config{
		Rounds:          3,
		BreathsPerRound: 5,
		InhalePace:      time.Second,
	})

	err := r.Run(ctx)
	if err != context.Canceled {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}

	// Cancellation during the first cue's wait ends the session early
	if len(director.cues) != 1 {
		t.Errorf("Expected 1 cue before cancellation, got %d", len(director.cues))
	}
	if director.stops != 1 {
		t.Errorf("Expected soundscape stopped on cancellation, got %d stops", director.stops)
	}
}

func TestRunZeroRounds(t *testing.T) {
	director := &fakeDirector{}
	r := instantRunner(director, Config{Rounds: 0, BreathsPerRound: 30})

	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// Only the completion chime fires
	if len(director.cues) != 1 || director.cues[0] != synth.CueChime {
		t.Errorf("Expected only completion chime, got %v", director.cues)
	}
}
