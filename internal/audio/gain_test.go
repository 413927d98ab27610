package audio

import (
	"math"
	"testing"
)

func TestGainStageInitialValue(t *testing.T) {
	g := NewGainStage(0.7)
	if got := g.At(0); got != 0.7 {
		t.Errorf("Expected initial value 0.7, got %f", got)
	}
	if got := g.At(100); got != 0.7 {
		t.Errorf("Expected value to hold at 0.7, got %f", got)
	}
}

func TestGainStageSetValueAt(t *testing.T) {
	g := NewGainStage(0)
	g.SetValueAt(1.0, 0.5)

	if got := g.At(0.5); got != 0 {
		t.Errorf("Expected 0 before the jump, got %f", got)
	}
	if got := g.At(1.0); got != 0.5 {
		t.Errorf("Expected 0.5 at the jump, got %f", got)
	}
	if got := g.At(2.0); got != 0.5 {
		t.Errorf("Expected 0.5 after the jump, got %f", got)
	}
}

func TestGainStageLinearRamp(t *testing.T) {
	g := NewGainStage(0)
	g.LinearRampTo(1.0, 1.0, 3.0)

	if got := g.At(0.5); got != 0 {
		t.Errorf("Expected 0 before the ramp, got %f", got)
	}
	if got := g.At(2.0); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("Expected 0.5 at ramp midpoint, got %f", got)
	}
	if got := g.At(3.0); got != 1.0 {
		t.Errorf("Expected 1.0 at ramp end, got %f", got)
	}
	if got := g.At(10.0); got != 1.0 {
		t.Errorf("Expected 1.0 to hold after the ramp, got %f", got)
	}
}

func TestGainStageLinearRampFromCurrentValue(t *testing.T) {
	g := NewGainStage(0.8)
	g.LinearRampTo(0, 0, 2.0)

	if got := g.At(1.0); math.Abs(got-0.4) > 1e-9 {
		t.Errorf("Expected ramp to start from 0.8, midpoint 0.4, got %f", got)
	}
}

func TestGainStageExponentialRamp(t *testing.T) {
	g := NewGainStage(0.5)
	g.ExponentialRampTo(0, 0, 1.0)

	// Target zero is clamped to the floor
	if got := g.At(1.0); got != GainFloor {
		t.Errorf("Expected ramp to end at the floor %f, got %f", GainFloor, got)
	}

	// Exponential decay drops faster than linear early on
	mid := g.At(0.5)
	if mid >= 0.25 {
		t.Errorf("Expected exponential midpoint below linear 0.25, got %f", mid)
	}
	if mid <= GainFloor {
		t.Errorf("Expected midpoint above the floor, got %f", mid)
	}
}

func TestGainStageRampCancelsPendingAutomation(t *testing.T) {
	// A fade-out issued while a fade-in ramp is still running must take
	// over immediately, not wait for the fade-in segment to finish.
	g := NewGainStage(0)
	g.LinearRampTo(0.5, 0, 1.0)
	g.LinearRampTo(0, 0.4, 2.4)

	if got := g.At(0.4); math.Abs(got-0.2) > 1e-9 {
		t.Fatalf("Expected fade-out to start from the fade-in value 0.2, got %f", got)
	}
	prev := g.At(0.4)
	for tt := 0.45; tt <= 2.4; tt += 0.05 {
		got := g.At(tt)
		if got > prev+1e-9 {
			t.Fatalf("Expected gain non-increasing after fade-out at %f: %f -> %f", tt, prev, got)
		}
		prev = got
	}
	if got := g.At(2.4); got != 0 {
		t.Errorf("Expected fade-out to reach 0, got %f", got)
	}
	// Inside the window the gain must follow the fade-out, not the
	// cancelled fade-in.
	if got := g.At(0.9); got >= 0.2 {
		t.Errorf("Expected value below 0.2 mid fade-out, got %f", got)
	}
}

func TestGainStageJumpCancelsPendingAutomation(t *testing.T) {
	g := NewGainStage(0)
	g.LinearRampTo(1.0, 0, 2.0)
	g.SetValueAt(1.0, 0.1)

	if got := g.At(0.5); math.Abs(got-0.25) > 1e-9 {
		t.Errorf("Expected the ramp to survive before the jump, got %f", got)
	}
	if got := g.At(1.0); got != 0.1 {
		t.Errorf("Expected 0.1 at the jump, got %f", got)
	}
	if got := g.At(1.5); got != 0.1 {
		t.Errorf("Expected the cancelled ramp not to resume, got %f", got)
	}
}

func TestGainStageRampSequence(t *testing.T) {
	// A cue envelope: attack to peak, then exponential decay
	g := NewGainStage(0)
	g.LinearRampTo(0.3, 0, 0.05)
	g.ExponentialRampTo(GainFloor, 0.05, 0.6)

	if got := g.At(0.05); math.Abs(got-0.3) > 1e-9 {
		t.Errorf("Expected peak 0.3 at attack end, got %f", got)
	}
	if got := g.At(0.6); got != GainFloor {
		t.Errorf("Expected decay to the floor, got %f", got)
	}
	between := g.At(0.2)
	if between <= GainFloor || between >= 0.3 {
		t.Errorf("Expected mid-decay value between floor and peak, got %f", between)
	}
}
