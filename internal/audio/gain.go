package audio

import (
	"math"
	"sync"
)

// GainFloor is the smallest value an exponential ramp may target.
// Exponential interpolation is undefined at true zero, so decays ramp
// toward this floor and sources are stopped once the ramp completes.
const GainFloor = 0.0001

// GainStage is an automatable gain value evaluated on the shared audio
// clock. Ramps are scheduled ahead of time and evaluated per sample
// during rendering, so concurrent scheduling and rendering never block
// each other for long.
type GainStage struct {
	mu       sync.Mutex
	initial  float64
	segments []gainSegment
}

// gainSegment is one scheduled automation event. Segments are appended
// in ascending time order; an instant set is a zero-length segment.
type gainSegment struct {
	begin, end  float64
	from, to    float64
	exponential bool
}

// NewGainStage creates a gain stage holding a constant value until the
// first automation event is scheduled.
func NewGainStage(value float64) *GainStage {
	return &GainStage{initial: value}
}

// SetValueAt schedules an instant jump to value at time t. Automation
// previously scheduled at or after t is cancelled.
func (g *GainStage) SetValueAt(t, value float64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cancelFromLocked(t)
	g.segments = append(g.segments, gainSegment{begin: t, end: t, from: value, to: value})
}

// LinearRampTo schedules a linear ramp from the value at start to
// target, completing at end. Automation previously scheduled at or
// after start is cancelled, so the newest ramp owns the timeline from
// its start onward.
func (g *GainStage) LinearRampTo(target, start, end float64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	from := g.valueAtLocked(start)
	g.cancelFromLocked(start)
	g.segments = append(g.segments, gainSegment{begin: start, end: end, from: from, to: target})
}

// ExponentialRampTo schedules an exponential ramp from the value at
// start to target, completing at end. Both endpoints are clamped to
// GainFloor since exponential interpolation cannot pass through zero.
// Automation previously scheduled at or after start is cancelled.
func (g *GainStage) ExponentialRampTo(target, start, end float64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	from := g.valueAtLocked(start)
	if from < GainFloor {
		from = GainFloor
	}
	if target < GainFloor {
		target = GainFloor
	}
	g.cancelFromLocked(start)
	g.segments = append(g.segments, gainSegment{begin: start, end: end, from: from, to: target, exponential: true})
}

// cancelFromLocked removes automation at or after time t: a segment
// spanning t is truncated to its value at t, and segments beginning at
// or after t are dropped. Callers capture the pre-cancel value at t
// first, so a jump scheduled exactly at t still seeds the next ramp.
func (g *GainStage) cancelFromLocked(t float64) {
	kept := g.segments[:0]
	for _, seg := range g.segments {
		if seg.begin >= t {
			continue
		}
		if seg.end > t {
			seg.to = seg.at(t)
			seg.end = t
		}
		kept = append(kept, seg)
	}
	g.segments = kept
}

// At returns the gain value at time t.
func (g *GainStage) At(t float64) float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.valueAtLocked(t)
}

func (g *GainStage) valueAtLocked(t float64) float64 {
	value := g.initial
	for _, seg := range g.segments {
		if t < seg.begin {
			break
		}
		if t >= seg.end {
			value = seg.to
			continue
		}
		value = seg.at(t)
		break
	}
	return value
}

// at evaluates the segment at a time inside its span.
func (s gainSegment) at(t float64) float64 {
	if s.end <= s.begin {
		return s.to
	}
	progress := (t - s.begin) / (s.end - s.begin)
	if s.exponential {
		return s.from * math.Pow(s.to/s.from, progress)
	}
	return s.from + (s.to-s.from)*progress
}
