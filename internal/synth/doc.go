// Package synth builds procedural sound voices: enveloped one-shot
// cue tones, detuned harmonic clusters for singing-bowl strikes, a
// sustained drone, and the filtered-noise ocean texture. Generators are
// stateless per call; the soundscape scheduler owns the lifecycle of
// everything they create.
package synth
