// Package audio provides the shared audio processing context for the
// breathing app: lazy device bring-up through oto, the sample clock used
// for all scheduling, gain automation, and the mixer that renders every
// active voice into the output stream.
package audio
