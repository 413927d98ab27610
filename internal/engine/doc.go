// Package engine is the facade the session driver talks to. It owns
// the audio context, the soundscape scheduler, and the speech voice
// pool, and exposes the small surface the breathing phase machine
// needs: fire a cue, start or stop a soundscape, check whether spoken
// guidance is available. Every operation degrades to silence when no
// audio device exists.
package engine
