// Package session drives a guided breathing session: a configurable
// number of rounds of paced breaths, each followed by a retention hold
// and a recovery hold. The runner only sequences timers and fires
// audio through the engine facade; it holds no audio state of its own.
package session
