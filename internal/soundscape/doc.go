// Package soundscape manages the lifecycle of the continuous background
// sound: at most one soundscape is active at a time, owned exclusively
// by the scheduler together with its node graph and any repeating
// timers. Start is cancellation-safe across the asynchronous asset
// loads of sample-backed soundscapes; stop fades out and tears down in
// a strict order that prevents clicks, leaks, and timer resurrection.
package soundscape
