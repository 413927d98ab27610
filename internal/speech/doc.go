// Package speech tracks availability of text-to-speech voices for
// spoken guidance. Enumeration is asynchronous on most platforms, so
// the pool exposes a readiness flag the session can poll before
// deciding whether to speak or skip a prompt.
package speech
