package speech

import (
	"log/slog"
	"sync"
)

// Voice describes one available synthesis voice
type Voice struct {
	Name     string
	Language string
}

// Enumerator lists the voices currently available on the platform.
// Platforms that populate their voice list lazily may return an empty
// slice on early calls and a full list later.
type Enumerator interface {
	Voices() []Voice
}

// EnumeratorFunc adapts a function to the Enumerator interface
type EnumeratorFunc func() []Voice

func (f EnumeratorFunc) Voices() []Voice { return f() }

// Pool caches the enumerated voice list and reports readiness
type Pool struct {
	enum   Enumerator
	logger *slog.Logger

	mu     sync.Mutex
	voices []Voice
}

// NewPool creates a voice pool backed by the given enumerator
func NewPool(enum Enumerator, logger *slog.Logger) *Pool {
	return &Pool{
		enum:   enum,
		logger: logger,
	}
}

// Refresh re-runs enumeration and caches the result. It returns the
// number of voices found. Safe to call repeatedly; later non-empty
// results replace earlier ones, an empty result never clears a
// previously cached list.
func (p *Pool) Refresh() int {
	found := p.enum.Voices()

	p.mu.Lock()
	defer p.mu.Unlock()

	if len(found) > 0 {
		first := len(p.voices) == 0
		p.voices = found
		if first {
			p.logger.Info("Speech voices enumerated",
				slog.Int("count", len(found)),
				slog.String("first_voice", found[0].Name))
		}
	}
	return len(p.voices)
}

// Ready reports whether at least one voice has been enumerated
func (p *Pool) Ready() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.voices) > 0
}

// Voices returns a copy of the cached voice list
func (p *Pool) Voices() []Voice {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Voice, len(p.voices))
	copy(out, p.voices)
	return out
}
