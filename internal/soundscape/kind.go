package soundscape

import "fmt"

// Kind identifies a background soundscape.
type Kind string

// Available soundscapes. Hum, Ocean, Bowl, and Bell are synthesized
// and built synchronously; Rain and Chant stream a fetched audio asset
// and are the only kinds whose start can race a stop.
const (
	KindOff   Kind = "off"
	KindHum   Kind = "hum"
	KindOcean Kind = "ocean"
	KindBowl  Kind = "bowl"
	KindBell  Kind = "bell"
	KindRain  Kind = "rain"
	KindChant Kind = "chant"
)

// ParseKind converts a configuration string into a Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindOff, KindHum, KindOcean, KindBowl, KindBell, KindRain, KindChant:
		return Kind(s), nil
	}
	return KindOff, fmt.Errorf("unknown soundscape kind %q", s)
}

// SampleBacked reports whether the kind streams a fetched asset.
func (k Kind) SampleBacked() bool {
	return k == KindRain || k == KindChant
}

// kindParams holds the fixed per-kind level and fade-in window.
type kindParams struct {
	volume float64
	fadeIn float64 // seconds
}

var params = map[Kind]kindParams{
	KindHum:   {volume: 0.25, fadeIn: 2},
	KindOcean: {volume: 0.40, fadeIn: 3},
	KindBowl:  {volume: 0.50, fadeIn: 1},
	KindBell:  {volume: 0.40, fadeIn: 1},
	KindRain:  {volume: 0.35, fadeIn: 3},
	KindChant: {volume: 0.30, fadeIn: 3},
}
