package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete application configuration
type Config struct {
	Audio      AudioConfig      `yaml:"audio"`
	Assets     AssetsConfig     `yaml:"assets"`
	Soundscape SoundscapeConfig `yaml:"soundscape"`
	Session    SessionConfig    `yaml:"session"`
	HTTP       HTTPConfig       `yaml:"http"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// AudioConfig contains audio output parameters
type AudioConfig struct {
	SampleRate int     `yaml:"sample_rate"`
	BufferSize float64 `yaml:"buffer_size"` // seconds
	Playback   bool    `yaml:"playback"`
}

// AssetsConfig contains sample asset fetching configuration
type AssetsConfig struct {
	BaseURL      string `yaml:"base_url"`
	RainPath     string `yaml:"rain_path"`
	ChantPath    string `yaml:"chant_path"`
	FetchTimeout int    `yaml:"fetch_timeout"` // seconds
}

// SoundscapeConfig contains soundscape scheduler configuration
type SoundscapeConfig struct {
	FadeOut float64 `yaml:"fade_out"` // seconds
}

// SessionConfig contains breathing session timing
type SessionConfig struct {
	Rounds          int     `yaml:"rounds"`
	BreathsPerRound int     `yaml:"breaths_per_round"`
	InhalePace      float64 `yaml:"inhale_pace"`    // seconds
	ExhalePace      float64 `yaml:"exhale_pace"`    // seconds
	RetentionHold   float64 `yaml:"retention_hold"` // seconds
	RecoveryHold    float64 `yaml:"recovery_hold"`  // seconds
	Preparation     float64 `yaml:"preparation"`    // seconds
	Soundscape      string  `yaml:"soundscape"`
}

// HTTPConfig contains HTTP API server configuration
type HTTPConfig struct {
	Port    int    `yaml:"port"`
	Address string `yaml:"address"`
	Enabled bool   `yaml:"enabled"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// Validate performs comprehensive validation of the configuration
func (c *Config) Validate() error {
	if err := c.Audio.Validate(); err != nil {
		return fmt.Errorf("audio config: %w", err)
	}

	if err := c.Assets.Validate(); err != nil {
		return fmt.Errorf("assets config: %w", err)
	}

	if err := c.Soundscape.Validate(); err != nil {
		return fmt.Errorf("soundscape config: %w", err)
	}

	if err := c.Session.Validate(); err != nil {
		return fmt.Errorf("session config: %w", err)
	}

	if err := c.HTTP.Validate(); err != nil {
		return fmt.Errorf("http config: %w", err)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	return nil
}

// Validate validates audio configuration
func (a *AudioConfig) Validate() error {
	switch a.SampleRate {
	case 22050, 44100, 48000:
	default:
		return fmt.Errorf("sample_rate must be 22050, 44100 or 48000 Hz, got %d", a.SampleRate)
	}

	if a.BufferSize < 0 || a.BufferSize > 1 {
		return fmt.Errorf("buffer_size must be between 0 and 1 second, got %f", a.BufferSize)
	}

	return nil
}

// Validate validates assets configuration
func (a *AssetsConfig) Validate() error {
	if a.BaseURL == "" {
		return fmt.Errorf("base_url cannot be empty")
	}

	if a.RainPath == "" {
		return fmt.Errorf("rain_path cannot be empty")
	}

	if a.ChantPath == "" {
		return fmt.Errorf("chant_path cannot be empty")
	}

	if a.FetchTimeout < 1 {
		return fmt.Errorf("fetch_timeout must be at least 1 second, got %d", a.FetchTimeout)
	}

	return nil
}

// Validate validates soundscape configuration
func (s *SoundscapeConfig) Validate() error {
	if s.FadeOut <= 0 {
		return fmt.Errorf("fade_out must be positive, got %f", s.FadeOut)
	}

	if s.FadeOut > 30 {
		return fmt.Errorf("fade_out must be at most 30 seconds, got %f", s.FadeOut)
	}

	return nil
}

// Validate validates session configuration
func (s *SessionConfig) Validate() error {
	if s.Rounds < 1 {
		return fmt.Errorf("rounds must be at least 1, got %d", s.Rounds)
	}

	if s.BreathsPerRound < 1 {
		return fmt.Errorf("breaths_per_round must be at least 1, got %d", s.BreathsPerRound)
	}

	if s.InhalePace <= 0 {
		return fmt.Errorf("inhale_pace must be positive, got %f", s.InhalePace)
	}

	if s.ExhalePace <= 0 {
		return fmt.Errorf("exhale_pace must be positive, got %f", s.ExhalePace)
	}

	if s.RetentionHold <= 0 {
		return fmt.Errorf("retention_hold must be positive, got %f", s.RetentionHold)
	}

	if s.RecoveryHold <= 0 {
		return fmt.Errorf("recovery_hold must be positive, got %f", s.RecoveryHold)
	}

	if s.Preparation < 0 {
		return fmt.Errorf("preparation cannot be negative, got %f", s.Preparation)
	}

	validSoundscapes := map[string]bool{
		"off": true, "hum": true, "ocean": true, "bowl": true,
		"bell": true, "rain": true, "chant": true,
	}
	if !validSoundscapes[s.Soundscape] {
		return fmt.Errorf("soundscape must be one of [off, hum, ocean, bowl, bell, rain, chant], got '%s'", s.Soundscape)
	}

	return nil
}

// Validate validates HTTP configuration
func (h *HTTPConfig) Validate() error {
	if h.Enabled {
		if h.Port < 1 || h.Port > 65535 {
			return fmt.Errorf("http port must be between 1 and 65535, got %d", h.Port)
		}

		if h.Address == "" {
			return fmt.Errorf("http address cannot be empty when HTTP is enabled")
		}
	}

	return nil
}

// Validate validates logging configuration
func (l *LoggingConfig) Validate() error {
	validLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLevels[l.Level] {
		return fmt.Errorf("level must be one of [debug, info, warn, error], got '%s'", l.Level)
	}

	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("format must be 'json' or 'text', got '%s'", l.Format)
	}

	return nil
}

// GetBufferSizeDuration returns the output buffer size as a time.Duration
func (a *AudioConfig) GetBufferSizeDuration() time.Duration {
	return time.Duration(a.BufferSize * float64(time.Second))
}

// GetFetchTimeoutDuration returns the asset fetch timeout as a time.Duration
func (a *AssetsConfig) GetFetchTimeoutDuration() time.Duration {
	return time.Duration(a.FetchTimeout) * time.Second
}

// GetFadeOutDuration returns the soundscape fade-out as a time.Duration
func (s *SoundscapeConfig) GetFadeOutDuration() time.Duration {
	return time.Duration(s.FadeOut * float64(time.Second))
}

// GetInhalePaceDuration returns the inhale pace as a time.Duration
func (s *SessionConfig) GetInhalePaceDuration() time.Duration {
	return time.Duration(s.InhalePace * float64(time.Second))
}

// GetExhalePaceDuration returns the exhale pace as a time.Duration
func (s *SessionConfig) GetExhalePaceDuration() time.Duration {
	return time.Duration(s.ExhalePace * float64(time.Second))
}

// GetRetentionHoldDuration returns the retention hold as a time.Duration
func (s *SessionConfig) GetRetentionHoldDuration() time.Duration {
	return time.Duration(s.RetentionHold * float64(time.Second))
}

// GetRecoveryHoldDuration returns the recovery hold as a time.Duration
func (s *SessionConfig) GetRecoveryHoldDuration() time.Duration {
	return time.Duration(s.RecoveryHold * float64(time.Second))
}

// GetPreparationDuration returns the preparation time as a time.Duration
func (s *SessionConfig) GetPreparationDuration() time.Duration {
	return time.Duration(s.Preparation * float64(time.Second))
}
