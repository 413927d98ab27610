// Package config provides configuration loading and validation for the
// breathing app. It handles YAML-based configuration with per-section
// validation covering audio output, sample assets, soundscapes, session
// timing, the HTTP API, and logging.
package config
