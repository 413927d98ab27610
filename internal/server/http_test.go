package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/RPuvvula/breathing-app/internal/audio"
	"github.com/RPuvvula/breathing-app/internal/config"
	"github.com/RPuvvula/breathing-app/internal/engine"
	"github.com/RPuvvula/breathing-app/internal/metrics"
	"github.com/RPuvvula/breathing-app/internal/sample"
	"github.com/RPuvvula/breathing-app/internal/soundscape"
)

// Prometheus collectors register globally, so create them once for the
// whole test binary.
var testMetrics = metrics.NewMetrics()

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	appConfig := &config.Config{
		Audio: config.AudioConfig{SampleRate: 44100, BufferSize: 0.05},
		Assets: config.AssetsConfig{
			BaseURL:      "https://assets.example.com/audio",
			RainPath:     "rain-loop.wav",
			ChantPath:    "om-chanting.wav",
			FetchTimeout: 30,
		},
		Soundscape: config.SoundscapeConfig{FadeOut: 2.0},
		Session: config.SessionConfig{
			Rounds:          3,
			BreathsPerRound: 30,
			Soundscape:      "rain",
		},
		Logging: config.LoggingConfig{Level: "info", Format: "json", Output: "stdout"},
	}

	actx := audio.NewContext(audio.Config{Playback: false}, logger)
	loader := sample.NewLoader(sample.Config{BaseURL: appConfig.Assets.BaseURL}, logger, nil)
	sched := soundscape.NewScheduler(actx, loader, soundscape.Config{}, rand.New(rand.NewSource(1)), logger, nil)
	eng := engine.New(actx, sched, nil, logger, nil)

	h := NewHTTPServer(config.HTTPConfig{Port: 8080, Address: "127.0.0.1", Enabled: true},
		logger, appConfig, eng, testMetrics)

	ts := httptest.NewServer(h.server.Handler)
	t.Cleanup(ts.Close)
	return ts
}

func getJSON(t *testing.T, url string) map[string]interface{} {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s failed: %v", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET %s: expected 200, got %d", url, resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected application/json, got %s", ct)
	}

	var body map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	return body
}

func TestHealthEndpoint(t *testing.T) {
	ts := testServer(t)

	health := getJSON(t, ts.URL+"/health")
	if health["status"] != "healthy" {
		t.Errorf("Expected healthy status, got %v", health["status"])
	}

	components, ok := health["components"].(map[string]interface{})
	if !ok {
		t.Fatalf("Expected components object, got %T", health["components"])
	}
	soundscapeInfo, ok := components["soundscape"].(map[string]interface{})
	if !ok {
		t.Fatalf("Expected soundscape component, got %v", components)
	}
	if soundscapeInfo["state"] != "idle" {
		t.Errorf("Expected idle soundscape, got %v", soundscapeInfo["state"])
	}
}

func TestStateEndpoint(t *testing.T) {
	ts := testServer(t)

	state := getJSON(t, ts.URL+"/state")
	if state["guidance_ready"] != false {
		t.Errorf("Expected guidance_ready false, got %v", state["guidance_ready"])
	}

	snap, ok := state["soundscape"].(map[string]interface{})
	if !ok {
		t.Fatalf("Expected soundscape snapshot, got %T", state["soundscape"])
	}
	if snap["kind"] != "off" {
		t.Errorf("Expected soundscape kind off, got %v", snap["kind"])
	}
}

func TestConfigEndpoint(t *testing.T) {
	ts := testServer(t)

	cfg := getJSON(t, ts.URL+"/config")
	audioCfg, ok := cfg["audio"].(map[string]interface{})
	if !ok {
		t.Fatalf("Expected audio config, got %v", cfg)
	}
	if audioCfg["sample_rate"].(float64) != 44100 {
		t.Errorf("Expected sample_rate 44100, got %v", audioCfg["sample_rate"])
	}
}

func TestMethodNotAllowed(t *testing.T) {
	ts := testServer(t)

	resp, err := http.Post(ts.URL+"/health", "application/json", nil)
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405, got %d", resp.StatusCode)
	}
}

func TestRootNotFound(t *testing.T) {
	ts := testServer(t)

	resp, err := http.Get(ts.URL + "/does-not-exist")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", resp.StatusCode)
	}
}
