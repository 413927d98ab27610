package speech

import (
	"io"
	"log/slog"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPoolNotReadyBeforeEnumeration(t *testing.T) {
	pool := NewPool(EnumeratorFunc(func() []Voice { return nil }), testLogger())

	if pool.Ready() {
		t.Error("Expected pool to not be ready before any enumeration")
	}
	if n := pool.Refresh(); n != 0 {
		t.Errorf("Expected 0 voices from empty enumerator, got %d", n)
	}
	if pool.Ready() {
		t.Error("Expected pool to stay not ready after empty enumeration")
	}
}

func TestPoolReadyAfterEnumeration(t *testing.T) {
	voices := []Voice{
		{Name: "Samantha", Language: "en-US"},
		{Name: "Daniel", Language: "en-GB"},
	}
	pool := NewPool(EnumeratorFunc(func() []Voice { return voices }), testLogger())

	if n := pool.Refresh(); n != 2 {
		t.Errorf("Expected 2 voices, got %d", n)
	}
	if !pool.Ready() {
		t.Error("Expected pool to be ready after enumeration")
	}

	got := pool.Voices()
	if len(got) != 2 || got[0].Name != "Samantha" {
		t.Errorf("Unexpected voice list: %+v", got)
	}
}

func TestPoolEmptyRefreshKeepsCachedVoices(t *testing.T) {
	calls := 0
	pool := NewPool(EnumeratorFunc(func() []Voice {
		calls++
		if calls == 1 {
			return []Voice{{Name: "Samantha", Language: "en-US"}}
		}
		return nil
	}), testLogger())

	pool.Refresh()
	if n := pool.Refresh(); n != 1 {
		t.Errorf("Expected cached voice to survive empty refresh, got %d", n)
	}
	if !pool.Ready() {
		t.Error("Expected pool to remain ready after empty refresh")
	}
}

func TestPoolVoicesReturnsCopy(t *testing.T) {
	pool := NewPool(EnumeratorFunc(func() []Voice {
		return []Voice{{Name: "Samantha", Language: "en-US"}}
	}), testLogger())
	pool.Refresh()

	got := pool.Voices()
	got[0].Name = "mutated"

	if pool.Voices()[0].Name != "Samantha" {
		t.Error("Expected Voices to return a copy, cache was mutated")
	}
}
