package kv

import (
	"strings"
	"testing"
	"time"
)

func TestMemConn_SetGetDelete(t *testing.T) {
	conn := NewMemConn()

	if _, ok := conn.Get("missing"); ok {
		t.Error("Get() found a key that was never set")
	}

	if err := conn.Set("k", "v", 0); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	got, ok := conn.Get("k")
	if !ok || got != "v" {
		t.Errorf("Get() = (%q, %v), want (v, true)", got, ok)
	}

	conn.Delete("k")
	if _, ok := conn.Get("k"); ok {
		t.Error("Get() found a deleted key")
	}
}

func TestMemConn_Expiry(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	conn := &memConn{
		entries: make(map[string]memEntry),
		now:     func() time.Time { return now },
	}

	if err := conn.Set("k", "v", time.Hour); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	if _, ok := conn.Get("k"); !ok {
		t.Error("Key expired before its TTL")
	}

	now = now.Add(2 * time.Hour)
	if _, ok := conn.Get("k"); ok {
		t.Error("Key still readable past its TTL")
	}
}

func TestFileConn_SetGetDelete(t *testing.T) {
	conn := NewFileConn(t.TempDir())

	if err := conn.Set("cards", `[{"id":"a"}]`, time.Hour); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	got, ok := conn.Get("cards")
	if !ok || got != `[{"id":"a"}]` {
		t.Errorf("Get() = (%q, %v)", got, ok)
	}

	conn.Delete("cards")
	if _, ok := conn.Get("cards"); ok {
		t.Error("Get() found a deleted key")
	}
}

func TestFileConn_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	first := NewFileConn(dir)
	if err := first.Set("cards", "persisted", 0); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	second := NewFileConn(dir)
	got, ok := second.Get("cards")
	if !ok || got != "persisted" {
		t.Errorf("Value did not survive reopen: (%q, %v)", got, ok)
	}
}

func TestFileConn_RejectsPathKeys(t *testing.T) {
	conn := NewFileConn(t.TempDir())

	for _, key := range []string{"", "../escape", "a/b"} {
		if err := conn.Set(key, "v", 0); err == nil {
			t.Errorf("Set(%q) accepted an invalid key", key)
		}
		if _, ok := conn.Get(key); ok {
			t.Errorf("Get(%q) returned a value for an invalid key", key)
		}
	}
}

func TestFileConn_LargeValue(t *testing.T) {
	conn := NewFileConn(t.TempDir())

	big := strings.Repeat("x", 64*1024)
	if err := conn.Set("big", big, 0); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	got, ok := conn.Get("big")
	if !ok || len(got) != len(big) {
		t.Errorf("Large value mismatch: got %d bytes, want %d", len(got), len(big))
	}
}
