package store

import (
	"os"
	"path/filepath"
	"testing"
)

func TestTokenRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s := Open(dir)
	defer s.Close()

	if tok, ok := s.Token(); ok || tok != "" {
		t.Fatalf("fresh store should have no token, got %q", tok)
	}

	s.SetToken("abc123")
	if tok, ok := s.Token(); !ok || tok != "abc123" {
		t.Fatalf("expected token abc123, got %q (ok=%v)", tok, ok)
	}

	s.SetToken("")
	if tok, ok := s.Token(); ok || tok != "" {
		t.Fatalf("cleared token should be absent, got %q", tok)
	}
}

func TestTokenSurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	s := Open(dir)
	s.SetToken("persisted")
	s.Close()

	s2 := Open(dir)
	defer s2.Close()
	if tok, ok := s2.Token(); !ok || tok != "persisted" {
		t.Fatalf("expected token to survive reopen, got %q (ok=%v)", tok, ok)
	}
}

func TestThemeDefaultsToDark(t *testing.T) {
	s := Open(t.TempDir())
	defer s.Close()

	if th := s.Theme(); th != "dark" {
		t.Fatalf("expected default theme dark, got %q", th)
	}
	s.SetTheme("bright")
	if th := s.Theme(); th != "bright" {
		t.Fatalf("expected bright, got %q", th)
	}
	// Unknown values normalize to dark.
	s.SetTheme("neon")
	if th := s.Theme(); th != "dark" {
		t.Fatalf("unknown theme should read as dark, got %q", th)
	}
}

func TestDebugFlagPersists(t *testing.T) {
	dir := t.TempDir()

	s := Open(dir)
	if s.Debug() {
		t.Fatalf("debug should default off")
	}
	s.SetDebug(true)
	s.Close()

	s2 := Open(dir)
	defer s2.Close()
	if !s2.Debug() {
		t.Fatalf("debug flag should persist across sessions")
	}
	s2.SetDebug(false)
	if s2.Debug() {
		t.Fatalf("debug flag should clear")
	}
}

func TestDegradedStoreNeverFails(t *testing.T) {
	// Point the store at a path that cannot become a directory.
	base := t.TempDir()
	blocker := filepath.Join(base, "file")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	s := Open(filepath.Join(blocker, "nested"))
	defer s.Close()

	s.SetToken("mem-only")
	if tok, ok := s.Token(); !ok || tok != "mem-only" {
		t.Fatalf("degraded store should serve from memory, got %q (ok=%v)", tok, ok)
	}
	s.SetDebug(true)
	if !s.Debug() {
		t.Fatalf("degraded store should keep debug flag in memory")
	}
}
