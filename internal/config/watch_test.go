package config

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func waitUpdate(t *testing.T, ch <-chan Update) Update {
	t.Helper()
	select {
	case u, ok := <-ch:
		if !ok {
			t.Fatal("updates channel closed")
		}
		return u
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for config update")
	}
	return Update{}
}

func TestWatcherReloads(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config.toml")
	writeConfig(t, path, `accent = "#010101"`)

	cfg, err := Load(newFlagSet(), nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	w, err := NewWatcher(cfg, nil)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()
	w.Debounce = 50 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	writeConfig(t, path, `accent = "#0A0B0C"`)
	u := waitUpdate(t, w.Updates())
	if u.Err != nil {
		t.Fatalf("update error: %v", u.Err)
	}
	if u.Config.Accent != "#0A0B0C" {
		t.Errorf("Accent: got %q, want #0A0B0C", u.Config.Accent)
	}

	writeConfig(t, path, `accent = "not a color"`)
	u = waitUpdate(t, w.Updates())
	if u.Err == nil {
		t.Fatal("expected error for invalid config")
	}
	if u.Config != nil {
		t.Error("failed reload must not carry a config")
	}

	// Other files in the directory are ignored.
	writeConfig(t, filepath.Join(dir, "tasks.json"), `{}`)
	writeConfig(t, path, `accent = "#FFFFFF"`)
	u = waitUpdate(t, w.Updates())
	if u.Err != nil || u.Config.Accent != "#FFFFFF" {
		t.Errorf("got %+v, want accent #FFFFFF", u)
	}
}

func TestWatcherStopsOnCancel(t *testing.T) {
	isolate(t)
	cfg, err := Load(newFlagSet(), nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	w, err := NewWatcher(cfg, nil)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	if _, ok := <-w.Updates(); ok {
		t.Error("updates channel should be closed")
	}
}
