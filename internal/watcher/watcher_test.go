package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
)

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(20 * time.Millisecond)
	}
	return cond()
}

func TestWatcher_TriggersRebuildOnWrite(t *testing.T) {
	dir := t.TempDir()
	var rebuilds atomic.Int32
	w := NewWatcher(dir, []string{".txt"}, func() { rebuilds.Add(1) }, zap.NewNop())
	w.SetDebounce(50 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if err := os.WriteFile(filepath.Join(dir, "doc.txt"), []byte("content"), 0600); err != nil {
		t.Fatal(err)
	}
	if !waitFor(t, 2*time.Second, func() bool { return rebuilds.Load() >= 1 }) {
		t.Fatal("rebuild never fired")
	}
}

func TestWatcher_DebounceCollapsesBurst(t *testing.T) {
	dir := t.TempDir()
	var rebuilds atomic.Int32
	w := NewWatcher(dir, []string{".txt"}, func() { rebuilds.Add(1) }, zap.NewNop())
	w.SetDebounce(150 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	for i := 0; i < 5; i++ {
		name := filepath.Join(dir, "burst.txt")
		if err := os.WriteFile(name, []byte("v"), 0600); err != nil {
			t.Fatal(err)
		}
		time.Sleep(10 * time.Millisecond)
	}
	if !waitFor(t, 2*time.Second, func() bool { return rebuilds.Load() >= 1 }) {
		t.Fatal("rebuild never fired")
	}
	// Settle, then confirm the burst collapsed into few rebuilds.
	time.Sleep(300 * time.Millisecond)
	if n := rebuilds.Load(); n > 2 {
		t.Errorf("burst of writes caused %d rebuilds", n)
	}
}

func TestWatcher_IgnoresOtherExtensions(t *testing.T) {
	dir := t.TempDir()
	var rebuilds atomic.Int32
	w := NewWatcher(dir, []string{".txt"}, func() { rebuilds.Add(1) }, zap.NewNop())
	w.SetDebounce(50 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if err := os.WriteFile(filepath.Join(dir, "ignore.tmp"), []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}
	time.Sleep(300 * time.Millisecond)
	if n := rebuilds.Load(); n != 0 {
		t.Errorf("filtered extension triggered %d rebuilds", n)
	}
}

func TestWatcher_StartMissingRoot(t *testing.T) {
	w := NewWatcher(filepath.Join(t.TempDir(), "missing"), nil, func() {}, zap.NewNop())
	if err := w.Start(context.Background()); err == nil {
		w.Stop()
		t.Error("expected error for missing root")
	}
}
