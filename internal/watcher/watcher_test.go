package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nguyentantai21042004/repurpose/internal/logger"
)

func newTestWatcher(t *testing.T, dir string, handler EventHandler, maxConcurrent int) *implWatcher {
	t.Helper()
	w, err := New(dir, handler, logger.Discard(), maxConcurrent)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = w.Stop() })
	iw := w.(*implWatcher)
	iw.settle = 10 * time.Millisecond
	return iw
}

func write(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
}

func waitFor(t *testing.T, ch <-chan string) string {
	t.Helper()
	select {
	case p := <-ch:
		return p
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for handler")
		return ""
	}
}

func TestWatcherHandlesExistingAndNewFiles(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "old.srt")
	write(t, existing)
	write(t, filepath.Join(dir, "notes.txt"))
	write(t, filepath.Join(dir, ".hidden.mp4"))

	seen := make(chan string, 10)
	w := newTestWatcher(t, dir, func(ctx context.Context, path string) error {
		seen <- path
		return nil
	}, 2)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()

	if got := waitFor(t, seen); got != existing {
		t.Errorf("first handled = %q, want %q", got, existing)
	}

	fresh := filepath.Join(dir, "talk.mp4")
	write(t, fresh)
	if got := waitFor(t, seen); got != fresh {
		t.Errorf("second handled = %q, want %q", got, fresh)
	}

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Start did not return after cancel")
	}

	select {
	case p := <-seen:
		t.Errorf("unexpected file handled: %s", p)
	default:
	}
}

func TestDispatchBoundsConcurrency(t *testing.T) {
	dir := t.TempDir()
	var running, peak int32
	release := make(chan struct{})
	var wg sync.WaitGroup

	w := newTestWatcher(t, dir, func(ctx context.Context, path string) error {
		defer wg.Done()
		n := atomic.AddInt32(&running, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		<-release
		atomic.AddInt32(&running, -1)
		return nil
	}, 2)

	ctx := context.Background()
	wg.Add(4)
	go func() {
		for i := 0; i < 4; i++ {
			_ = w.dispatch(ctx, filepath.Join(dir, string(rune('a'+i))+".mp3"))
		}
	}()

	time.Sleep(100 * time.Millisecond)
	if got := atomic.LoadInt32(&running); got != 2 {
		t.Errorf("running = %d, want 2", got)
	}
	close(release)
	wg.Wait()

	if peak != 2 {
		t.Errorf("peak concurrency = %d, want 2", peak)
	}
}

func TestDispatchSkipsInflightDuplicate(t *testing.T) {
	dir := t.TempDir()
	var calls int32
	block := make(chan struct{})
	w := newTestWatcher(t, dir, func(ctx context.Context, path string) error {
		atomic.AddInt32(&calls, 1)
		<-block
		return nil
	}, 2)

	ctx := context.Background()
	path := filepath.Join(dir, "a.mp3")
	_ = w.dispatch(ctx, path)
	_ = w.dispatch(ctx, path)
	close(block)
	w.wg.Wait()

	if calls != 1 {
		t.Errorf("handler called %d times, want 1", calls)
	}
}
