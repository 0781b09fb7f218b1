package tick_test

import (
	"context"
	"testing"
	"time"

	"github.com/randomizedcoder/taskwdt/internal/tick"
)

func TestStdTicker_C(t *testing.T) {
	ticker := tick.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	select {
	case <-ticker.C():
		// OK
	case <-time.After(time.Second):
		t.Fatal("expected a tick on C() within a second")
	}
}

func TestStdTicker_Stop(t *testing.T) {
	ticker := tick.NewTicker(10 * time.Millisecond)
	ticker.Stop()

	select {
	case <-ticker.C():
		t.Fatal("expected no tick after Stop()")
	case <-time.After(50 * time.Millisecond):
		// OK
	}
}

func TestDeadline(t *testing.T) {
	window := 50 * time.Millisecond
	d := tick.NewDeadline(window)

	if d.Expired() {
		t.Error("expected Expired() = false immediately after creation")
	}

	time.Sleep(window + 20*time.Millisecond)

	if !d.Expired() {
		t.Error("expected Expired() = true after window elapsed")
	}

	// Expired does not re-arm; it keeps reporting until Reset.
	if !d.Expired() {
		t.Error("expected Expired() = true on second check")
	}
	if d.Elapsed() < window {
		t.Errorf("expected Elapsed() >= %v, got %v", window, d.Elapsed())
	}
}

func TestDeadline_Reset(t *testing.T) {
	window := 50 * time.Millisecond
	d := tick.NewDeadline(window)

	// Keep resetting faster than the window.
	for i := 0; i < 5; i++ {
		time.Sleep(window / 4)
		d.Reset()
		if d.Expired() {
			t.Fatalf("expected Expired() = false after Reset() on iteration %d", i)
		}
	}

	if d.Window() != window {
		t.Errorf("expected Window() = %v, got %v", window, d.Window())
	}
}

func TestSleep(t *testing.T) {
	d := 30 * time.Millisecond
	start := time.Now()
	if !tick.Sleep(context.Background(), d) {
		t.Fatal("expected Sleep() = true without cancellation")
	}
	if elapsed := time.Since(start); elapsed < d {
		t.Errorf("Sleep returned after %v, expected at least %v", elapsed, d)
	}
}

func TestSleep_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	if tick.Sleep(ctx, 5*time.Second) {
		t.Fatal("expected Sleep() = false after cancel")
	}
	if time.Since(start) > time.Second {
		t.Error("Sleep did not return promptly after cancel")
	}
}

func TestSleep_NonPositive(t *testing.T) {
	if !tick.Sleep(context.Background(), 0) {
		t.Error("expected Sleep(0) = true on live context")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if tick.Sleep(ctx, 0) {
		t.Error("expected Sleep(0) = false on canceled context")
	}
}
