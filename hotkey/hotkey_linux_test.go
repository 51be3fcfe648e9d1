//go:build linux

package hotkey

import (
	"errors"
	"sync"
	"testing"
	"time"

	evdev "github.com/holoplot/go-evdev"

	"snipe/keys"
)

type recordingWriter struct {
	mu        sync.Mutex
	written   []evdev.InputEvent
	closed    bool
	afterStop int
	fail      error
}

func (w *recordingWriter) WriteOne(ev *evdev.InputEvent) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		w.afterStop++
		return errors.New("write on closed device")
	}
	w.written = append(w.written, *ev)
	return w.fail
}

func (w *recordingWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	return nil
}

func (w *recordingWriter) count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.written)
}

func waitWrites(t *testing.T, w *recordingWriter, n int) {
	t.Helper()
	deadline := time.After(time.Second)
	for w.count() < n {
		select {
		case <-deadline:
			t.Fatalf("timeout: %d writes, want %d", w.count(), n)
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func startLoop(w *recordingWriter, h HandlerFunc) *evdevListener {
	l := &evdevListener{out: w, caps: passthroughCapabilities()}
	l.start()
	go l.loop(h)
	return l
}

func TestLoopForwardsOnlyPassedEvents(t *testing.T) {
	w := &recordingWriter{}
	l := startLoop(w, func(ev Event) Decision {
		if ev.Kind == KindPress && ev.Key == keys.Num9 {
			return Suppress
		}
		return PassThrough
	})

	l.events <- &evdev.InputEvent{Type: evdev.EV_KEY, Code: evdev.KEY_9, Value: valuePress}
	l.events <- &evdev.InputEvent{Type: evdev.EV_REL, Code: evdev.REL_X, Value: 3}
	l.events <- &evdev.InputEvent{Type: evdev.EV_KEY, Code: evdev.KEY_A, Value: valuePress}
	l.events <- &evdev.InputEvent{Type: evdev.EV_SYN, Code: evdev.SYN_REPORT}
	waitWrites(t, w, 2)
	l.Unregister()

	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.written) != 2 {
		t.Fatalf("wrote %d events, want 2: %+v", len(w.written), w.written)
	}
	if w.written[0].Code != evdev.KEY_A || w.written[1].Type != evdev.EV_SYN {
		t.Errorf("unexpected writes: %+v", w.written)
	}
}

func TestUnregisterWaitsForLoop(t *testing.T) {
	w := &recordingWriter{}
	release := make(chan struct{})
	entered := make(chan struct{})
	l := startLoop(w, func(Event) Decision {
		close(entered)
		<-release
		return PassThrough
	})

	l.events <- &evdev.InputEvent{Type: evdev.EV_KEY, Code: evdev.KEY_A, Value: valuePress}
	<-entered

	unregistered := make(chan struct{})
	go func() {
		l.Unregister()
		close(unregistered)
	}()

	select {
	case <-unregistered:
		t.Fatal("Unregister returned while the handler was still running")
	case <-time.After(50 * time.Millisecond):
	}
	close(release)

	select {
	case <-unregistered:
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for Unregister")
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.afterStop != 0 {
		t.Errorf("%d writes after the passthrough device was closed", w.afterStop)
	}
	if !w.closed {
		t.Error("passthrough device not closed")
	}
}

func TestLoopSurvivesWriteError(t *testing.T) {
	w := &recordingWriter{fail: errors.New("ENODEV")}
	l := startLoop(w, func(Event) Decision { return PassThrough })
	defer l.Unregister()

	l.events <- &evdev.InputEvent{Type: evdev.EV_KEY, Code: evdev.KEY_A, Value: valuePress}
	l.events <- &evdev.InputEvent{Type: evdev.EV_KEY, Code: evdev.KEY_A, Value: valueRelease}
	waitWrites(t, w, 2)
}
