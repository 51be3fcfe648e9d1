package dispatch

import (
	"context"
	"errors"
	"testing"
	"time"

	"snipe/action"
)

func TestWorkerRunsInOrder(t *testing.T) {
	got := make(chan action.Action, 3)
	w := NewWorker(RunnerFunc(func(_ context.Context, a action.Action) error {
		got <- a
		return nil
	}), 4)
	w.Start(context.Background())

	for _, a := range []action.Action{action.CaptureRegion, action.Ocr, action.CaptureFullscreen} {
		if err := w.Run(context.Background(), a); err != nil {
			t.Fatal(err)
		}
	}
	w.Stop()

	want := []action.Action{action.CaptureRegion, action.Ocr, action.CaptureFullscreen}
	for i, a := range want {
		select {
		case g := <-got:
			if g != a {
				t.Errorf("action %d: got %v, want %v", i, g, a)
			}
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for action")
		}
	}
}

func TestWorkerDropsWhenFull(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{}, 1)
	w := NewWorker(RunnerFunc(func(context.Context, action.Action) error {
		started <- struct{}{}
		<-release
		return nil
	}), 1)
	w.Start(context.Background())

	if err := w.Run(context.Background(), action.CaptureRegion); err != nil {
		t.Fatal(err)
	}
	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for first action")
	}
	// first action is running, one slot left in the queue
	if err := w.Run(context.Background(), action.Ocr); err != nil {
		t.Fatal(err)
	}
	if err := w.Run(context.Background(), action.Ocr); !errors.Is(err, ErrQueueFull) {
		t.Errorf("got %v, want ErrQueueFull", err)
	}
	close(release)
	w.Stop()

	if err := w.Run(context.Background(), action.Ocr); !errors.Is(err, ErrStopped) {
		t.Errorf("after Stop: got %v, want ErrStopped", err)
	}
}

func TestWorkerStopWithoutStart(t *testing.T) {
	w := NewWorker(RunnerFunc(func(context.Context, action.Action) error { return nil }), 0)
	w.Stop()
	w.Stop()
}

func TestWorkerSurvivesPanic(t *testing.T) {
	ran := make(chan action.Action, 2)
	w := NewWorker(RunnerFunc(func(_ context.Context, a action.Action) error {
		if a == action.Ocr {
			panic("helper exploded")
		}
		ran <- a
		return nil
	}), 4)
	w.Start(context.Background())

	w.Run(context.Background(), action.Ocr)
	w.Run(context.Background(), action.CaptureRegion)
	w.Stop()

	select {
	case a := <-ran:
		if a != action.CaptureRegion {
			t.Errorf("got %v", a)
		}
	default:
		t.Error("worker stopped after panic")
	}
}
