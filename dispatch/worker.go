package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"snipe/action"
	"snipe/log"
)

var (
	ErrQueueFull = errors.New("action queue full, dropped")
	ErrStopped   = errors.New("action worker stopped")
)

// Worker runs actions on its own goroutine so the listener is never blocked
// by a slow capture. Actions queue up to the buffer size; beyond that they
// are dropped with ErrQueueFull.
type Worker struct {
	next  Runner
	queue chan action.Action
	done  chan struct{}

	mu      sync.Mutex
	closed  bool
	started bool
}

func NewWorker(next Runner, size int) *Worker {
	if size < 1 {
		size = 1
	}
	return &Worker{
		next:  next,
		queue: make(chan action.Action, size),
		done:  make(chan struct{}),
	}
}

// Start drains the queue until ctx is done or Stop is called.
func (w *Worker) Start(ctx context.Context) {
	w.mu.Lock()
	w.started = true
	w.mu.Unlock()
	go func() {
		defer close(w.done)
		for {
			select {
			case <-ctx.Done():
				return
			case a, ok := <-w.queue:
				if !ok {
					return
				}
				if err := w.run(ctx, a); err != nil {
					log.Errorf("%s failed: %v", a, err)
				}
			}
		}
	}()
}

func (w *Worker) run(ctx context.Context, a action.Action) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return w.next.Run(ctx, a)
}

// Run enqueues a without waiting for it to execute.
func (w *Worker) Run(_ context.Context, a action.Action) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrStopped
	}
	select {
	case w.queue <- a:
		return nil
	default:
		return ErrQueueFull
	}
}

// Stop closes the queue and waits for queued actions to finish.
func (w *Worker) Stop() {
	w.mu.Lock()
	if !w.closed {
		w.closed = true
		close(w.queue)
	}
	started := w.started
	w.mu.Unlock()
	if started {
		<-w.done
	}
}
