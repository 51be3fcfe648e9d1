package dispatch

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"snipe/action"
	"snipe/hotkey"
	"snipe/keymap"
	"snipe/keys"
	"snipe/log"
)

// Runner executes a matched action. Errors are logged by the dispatcher and
// never affect the decision for the event.
type Runner interface {
	Run(ctx context.Context, a action.Action) error
}

// RunnerFunc adapts a function to Runner.
type RunnerFunc func(ctx context.Context, a action.Action) error

func (f RunnerFunc) Run(ctx context.Context, a action.Action) error { return f(ctx, a) }

// ResetPolicy selects what is forgotten after a combo fires.
type ResetPolicy int

const (
	// ResetAll clears every held key, so the combo cannot fire again until
	// all of its keys are pressed anew.
	ResetAll ResetPolicy = iota
	// ResetTrigger forgets only the key that completed the combo; modifiers
	// stay held and the next trigger key can fire another combo.
	ResetTrigger
)

// Match describes a fired combo.
type Match struct {
	Combo  string
	Action action.Action
	Err    error
}

type Option func(*Dispatcher)

func WithResetPolicy(p ResetPolicy) Option {
	return func(d *Dispatcher) { d.reset = p }
}

func WithContext(ctx context.Context) Option {
	return func(d *Dispatcher) { d.ctx = ctx }
}

// WithObserver registers fn to be called after every match, on the
// dispatching goroutine.
func WithObserver(fn func(Match)) Option {
	return func(d *Dispatcher) { d.observe = fn }
}

// Dispatcher is the hook callback: it tracks held keys, matches combos
// against the keymap and decides whether each event is suppressed.
type Dispatcher struct {
	mu      sync.Mutex
	state   *keys.State
	latched map[keys.Key]bool
	table   *keymap.Table
	runner  Runner
	reset   ResetPolicy
	ctx     context.Context
	observe func(Match)

	// Readers outside the event path never take mu, which is held while a
	// synchronous action runs.
	held  atomic.Pointer[[]keys.Key]
	fired atomic.Int64
}

func New(table *keymap.Table, runner Runner, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		state:   keys.NewState(),
		latched: make(map[keys.Key]bool),
		table:   table,
		runner:  runner,
		ctx:     context.Background(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.publish()
	return d
}

// Handle processes one event. It is safe to call from several goroutines;
// events are processed one at a time.
func (d *Dispatcher) Handle(ev hotkey.Event) hotkey.Decision {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch ev.Kind {
	case hotkey.KindPress:
		defer d.publish()
		return d.press(ev.Key)
	case hotkey.KindRelease:
		d.state.Release(ev.Key)
		delete(d.latched, ev.Key)
		d.publish()
		return hotkey.PassThrough
	}
	return hotkey.PassThrough
}

// publish stores a copy of the held set for Held. Callers hold mu.
func (d *Dispatcher) publish() {
	held := d.state.Snapshot().Sorted()
	d.held.Store(&held)
}

func (d *Dispatcher) press(k keys.Key) hotkey.Decision {
	// Auto-repeat of a key that already fired stays swallowed until release.
	if d.latched[k] {
		return hotkey.Suppress
	}

	d.state.Press(k)
	d.publish()
	held := d.state.Snapshot()
	if !keys.HasTrigger(held) {
		return hotkey.PassThrough
	}

	combo := keys.Format(held)
	a, ok := d.table.Lookup(combo)
	if !ok {
		return hotkey.PassThrough
	}

	log.ComboMatched(combo, a.String())
	d.fired.Add(1)
	err := d.run(a)
	if err != nil {
		log.Errorf("%s (%s) failed: %v", a, combo, err)
	}

	d.latched[k] = true
	switch d.reset {
	case ResetTrigger:
		d.state.Release(k)
	default:
		d.state.Clear()
	}

	if d.observe != nil {
		d.observe(Match{Combo: combo, Action: a, Err: err})
	}
	return hotkey.Suppress
}

func (d *Dispatcher) run(a action.Action) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return d.runner.Run(d.ctx, a)
}

// Held returns the currently held keys in declaration order. It does not
// wait for a running action.
func (d *Dispatcher) Held() []keys.Key {
	return slices.Clone(*d.held.Load())
}

// Fired returns how many combos have matched.
func (d *Dispatcher) Fired() int {
	return int(d.fired.Load())
}
