package hotkey

import (
	"errors"
	"sync"

	"snipe/keys"
)

var ErrNotRegistered = errors.New("hotkey: no handler registered")

// Fake is a scripted Listener. Events are delivered synchronously on the
// caller's goroutine, one at a time.
type Fake struct {
	mu      sync.Mutex
	handler HandlerFunc
	combos  []string
}

func NewFake() *Fake {
	return &Fake{}
}

func (f *Fake) Register(h HandlerFunc) error {
	f.mu.Lock()
	f.handler = h
	f.mu.Unlock()
	return nil
}

func (f *Fake) Unregister() {
	f.mu.Lock()
	f.handler = nil
	f.mu.Unlock()
}

func (f *Fake) Rebind(combos []string) error {
	f.mu.Lock()
	f.combos = append([]string(nil), combos...)
	f.mu.Unlock()
	return nil
}

// Combos returns the identifiers from the last Rebind.
func (f *Fake) Combos() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.combos...)
}

// Send delivers ev and returns the handler's decision.
func (f *Fake) Send(ev Event) (Decision, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.handler == nil {
		return PassThrough, ErrNotRegistered
	}
	return f.handler(ev), nil
}

func (f *Fake) SimPress(k keys.Key) (Decision, error)   { return f.Send(Press(k)) }
func (f *Fake) SimRelease(k keys.Key) (Decision, error) { return f.Send(Release(k)) }
