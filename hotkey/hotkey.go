package hotkey

import "snipe/keys"

type Kind int

const (
	KindOther Kind = iota
	KindPress
	KindRelease
)

func (k Kind) String() string {
	switch k {
	case KindPress:
		return "press"
	case KindRelease:
		return "release"
	}
	return "other"
}

// Event is one entry of the global keyboard stream.
type Event struct {
	Kind Kind
	Key  keys.Key
}

func Press(k keys.Key) Event   { return Event{Kind: KindPress, Key: k} }
func Release(k keys.Key) Event { return Event{Kind: KindRelease, Key: k} }

// Decision tells the listener whether the rest of the system sees an event.
type Decision int

const (
	PassThrough Decision = iota
	Suppress
)

func (d Decision) String() string {
	if d == Suppress {
		return "suppress"
	}
	return "pass"
}

// HandlerFunc is called once per event, never concurrently with itself.
type HandlerFunc func(Event) Decision

// Listener delivers the global keyboard stream to a single handler.
type Listener interface {
	Register(h HandlerFunc) error
	Unregister()
}

// Rebinder is implemented by listeners that only observe registered
// combos and must be told when the keymap changes.
type Rebinder interface {
	Rebind(combos []string) error
}
