//go:build darwin || windows

package hotkey

import (
	"errors"
	"fmt"
	"sync"

	"golang.design/x/hotkey"

	"snipe/keys"
	"snipe/log"
)

// xHotkey registers one system hotkey per combo with golang.design/x/hotkey.
// The OS consumes registered combos, so only those combos are observed and
// the handler's decision does not change what other applications see.
type xHotkey struct {
	mu     sync.Mutex
	combos []string
	active []*binding

	deliverMu sync.Mutex
	handler   HandlerFunc
}

type binding struct {
	hk   *hotkey.Hotkey
	keys []keys.Key
	stop chan struct{}
}

// New creates a listener for the given combo identifiers (X11/Cocoa/Win32).
func New(combos []string) Listener {
	return &xHotkey{combos: combos}
}

func (h *xHotkey) Register(fn HandlerFunc) error {
	h.deliverMu.Lock()
	h.handler = fn
	h.deliverMu.Unlock()

	h.mu.Lock()
	defer h.mu.Unlock()
	return h.bind(h.combos)
}

func (h *xHotkey) Unregister() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.unbind()
}

// Rebind replaces the registered combos after a keymap reload.
func (h *xHotkey) Rebind(combos []string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.unbind()
	h.combos = combos
	return h.bind(combos)
}

// bind registers every combo the OS can express. Combos it cannot, such as
// two trigger keys or one already taken by another application, are skipped
// with a warning so one bad entry does not disable the rest of the keymap.
func (h *xHotkey) bind(combos []string) error {
	specs, errs := plan(combos)
	for _, s := range specs {
		hk := hotkey.New(s.mods, s.key)
		if err := hk.Register(); err != nil {
			errs = append(errs, fmt.Errorf("registering %s: %w", s.combo, err))
			continue
		}
		b := &binding{hk: hk, keys: s.keys, stop: make(chan struct{})}
		h.active = append(h.active, b)
		go h.forward(b)
	}
	for _, err := range errs {
		log.Warnf("hotkey skipped: %v", err)
	}
	if len(h.active) == 0 && len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

type hotkeySpec struct {
	combo string
	keys  []keys.Key
	mods  []hotkey.Modifier
	key   hotkey.Key
}

// plan converts combo identifiers into system hotkeys and reports the ones
// that have no system equivalent.
func plan(combos []string) ([]hotkeySpec, []error) {
	var specs []hotkeySpec
	var errs []error
	for _, c := range combos {
		ks, err := keys.ParseCombo(c)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		mods, key, err := toHotkey(ks)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", c, err))
			continue
		}
		specs = append(specs, hotkeySpec{combo: c, keys: ks, mods: mods, key: key})
	}
	return specs, errs
}

func (h *xHotkey) unbind() {
	for _, b := range h.active {
		close(b.stop)
		b.hk.Unregister()
	}
	h.active = nil
}

// forward replays a combo as presses in canonical order and releases in
// reverse order.
func (h *xHotkey) forward(b *binding) {
	for {
		select {
		case <-b.stop:
			return
		case <-b.hk.Keydown():
			for _, k := range b.keys {
				h.deliver(Press(k))
			}
		case <-b.hk.Keyup():
			for i := len(b.keys) - 1; i >= 0; i-- {
				h.deliver(Release(b.keys[i]))
			}
		}
	}
}

func (h *xHotkey) deliver(ev Event) {
	h.deliverMu.Lock()
	defer h.deliverMu.Unlock()
	if h.handler != nil {
		h.handler(ev)
	}
}

var errSingleKey = errors.New("system hotkeys need exactly one non-modifier key")

func toHotkey(ks []keys.Key) ([]hotkey.Modifier, hotkey.Key, error) {
	var mods []hotkey.Modifier
	var trigger []hotkey.Key
	for _, k := range ks {
		if m, ok := modifierMap[k]; ok {
			mods = append(mods, m)
			continue
		}
		hk, ok := keyMap[k]
		if !ok {
			return nil, 0, fmt.Errorf("no system key for %v", k)
		}
		trigger = append(trigger, hk)
	}
	if len(trigger) != 1 {
		return nil, 0, errSingleKey
	}
	return mods, trigger[0], nil
}

var keyMap = map[keys.Key]hotkey.Key{
	keys.Num0: hotkey.Key0, keys.Num1: hotkey.Key1, keys.Num2: hotkey.Key2,
	keys.Num3: hotkey.Key3, keys.Num4: hotkey.Key4, keys.Num5: hotkey.Key5,
	keys.Num6: hotkey.Key6, keys.Num7: hotkey.Key7, keys.Num8: hotkey.Key8,
	keys.Num9: hotkey.Key9,

	keys.KeyA: hotkey.KeyA, keys.KeyB: hotkey.KeyB, keys.KeyC: hotkey.KeyC,
	keys.KeyD: hotkey.KeyD, keys.KeyE: hotkey.KeyE, keys.KeyF: hotkey.KeyF,
	keys.KeyG: hotkey.KeyG, keys.KeyH: hotkey.KeyH, keys.KeyI: hotkey.KeyI,
	keys.KeyJ: hotkey.KeyJ, keys.KeyK: hotkey.KeyK, keys.KeyL: hotkey.KeyL,
	keys.KeyM: hotkey.KeyM, keys.KeyN: hotkey.KeyN, keys.KeyO: hotkey.KeyO,
	keys.KeyP: hotkey.KeyP, keys.KeyQ: hotkey.KeyQ, keys.KeyR: hotkey.KeyR,
	keys.KeyS: hotkey.KeyS, keys.KeyT: hotkey.KeyT, keys.KeyU: hotkey.KeyU,
	keys.KeyV: hotkey.KeyV, keys.KeyW: hotkey.KeyW, keys.KeyX: hotkey.KeyX,
	keys.KeyY: hotkey.KeyY, keys.KeyZ: hotkey.KeyZ,

	keys.F1: hotkey.KeyF1, keys.F2: hotkey.KeyF2, keys.F3: hotkey.KeyF3,
	keys.F4: hotkey.KeyF4, keys.F5: hotkey.KeyF5, keys.F6: hotkey.KeyF6,
	keys.F7: hotkey.KeyF7, keys.F8: hotkey.KeyF8, keys.F9: hotkey.KeyF9,
	keys.F10: hotkey.KeyF10, keys.F11: hotkey.KeyF11, keys.F12: hotkey.KeyF12,

	keys.Space:  hotkey.KeySpace,
	keys.Return: hotkey.KeyReturn,
	keys.Tab:    hotkey.KeyTab,
	keys.Escape: hotkey.KeyEscape,
}

// Diagnose reports hotkey availability.
func Diagnose() (string, error) {
	return "system hotkey support available (golang.design/x/hotkey)", nil
}
