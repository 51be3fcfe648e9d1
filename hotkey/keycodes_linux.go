//go:build linux

package hotkey

import (
	evdev "github.com/holoplot/go-evdev"

	"snipe/keys"
)

var codeKeys = map[evdev.EvCode]keys.Key{
	evdev.KEY_LEFTMETA:   keys.MetaLeft,
	evdev.KEY_RIGHTMETA:  keys.MetaRight,
	evdev.KEY_LEFTCTRL:   keys.ControlLeft,
	evdev.KEY_RIGHTCTRL:  keys.ControlRight,
	evdev.KEY_LEFTSHIFT:  keys.ShiftLeft,
	evdev.KEY_RIGHTSHIFT: keys.ShiftRight,
	evdev.KEY_LEFTALT:    keys.Alt,
	evdev.KEY_RIGHTALT:   keys.AltGr,

	evdev.KEY_0: keys.Num0,
	evdev.KEY_1: keys.Num1,
	evdev.KEY_2: keys.Num2,
	evdev.KEY_3: keys.Num3,
	evdev.KEY_4: keys.Num4,
	evdev.KEY_5: keys.Num5,
	evdev.KEY_6: keys.Num6,
	evdev.KEY_7: keys.Num7,
	evdev.KEY_8: keys.Num8,
	evdev.KEY_9: keys.Num9,

	evdev.KEY_A: keys.KeyA,
	evdev.KEY_B: keys.KeyB,
	evdev.KEY_C: keys.KeyC,
	evdev.KEY_D: keys.KeyD,
	evdev.KEY_E: keys.KeyE,
	evdev.KEY_F: keys.KeyF,
	evdev.KEY_G: keys.KeyG,
	evdev.KEY_H: keys.KeyH,
	evdev.KEY_I: keys.KeyI,
	evdev.KEY_J: keys.KeyJ,
	evdev.KEY_K: keys.KeyK,
	evdev.KEY_L: keys.KeyL,
	evdev.KEY_M: keys.KeyM,
	evdev.KEY_N: keys.KeyN,
	evdev.KEY_O: keys.KeyO,
	evdev.KEY_P: keys.KeyP,
	evdev.KEY_Q: keys.KeyQ,
	evdev.KEY_R: keys.KeyR,
	evdev.KEY_S: keys.KeyS,
	evdev.KEY_T: keys.KeyT,
	evdev.KEY_U: keys.KeyU,
	evdev.KEY_V: keys.KeyV,
	evdev.KEY_W: keys.KeyW,
	evdev.KEY_X: keys.KeyX,
	evdev.KEY_Y: keys.KeyY,
	evdev.KEY_Z: keys.KeyZ,

	evdev.KEY_F1:  keys.F1,
	evdev.KEY_F2:  keys.F2,
	evdev.KEY_F3:  keys.F3,
	evdev.KEY_F4:  keys.F4,
	evdev.KEY_F5:  keys.F5,
	evdev.KEY_F6:  keys.F6,
	evdev.KEY_F7:  keys.F7,
	evdev.KEY_F8:  keys.F8,
	evdev.KEY_F9:  keys.F9,
	evdev.KEY_F10: keys.F10,
	evdev.KEY_F11: keys.F11,
	evdev.KEY_F12: keys.F12,

	evdev.KEY_SPACE: keys.Space,
	evdev.KEY_ENTER: keys.Return,
	evdev.KEY_TAB:   keys.Tab,
	evdev.KEY_ESC:   keys.Escape,
}

const (
	valueRelease = 0
	valuePress   = 1
	valueRepeat  = 2
)

// translate maps a raw evdev event onto the backend-independent stream.
// Auto-repeat is delivered as a press; unmapped keys are KindOther.
func translate(ev *evdev.InputEvent) Event {
	if ev.Type != evdev.EV_KEY {
		return Event{Kind: KindOther}
	}
	k, ok := codeKeys[ev.Code]
	if !ok {
		return Event{Kind: KindOther}
	}
	switch ev.Value {
	case valueRelease:
		return Release(k)
	case valuePress, valueRepeat:
		return Press(k)
	}
	return Event{Kind: KindOther}
}
