package keys

import (
	"strconv"
	"strings"
)

// Key identifies a physical key independent of the input backend.
type Key uint16

const (
	Unknown Key = iota

	MetaLeft
	MetaRight
	ControlLeft
	ControlRight
	ShiftLeft
	ShiftRight
	Alt
	AltGr

	// Non-modifier keys. Declaration order is the canonical combo order.
	Num0
	Num1
	Num2
	Num3
	Num4
	Num5
	Num6
	Num7
	Num8
	Num9
	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ
	F1
	F2
	F3
	F4
	F5
	F6
	F7
	F8
	F9
	F10
	F11
	F12
	Space
	Return
	Tab
	Escape

	maxKey
)

var names = [maxKey]string{
	Unknown:      "Unknown",
	MetaLeft:     "MetaLeft",
	MetaRight:    "MetaRight",
	ControlLeft:  "ControlLeft",
	ControlRight: "ControlRight",
	ShiftLeft:    "ShiftLeft",
	ShiftRight:   "ShiftRight",
	Alt:          "Alt",
	AltGr:        "AltGr",
	Space:        "Space",
	Return:       "Return",
	Tab:          "Tab",
	Escape:       "Escape",
}

// tokens holds the combo token of every non-modifier key.
var tokens = [maxKey]string{
	Space:  "space",
	Return: "return",
	Tab:    "tab",
	Escape: "esc",
}

func init() {
	for k := Num0; k <= Num9; k++ {
		d := string(rune('0' + k - Num0))
		names[k] = "Num" + d
		tokens[k] = d
	}
	for k := KeyA; k <= KeyZ; k++ {
		c := string(rune('a' + k - KeyA))
		names[k] = "Key" + strings.ToUpper(c)
		tokens[k] = c
	}
	for k := F1; k <= F12; k++ {
		n := strconv.Itoa(int(k-F1) + 1)
		names[k] = "F" + n
		tokens[k] = "f" + n
	}
}

func (k Key) String() string {
	if k >= maxKey {
		return "Unknown"
	}
	return names[k]
}

// IsModifier reports whether k is one of the modifier keys.
func (k Key) IsModifier() bool {
	return k >= MetaLeft && k <= AltGr
}

// Valid reports whether k is a known, non-zero key.
func (k Key) Valid() bool {
	return k > Unknown && k < maxKey
}

// Lookup resolves a key by its name ("MetaLeft", "Num9") or its combo
// token ("9", "f5", "space"). Matching is case-insensitive.
func Lookup(name string) (Key, bool) {
	name = strings.TrimSpace(name)
	for k := MetaLeft; k < maxKey; k++ {
		if strings.EqualFold(names[k], name) || (tokens[k] != "" && strings.EqualFold(tokens[k], name)) {
			return k, true
		}
	}
	return Unknown, false
}

// All returns every valid key in declaration order.
func All() []Key {
	all := make([]Key, 0, maxKey-1)
	for k := MetaLeft; k < maxKey; k++ {
		all = append(all, k)
	}
	return all
}
