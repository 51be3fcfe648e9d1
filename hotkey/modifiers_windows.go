//go:build windows

package hotkey

import (
	"golang.design/x/hotkey"

	"snipe/keys"
)

var modifierMap = map[keys.Key]hotkey.Modifier{
	keys.MetaLeft:     hotkey.ModWin,
	keys.MetaRight:    hotkey.ModWin,
	keys.ControlLeft:  hotkey.ModCtrl,
	keys.ControlRight: hotkey.ModCtrl,
	keys.ShiftLeft:    hotkey.ModShift,
	keys.ShiftRight:   hotkey.ModShift,
	keys.Alt:          hotkey.ModAlt,
	keys.AltGr:        hotkey.ModAlt,
}
