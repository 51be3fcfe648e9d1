//go:build darwin

package hotkey

import (
	"golang.design/x/hotkey"

	"snipe/keys"
)

var modifierMap = map[keys.Key]hotkey.Modifier{
	keys.MetaLeft:     hotkey.ModCmd,
	keys.MetaRight:    hotkey.ModCmd,
	keys.ControlLeft:  hotkey.ModCtrl,
	keys.ControlRight: hotkey.ModCtrl,
	keys.ShiftLeft:    hotkey.ModShift,
	keys.ShiftRight:   hotkey.ModShift,
	keys.Alt:          hotkey.ModOption,
	keys.AltGr:        hotkey.ModOption,
}
