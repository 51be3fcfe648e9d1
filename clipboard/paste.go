package clipboard

import (
	"sync"

	"github.com/micmonay/keybd_event"
)

var (
	kb     keybd_event.KeyBonding
	kbOnce sync.Once
	kbErr  error
)

// Init creates the virtual keyboard used by Paste. On Linux the device
// needs a moment before the compositor accepts its events, so call Init
// at startup rather than on first paste.
func Init() error {
	kbOnce.Do(func() {
		kb, kbErr = keybd_event.NewKeyBonding()
		if kbErr == nil {
			settle()
		}
	})
	return kbErr
}

// Paste sends the platform paste shortcut to the focused window.
func Paste() error {
	if err := Init(); err != nil {
		return err
	}
	kb.SetKeys(keybd_event.VK_V)
	pasteModifier(&kb)
	return kb.Launching()
}
