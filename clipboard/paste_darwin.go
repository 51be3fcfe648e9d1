//go:build darwin

package clipboard

import "github.com/micmonay/keybd_event"

func pasteModifier(kb *keybd_event.KeyBonding) { kb.HasSuper(true) } // Cmd+V

func settle() {}
