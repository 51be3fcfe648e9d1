//go:build linux

package clipboard

import (
	"time"

	"github.com/micmonay/keybd_event"
)

func pasteModifier(kb *keybd_event.KeyBonding) { kb.HasCTRL(true) }

func settle() { time.Sleep(2 * time.Second) }
