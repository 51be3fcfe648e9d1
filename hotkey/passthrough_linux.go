//go:build linux

package hotkey

import (
	"slices"

	evdev "github.com/holoplot/go-evdev"
)

// capabilitySource is the part of *evdev.InputDevice the passthrough
// device is built from.
type capabilitySource interface {
	CapableTypes() []evdev.EvType
	CapableEvents(t evdev.EvType) []evdev.EvCode
}

// capabilities is the set of event types and codes a uinput device can emit.
type capabilities map[evdev.EvType][]evdev.EvCode

// grabbable reports whether a device can be re-emitted through the
// passthrough device. Absolute axes need per-axis ranges that uinput
// creation here does not carry, so touchpads and tablets stay ungrabbed.
func grabbable(src capabilitySource) bool {
	return !slices.Contains(src.CapableTypes(), evdev.EV_ABS)
}

// passthroughCapabilities is the union of what the grabbed devices report.
// EV_REP is left out so the kernel does not synthesize a second auto-repeat
// on top of the forwarded one. EV_KEY always covers the standard keyboard
// range.
func passthroughCapabilities(srcs ...capabilitySource) capabilities {
	seen := map[evdev.EvType]map[evdev.EvCode]bool{
		evdev.EV_KEY: {},
	}
	for c := evdev.EvCode(1); c < 256; c++ {
		seen[evdev.EV_KEY][c] = true
	}

	for _, src := range srcs {
		for _, t := range src.CapableTypes() {
			switch t {
			case evdev.EV_SYN, evdev.EV_REP, evdev.EV_ABS, evdev.EV_FF:
				continue
			}
			if seen[t] == nil {
				seen[t] = map[evdev.EvCode]bool{}
			}
			for _, c := range src.CapableEvents(t) {
				seen[t][c] = true
			}
		}
	}

	caps := make(capabilities, len(seen))
	for t, codes := range seen {
		list := make([]evdev.EvCode, 0, len(codes))
		for c := range codes {
			list = append(list, c)
		}
		slices.Sort(list)
		caps[t] = list
	}
	return caps
}

// covers reports whether ev can be written to a device built from caps.
// Sync events are always accepted.
func (caps capabilities) covers(ev *evdev.InputEvent) bool {
	if ev.Type == evdev.EV_SYN {
		return true
	}
	codes, ok := caps[ev.Type]
	if !ok {
		return false
	}
	_, found := slices.BinarySearch(codes, ev.Code)
	return found
}
