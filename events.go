package main

import (
	"snipe/action"
	"snipe/dispatch"
)

// StatusSink abstracts the display layer so the TUI and the headless
// modes receive the same daemon events. Methods are called from the input
// or worker goroutine and must not block.
type StatusSink interface {
	ComboFired(m dispatch.Match)
	ActionDone(o action.Outcome)
	KeymapChanged()
}

type nopSink struct{}

func (nopSink) ComboFired(dispatch.Match) {}
func (nopSink) ActionDone(action.Outcome) {}
func (nopSink) KeymapChanged()            {}
