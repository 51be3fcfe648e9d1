package keymap

import (
	"maps"
	"slices"
	"sync"

	"snipe/action"
)

// Table maps combo identifiers to actions. It is read from the input path
// and written at startup or on config reload.
type Table struct {
	mu sync.RWMutex
	m  map[string]action.Action
}

func New() *Table {
	return &Table{m: make(map[string]action.Action)}
}

// Defaults returns the built-in keymap used when no config file is usable.
func Defaults() *Table {
	t := New()
	t.Insert("cmd+ctrl+9", action.CaptureRegion)
	t.Insert("cmd+ctrl+8", action.Ocr)
	t.Insert("cmd+ctrl+0", action.CaptureFullscreen)
	return t
}

// Insert maps id to a, replacing any previous mapping.
func (t *Table) Insert(id string, a action.Action) {
	t.mu.Lock()
	t.m[id] = a
	t.mu.Unlock()
}

func (t *Table) Lookup(id string) (action.Action, bool) {
	t.mu.RLock()
	a, ok := t.m[id]
	t.mu.RUnlock()
	return a, ok
}

// Replace swaps in the contents of other. Lookups see either the old or the
// new mapping, never a mix.
func (t *Table) Replace(other *Table) {
	other.mu.RLock()
	next := maps.Clone(other.m)
	other.mu.RUnlock()
	if next == nil {
		next = make(map[string]action.Action)
	}

	t.mu.Lock()
	t.m = next
	t.mu.Unlock()
}

// Combos returns the mapped identifiers in sorted order.
func (t *Table) Combos() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Sorted(maps.Keys(t.m))
}

func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.m)
}
