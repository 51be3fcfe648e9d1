//go:build darwin || windows

package hotkey

import (
	"errors"
	"testing"

	"golang.design/x/hotkey"
)

func TestPlanSkipsMultiTrigger(t *testing.T) {
	specs, errs := plan([]string{"cmd+ctrl+9", "ctrl+a+b", "cmd+ctrl+0"})

	if len(specs) != 2 {
		t.Fatalf("got %d bindable combos, want 2", len(specs))
	}
	if specs[0].combo != "cmd+ctrl+9" || specs[1].combo != "cmd+ctrl+0" {
		t.Errorf("unexpected combos: %q, %q", specs[0].combo, specs[1].combo)
	}
	if specs[0].key != hotkey.Key9 || len(specs[0].mods) != 2 {
		t.Errorf("cmd+ctrl+9: key %v mods %v", specs[0].key, specs[0].mods)
	}
	if len(errs) != 1 || !errors.Is(errs[0], errSingleKey) {
		t.Errorf("got errors %v, want one errSingleKey", errs)
	}
}

func TestPlanAllInvalid(t *testing.T) {
	specs, errs := plan([]string{"ctrl+a+b"})
	if len(specs) != 0 || len(errs) != 1 {
		t.Errorf("got %d specs, %d errors; want 0, 1", len(specs), len(errs))
	}
}
