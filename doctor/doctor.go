package doctor

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"snipe/action"
	"snipe/capture"
	"snipe/clipboard"
	"snipe/config"
	"snipe/dispatch"
	"snipe/hotkey"
	"snipe/ocr"
	"snipe/shutdown"
)

const comboTimeout = 15 * time.Second

type check struct {
	title string
	run   func(cfg *config.Config) bool
}

var checks = []check{
	{"Keyboard access", checkInput},
	{"Combo detection", checkCombo},
	{"Screenshot tool", checkCapture},
	{"OCR helper", checkOCR},
	{"Clipboard", checkClipboard},
}

// Run executes diagnostic checks and returns an exit code (0=all pass, 1=any fail).
func Run(cfg *config.Config) int {
	resetTerminal()
	ctx, stop := shutdown.Context(context.Background())
	defer stop()
	finished := make(chan struct{})
	defer close(finished)
	go func() {
		<-ctx.Done()
		select {
		case <-finished:
			return
		default:
		}
		resetTerminal()
		fmt.Println("\nInterrupted")
		os.Exit(1)
	}()

	fmt.Println("snipe doctor - system diagnostics")
	fmt.Println("=================================")
	if cfg.Path != "" {
		fmt.Printf("config: %s\n", cfg.Path)
	} else {
		fmt.Println("config: built-in defaults")
	}

	failed := 0
	for i, c := range checks {
		fmt.Println()
		fmt.Printf("[%d/%d] %s\n", i+1, len(checks), c.title)
		if !c.run(cfg) {
			failed++
			// combo detection needs working keyboard access
			if i == 0 {
				fmt.Println()
				fmt.Println("Skipping remaining checks.")
				return 1
			}
		}
	}

	fmt.Println()
	if failed == 0 {
		fmt.Println("All checks passed!")
		return 0
	}
	fmt.Printf("%d check(s) failed. See details above.\n", failed)
	return 1
}

func report(msg string, err error) bool {
	if err != nil {
		fmt.Printf("  FAIL: %v\n", err)
		return false
	}
	fmt.Printf("  PASS: %s\n", msg)
	return true
}

func checkInput(*config.Config) bool {
	return report(hotkey.Diagnose())
}

func checkCombo(cfg *config.Config) bool {
	combos := cfg.Keymap.Combos()
	if len(combos) == 0 {
		fmt.Println("  FAIL: keymap is empty")
		return false
	}
	combo := combos[0]
	want, _ := cfg.Keymap.Lookup(combo)

	matched := make(chan action.Action, 1)
	d := dispatch.New(cfg.Keymap, dispatch.RunnerFunc(func(_ context.Context, a action.Action) error {
		select {
		case matched <- a:
		default:
		}
		return nil
	}))

	l := hotkey.New(combos)
	if err := l.Register(d.Handle); err != nil {
		fmt.Printf("  FAIL: could not start listener: %v\n", err)
		return false
	}
	defer func() {
		l.Unregister()
		resetTerminal()
	}()

	fmt.Printf("Press %s%s...\n", combo, cmdHint())
	select {
	case a := <-matched:
		if a != want {
			fmt.Printf("  FAIL: matched %s, want %s\n", a, want)
			return false
		}
		fmt.Printf("  PASS: %s detected (%s)\n", combo, a)
		return true
	case <-time.After(comboTimeout):
		fmt.Println("  FAIL: timeout waiting for combo")
		if held := d.Held(); len(held) > 0 {
			fmt.Printf("  keys still held: %v\n", held)
		}
		return false
	}
}

func cmdHint() string {
	if runtime.GOOS == "darwin" {
		return ""
	}
	return " (cmd is the Super/Windows key)"
}

func checkCapture(*config.Config) bool {
	return report(capture.Diagnose())
}

func checkOCR(cfg *config.Config) bool {
	return report(ocr.Diagnose(cfg.OCRHelper))
}

func checkClipboard(cfg *config.Config) bool {
	if !report(clipboard.Verify()) {
		return false
	}
	if !cfg.OCRPaste {
		return true
	}
	if err := clipboard.Init(); err != nil {
		fmt.Printf("  FAIL: paste keyboard: %v\n", err)
		if runtime.GOOS == "linux" {
			fmt.Println("  Fix with: sudo chmod 660 /dev/uinput && sudo chgrp input /dev/uinput")
		}
		return false
	}
	fmt.Println("  PASS: paste keyboard ready")
	return true
}
