package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"snipe/action"
	"snipe/beep"
	"snipe/config"
	"snipe/dispatch"
	"snipe/hotkey"
	"snipe/keys"
	"snipe/log"
)

// printSink reports daemon events on stdout for the stdin-driven test mode.
type printSink struct{ w io.Writer }

func (s printSink) ComboFired(m dispatch.Match) {
	fmt.Fprintf(s.w, "MATCH %s %s\n", m.Combo, m.Action)
}

func (s printSink) ActionDone(o action.Outcome) {
	fmt.Fprintf(s.w, "RESULT %s %s\n", o.Action, o.Result)
}

func (s printSink) KeymapChanged() {}

func runTestMode(cfg *config.Config, dryRun bool) int {
	beep.Disable()

	if err := log.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not init logging: %v\n", err)
	}
	defer log.Close()

	log.SessionStart(cfg.Path, cfg.Keymap.Combos())

	sink := printSink{w: os.Stdout}
	var runner dispatch.Runner = action.DryRun{Out: os.Stdout}
	if !dryRun {
		runner = newExecutor(cfg, sink)
	}

	d := dispatch.New(cfg.Keymap, runner,
		dispatch.WithResetPolicy(resetPolicy(cfg)),
		dispatch.WithObserver(sink.ComboFired),
	)
	hk := hotkey.NewFake()
	if err := hk.Register(d.Handle); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer hk.Unregister()

	code := drive(os.Stdin, os.Stdout, hk)
	fmt.Printf("FIRED %d\n", d.Fired())
	log.SessionEnd(d.Fired())
	return code
}

// drive reads DOWN <key>, UP <key>, SLEEP <ms> and QUIT lines and prints
// the decision for every key event. Keys use Key names or combo tokens
// (MetaLeft, ctrl, 9).
func drive(r io.Reader, w io.Writer, hk *hotkey.Fake) int {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		verb, arg, _ := strings.Cut(line, " ")
		arg = strings.TrimSpace(arg)

		switch verb {
		case "DOWN", "UP":
			k, ok := lookupKey(arg)
			if !ok {
				fmt.Fprintf(w, "ERR unknown key %q\n", arg)
				continue
			}
			var dec hotkey.Decision
			var err error
			if verb == "DOWN" {
				dec, err = hk.SimPress(k)
			} else {
				dec, err = hk.SimRelease(k)
			}
			if err != nil {
				fmt.Fprintf(w, "ERR %v\n", err)
				return 1
			}
			fmt.Fprintf(w, "%s %s %s\n", verb, k, dec)
		case "SLEEP":
			if ms, err := strconv.Atoi(arg); err == nil {
				time.Sleep(time.Duration(ms) * time.Millisecond)
			}
		case "QUIT":
			return 0
		default:
			fmt.Fprintf(w, "ERR unknown command %q\n", verb)
		}
	}
	return 0
}

// lookupKey accepts Key names and combo tokens.
func lookupKey(name string) (keys.Key, bool) {
	if k, ok := keys.Lookup(name); ok {
		return k, true
	}
	return keys.ParseToken(name)
}
