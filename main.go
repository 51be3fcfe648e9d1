package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"runtime/debug"
	"time"

	"snipe/action"
	"snipe/beep"
	"snipe/capture"
	"snipe/clipboard"
	"snipe/config"
	"snipe/dispatch"
	"snipe/doctor"
	"snipe/hotkey"
	"snipe/log"
	"snipe/ocr"
	"snipe/shutdown"
)

var version = "dev"

const workerQueue = 4

type options struct {
	configPath string
	tui        bool
	async      bool
	dryRun     bool
}

func run() {
	configFlag := flag.String("config", "", "config file path (default: $SNIPE_CONFIG or ~/.config/snipe/snipe.conf)")
	logPathFlag := flag.String("logpath", "", "log directory path (default: OS-specific location, use ./ for current dir)")
	tuiFlag := flag.Bool("tui", true, "Run with terminal UI (false: run in background)")
	asyncFlag := flag.Bool("async", false, "Run actions on a worker goroutine instead of the input thread")
	dryRunFlag := flag.Bool("dryrun", false, "Print matched actions instead of running them")
	doctorFlag := flag.Bool("doctor", false, "Run system diagnostics and exit")
	testFlag := flag.Bool("test", false, "Test mode (headless, stdin-driven)")
	versionFlag := flag.Bool("version", false, "Print version and exit")
	crashFlag := flag.Bool("crash", false, "Trigger synthetic panic for testing crash logging")
	flag.Parse()

	if *versionFlag {
		fmt.Printf("snipe %s\n", version)
		os.Exit(0)
	}

	logPath, err := log.ResolveDir(*logPathFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to resolve log directory: %v\n", err)
		os.Exit(1)
	}
	log.SetDir(logPath)
	if err := log.EnsureDir(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not create log directory: %v\n", err)
	}
	initCrashLog()

	if *crashFlag {
		panic("TEST CRASH: synthetic panic to verify crash logging")
	}

	cfgPath, cfg := loadConfig(*configFlag)

	if *doctorFlag {
		os.Exit(doctor.Run(cfg))
	}

	if *testFlag {
		os.Exit(runTestMode(cfg, *dryRunFlag))
	}

	// Daemonize in non-TUI mode: re-exec in background, return shell prompt
	if !*tuiFlag && os.Getenv("_SNIPE_BG") == "" {
		exe, _ := os.Executable()
		cmd := exec.Command(exe, os.Args[1:]...)
		cmd.Env = append(os.Environ(), "_SNIPE_BG=1")
		devnull, _ := os.Open(os.DevNull)
		cmd.Stdin, cmd.Stdout, cmd.Stderr = devnull, devnull, devnull
		if err := cmd.Start(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("snipe running in background (pid %d), logs in %s\n", cmd.Process.Pid, log.Dir())
		os.Exit(0)
	}

	opts := options{
		configPath: cfgPath,
		tui:        *tuiFlag && isTerminal(),
		async:      *asyncFlag,
		dryRun:     *dryRunFlag,
	}
	os.Exit(serve(cfg, opts))
}

func initCrashLog() {
	crashPath := filepath.Join(log.Dir(), "crash_log.txt")
	crashFile, err := os.OpenFile(crashPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return
	}
	fmt.Fprintf(crashFile, "\n=== Session %s [pid=%d] ===\n", time.Now().Format("2006-01-02 15:04:05"), os.Getpid())
	debug.SetCrashOutput(crashFile, debug.CrashOptions{})
}

// loadConfig returns the resolved config path and the config to run with.
// A missing or broken file falls back to the defaults; only an
// unresolvable home directory is fatal.
func loadConfig(flagPath string) (string, *config.Config) {
	path := flagPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
		path = p
	}

	if path != "" {
		cfg, err := config.Load(path)
		if err == nil {
			return path, cfg
		}
		if errors.Is(err, fs.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "No config file at %s, using defaults\n", path)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\nUsing defaults\n", err)
		}
	}

	cfg, err := config.Default()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return path, cfg
}

func resetPolicy(cfg *config.Config) dispatch.ResetPolicy {
	if cfg.KeepModifiers {
		return dispatch.ResetTrigger
	}
	return dispatch.ResetAll
}

func newExecutor(cfg *config.Config, sink StatusSink) *action.Executor {
	c := capture.New()
	e := action.NewExecutor(cfg.SaveDir, c, ocr.New(cfg.OCRHelper, c))
	e.Sound = cfg.Sound
	e.Notify = sink.ActionDone
	if cfg.OCRPaste {
		e.Paste = clipboard.Paste
	}
	return e
}

// serve runs the daemon until a termination signal or the TUI quits and
// returns the exit code.
func serve(cfg *config.Config, opts options) int {
	if err := log.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not init logging: %v\n", err)
	}
	defer log.Close()

	if cfg.Sound {
		go beep.Init()
	} else {
		beep.Disable()
	}
	if cfg.OCRPaste {
		if err := clipboard.Init(); err != nil {
			log.Warnf("paste init failed: %v", err)
			fmt.Fprintf(os.Stderr, "Warning: paste init failed: %v\n", err)
		}
	}

	ctx, stop := shutdown.Context(context.Background())
	defer stop()

	var sink StatusSink = nopSink{}
	var tui *tuiSink
	if opts.tui {
		tui = newTUISink()
		sink = tui
	}

	executor := newExecutor(cfg, sink)
	var runner dispatch.Runner = executor
	if opts.dryRun {
		runner = action.DryRun{Out: os.Stderr}
	}
	var worker *dispatch.Worker
	if opts.async {
		worker = dispatch.NewWorker(runner, workerQueue)
		worker.Start(ctx)
		runner = worker
	}

	d := dispatch.New(cfg.Keymap, runner,
		dispatch.WithResetPolicy(resetPolicy(cfg)),
		dispatch.WithContext(ctx),
		dispatch.WithObserver(sink.ComboFired),
	)

	combos := cfg.Keymap.Combos()
	listener := hotkey.New(combos)
	if err := listener.Register(d.Handle); err != nil {
		log.Errorf("input register error: %v", err)
		fmt.Fprintf(os.Stderr, "Error registering keyboard hook: %v\n", err)
		return 1
	}
	defer listener.Unregister()

	log.SessionStart(opts.configPath, combos)

	if opts.configPath != "" {
		w, err := config.Watch(opts.configPath, func(next *config.Config) {
			applyReload(cfg, next, executor, listener, sink)
		})
		if err != nil {
			log.Warnf("config watch disabled: %v", err)
		} else {
			defer w.Close()
		}
	}

	if tui != nil {
		p := tui.start(d, cfg.Keymap)
		go func() {
			if _, err := p.Run(); err != nil {
				log.Errorf("TUI error: %v", err)
			}
			stop()
		}()
		<-ctx.Done()
		p.Quit()
	} else {
		fmt.Printf("snipe %s: %d combos active, Ctrl+C to quit\n", version, len(combos))
		<-ctx.Done()
	}

	if worker != nil {
		worker.Stop()
	}
	log.SessionEnd(d.Fired())
	return 0
}

// applyReload swaps in a re-parsed config. The reset policy is fixed at
// startup.
func applyReload(cur, next *config.Config, executor *action.Executor, l hotkey.Listener, sink StatusSink) {
	cur.Keymap.Replace(next.Keymap)
	executor.SetSaveDir(next.SaveDir)
	combos := cur.Keymap.Combos()
	if rb, ok := l.(hotkey.Rebinder); ok {
		if err := rb.Rebind(combos); err != nil {
			log.Errorf("rebind after reload: %v", err)
		}
	}
	sink.KeymapChanged()
}
