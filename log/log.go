package log

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	diagLog  = zerolog.Nop()
	diagFile *os.File
	ocrFile  *os.File
	logMu    sync.Mutex
	logReady bool
	pid      int
	dir      string
)

func ResolveDir(flagPath string) (string, error) {
	// Priority 1: -logpath flag
	if flagPath != "" {
		return absolute(flagPath)
	}

	// Priority 2: SNIPE_LOG_PATH environment variable
	if envPath := os.Getenv("SNIPE_LOG_PATH"); envPath != "" {
		return absolute(envPath)
	}

	// Priority 3: Default OS-specific location
	return getDefaultDir()
}

func absolute(p string) (string, error) {
	if filepath.IsAbs(p) {
		return p, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(wd, p), nil
}

func SetDir(d string) {
	dir = d
}

func Dir() string {
	return dir
}

func EnsureDir() error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	return nil
}

// Init opens diagnostics_log.txt and ocr_log.txt in Dir. Until it succeeds
// every logging call is a no-op.
func Init() error {
	logMu.Lock()
	defer logMu.Unlock()

	if err := EnsureDir(); err != nil {
		return err
	}

	pid = os.Getpid()

	var err error

	diagPath := filepath.Join(dir, "diagnostics_log.txt")
	diagFile, err = os.OpenFile(diagPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}

	ocrPath := filepath.Join(dir, "ocr_log.txt")
	ocrFile, err = os.OpenFile(ocrPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		diagFile.Close()
		return err
	}

	consoleWriter := zerolog.ConsoleWriter{
		Out:        diagFile,
		TimeFormat: "2006-01-02 15:04:05",
		NoColor:    true,
	}
	diagLog = zerolog.New(consoleWriter).With().Timestamp().Int("pid", pid).Logger()

	logReady = true
	return nil
}

func Close() {
	logMu.Lock()
	defer logMu.Unlock()
	logReady = false
	diagLog = zerolog.Nop()
	if diagFile != nil {
		diagFile.Close()
		diagFile = nil
	}
	if ocrFile != nil {
		ocrFile.Close()
		ocrFile = nil
	}
}

func ready() bool {
	logMu.Lock()
	defer logMu.Unlock()
	return logReady
}

func Info(msg string) {
	if ready() {
		diagLog.Info().Msg(msg)
	}
}

func Infof(format string, args ...any) {
	if ready() {
		diagLog.Info().Msg(fmt.Sprintf(format, args...))
	}
}

func Error(msg string) {
	if ready() {
		diagLog.Error().Msg(msg)
	}
}

func Errorf(format string, args ...any) {
	if ready() {
		diagLog.Error().Msg(fmt.Sprintf(format, args...))
	}
}

func Warn(msg string) {
	if ready() {
		diagLog.Warn().Msg(msg)
	}
}

func Warnf(format string, args ...any) {
	if ready() {
		diagLog.Warn().Msg(fmt.Sprintf(format, args...))
	}
}

func SessionStart(configPath string, combos []string) {
	if !ready() {
		return
	}
	diagLog.Info().
		Str("config", configPath).
		Str("combos", strings.Join(combos, ",")).
		Msg("session_start")
}

func SessionEnd(fired int) {
	if !ready() {
		return
	}
	diagLog.Info().
		Int("fired", fired).
		Msg("session_end")
}

func ComboMatched(combo, action string) {
	if !ready() {
		return
	}
	diagLog.Info().
		Str("combo", combo).
		Str("action", action).
		Msg("combo_matched")
}

// ActionResult records how an action ended: "saved", "cancelled",
// "copied" or "failed".
func ActionResult(action, outcome, path string, dur time.Duration) {
	if !ready() {
		return
	}
	ev := diagLog.Info()
	if outcome == "failed" {
		ev = diagLog.Warn()
	}
	if path != "" {
		ev = ev.Str("path", path)
	}
	ev.Str("action", action).
		Str("outcome", outcome).
		Float64("ms", float64(dur.Microseconds())/1000).
		Msg("action_result")
}

func KeymapReloaded(combos int) {
	if !ready() {
		return
	}
	diagLog.Info().Int("combos", combos).Msg("keymap_reloaded")
}

// OCRText appends recognized text to ocr_log.txt, one line per capture.
func OCRText(text string) {
	logMu.Lock()
	defer logMu.Unlock()
	if !logReady || ocrFile == nil {
		return
	}
	flat := strings.ReplaceAll(text, "\n", " ")
	line := fmt.Sprintf("%s\t[%d]\t%s\n", time.Now().Format("2006-01-02 15:04:05"), pid, flat)
	ocrFile.WriteString(line)
}
