package log

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func setupLogDir(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	SetDir(tmp)
	t.Cleanup(func() { Close(); SetDir("") })
	return tmp
}

func TestResolveDirFlag(t *testing.T) {
	got, err := ResolveDir("/tmp/mylog")
	if err != nil {
		t.Fatal(err)
	}
	if got != "/tmp/mylog" {
		t.Errorf("got %q, want /tmp/mylog", got)
	}
}

func TestResolveDirFlagRelative(t *testing.T) {
	got, err := ResolveDir("logs")
	if err != nil {
		t.Fatal(err)
	}
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(wd, "logs")
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestResolveDirEnv(t *testing.T) {
	t.Setenv("SNIPE_LOG_PATH", "/tmp/snipe-env-log")
	got, err := ResolveDir("")
	if err != nil {
		t.Fatal(err)
	}
	if got != "/tmp/snipe-env-log" {
		t.Errorf("got %q, want /tmp/snipe-env-log", got)
	}
}

func TestResolveDirDefault(t *testing.T) {
	t.Setenv("SNIPE_LOG_PATH", "")
	got, err := ResolveDir("")
	if err != nil {
		t.Fatal(err)
	}
	if got == "" {
		t.Error("expected non-empty default directory")
	}
}

func TestInitCreatesFiles(t *testing.T) {
	tmp := setupLogDir(t)

	if err := Init(); err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"diagnostics_log.txt", "ocr_log.txt"} {
		path := filepath.Join(tmp, name)
		if _, err := os.Stat(path); err != nil {
			t.Errorf("%s not created: %v", name, err)
		}
	}
}

func TestOCRText(t *testing.T) {
	tmp := setupLogDir(t)

	if err := Init(); err != nil {
		t.Fatal(err)
	}

	OCRText("hello\nworld")

	data, err := os.ReadFile(filepath.Join(tmp, "ocr_log.txt"))
	if err != nil {
		t.Fatal(err)
	}
	line := string(data)
	if !strings.Contains(line, "hello world") {
		t.Errorf("ocr_log.txt missing flattened text, got: %q", line)
	}
	if strings.Count(line, "\n") != 1 {
		t.Errorf("expected a single line, got: %q", line)
	}
	// format: "2006-01-02 15:04:05\t[pid]\ttext\n"
	if !strings.Contains(line, "\t") {
		t.Errorf("expected tab-separated format, got: %q", line)
	}
}

func TestStructuredEvents(t *testing.T) {
	tmp := setupLogDir(t)

	if err := Init(); err != nil {
		t.Fatal(err)
	}

	SessionStart("/etc/snipe.conf", []string{"cmd+ctrl+9", "cmd+ctrl+8"})
	ComboMatched("cmd+ctrl+9", "capture_region")
	ActionResult("capture_region", "saved", "/tmp/shot.png", 0)
	ActionResult("ocr", "failed", "", 0)
	KeymapReloaded(2)
	Errorf("capture failed: %v", "exit status 1")
	SessionEnd(1)
	Close()

	data, err := os.ReadFile(filepath.Join(tmp, "diagnostics_log.txt"))
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	for _, want := range []string{
		"session_start", "combos=cmd+ctrl+9,cmd+ctrl+8",
		"combo_matched", "combo=cmd+ctrl+9",
		"action_result", "outcome=saved", "path=/tmp/shot.png",
		"outcome=failed", "keymap_reloaded",
		"capture failed: exit status 1", "session_end", "fired=1",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("diagnostics_log.txt missing %q\n%s", want, out)
		}
	}
}

func TestNoopBeforeInit(t *testing.T) {
	setupLogDir(t)
	// must not panic or create files
	Info("ignored")
	ComboMatched("cmd+ctrl+9", "capture_region")
	OCRText("ignored")
}

func TestCloseIdempotent(t *testing.T) {
	setupLogDir(t)

	if err := Init(); err != nil {
		t.Fatal(err)
	}
	Close()
	Close() // should not panic
}
