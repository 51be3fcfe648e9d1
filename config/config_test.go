package config

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snipe/action"
)

func TestParseDefaultsFile(t *testing.T) {
	src := `
# snipe keymap
save_dir = /tmp/shots
cmd+ctrl+9=capture_region
cmd+ctrl+8=ocr
ctrl+cmd+0 = capture_fullscreen
`
	cfg, err := Parse(strings.NewReader(src), "/home/u/Pictures")
	require.NoError(t, err)

	assert.Equal(t, "/tmp/shots", cfg.SaveDir)
	assert.Equal(t, 3, cfg.Keymap.Len())

	a, ok := cfg.Keymap.Lookup("cmd+ctrl+0")
	require.True(t, ok)
	assert.Equal(t, action.CaptureFullscreen, a)
}

func TestParseStartsFromEmptyKeymap(t *testing.T) {
	cfg, err := Parse(strings.NewReader("shift+alt+s=ocr\n"), "/pics")
	require.NoError(t, err)

	assert.Equal(t, []string{"shift+alt+s"}, cfg.Keymap.Combos())
	_, ok := cfg.Keymap.Lookup("cmd+ctrl+9")
	assert.False(t, ok)
	assert.Equal(t, "/pics", cfg.SaveDir)
}

func TestParseLastWriteWins(t *testing.T) {
	cfg, err := Parse(strings.NewReader("cmd+ctrl+9=ocr\ncmd+ctrl+9=capture_region\n"), "/pics")
	require.NoError(t, err)

	a, ok := cfg.Keymap.Lookup("cmd+ctrl+9")
	require.True(t, ok)
	assert.Equal(t, action.CaptureRegion, a)
}

func TestParseSplitsAtFirstEquals(t *testing.T) {
	cfg, err := Parse(strings.NewReader("save_dir=/tmp/a=b\n"), "")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/a=b", cfg.SaveDir)
}

func TestParseSettings(t *testing.T) {
	src := "ocr_helper=/opt/ocr\nocr_paste=true\nsound=off\nmatch_reset=trigger\n"
	cfg, err := Parse(strings.NewReader(src), "/pics")
	require.NoError(t, err)

	assert.Equal(t, "/opt/ocr", cfg.OCRHelper)
	assert.True(t, cfg.OCRPaste)
	assert.False(t, cfg.Sound)
	assert.True(t, cfg.KeepModifiers)
}

func TestParseExpandsHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	cfg, err := Parse(strings.NewReader("save_dir=~/shots\n"), "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "shots"), cfg.SaveDir)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		line string
	}{
		{"no equals", "cmd+ctrl+9 capture_region\n", "line 1"},
		{"empty value", "\n\ncmd+ctrl+9=\n", "line 3"},
		{"empty key", "=ocr\n", "line 1"},
		{"bad match_reset", "match_reset=some\n", "line 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.src), "/pics")
			require.ErrorIs(t, err, ErrMalformedLine)
			assert.Contains(t, err.Error(), tt.line)
		})
	}
}

func TestParseRejectsUnknownAction(t *testing.T) {
	_, err := Parse(strings.NewReader("cmd+ctrl+9=record_video\n"), "/pics")
	assert.ErrorIs(t, err, action.ErrUnknown)
}

func TestParseRejectsModifierOnlyCombo(t *testing.T) {
	_, err := Parse(strings.NewReader("cmd+ctrl=ocr\n"), "/pics")
	assert.Error(t, err)
}

func TestParseCanonicalizesCombo(t *testing.T) {
	cfg, err := Parse(strings.NewReader("Ctrl+Super+9=ocr\n"), "/pics")
	require.NoError(t, err)
	assert.Equal(t, []string{"cmd+ctrl+9"}, cfg.Keymap.Combos())
}

func TestDefault(t *testing.T) {
	t.Setenv("XDG_PICTURES_DIR", "/srv/pics")
	cfg, err := Default()
	require.NoError(t, err)

	assert.Equal(t, "/srv/pics", cfg.SaveDir)
	assert.Equal(t, []string{"cmd+ctrl+0", "cmd+ctrl+8", "cmd+ctrl+9"}, cfg.Keymap.Combos())
	assert.True(t, cfg.Sound)
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("SNIPE_CONFIG", "/etc/snipe.conf")
	p, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, "/etc/snipe.conf", p)

	t.Setenv("SNIPE_CONFIG", "")
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	p, err = DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, "/cfg/snipe/snipe.conf", p)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.conf"))
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestLoad(t *testing.T) {
	t.Setenv("XDG_PICTURES_DIR", "/srv/pics")
	path := filepath.Join(t.TempDir(), "snipe.conf")
	require.NoError(t, os.WriteFile(path, []byte("cmd+ctrl+7=ocr\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, cfg.Path)
	assert.Equal(t, "/srv/pics", cfg.SaveDir)
	assert.Equal(t, 1, cfg.Keymap.Len())
}

func TestWatchReloads(t *testing.T) {
	t.Setenv("XDG_PICTURES_DIR", "/srv/pics")
	path := filepath.Join(t.TempDir(), "snipe.conf")
	require.NoError(t, os.WriteFile(path, []byte("cmd+ctrl+7=ocr\n"), 0o644))

	got := make(chan *Config, 4)
	w, err := Watch(path, func(c *Config) { got <- c })
	require.NoError(t, err)
	defer w.Close()

	// a broken write is skipped
	require.NoError(t, os.WriteFile(path, []byte("garbage\n"), 0o644))
	time.Sleep(3 * debounce)
	require.NoError(t, os.WriteFile(path, []byte("cmd+ctrl+7=ocr\nalt+1=capture_region\n"), 0o644))

	select {
	case c := <-got:
		assert.Equal(t, 2, c.Keymap.Len())
	case <-time.After(5 * time.Second):
		t.Fatal("no reload after write")
	}
}

func TestWatchIgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "snipe.conf")
	require.NoError(t, os.WriteFile(path, []byte("alt+1=ocr\n"), 0o644))

	got := make(chan *Config, 1)
	w, err := Watch(path, func(c *Config) { got <- c })
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.conf"), []byte("x"), 0o644))
	select {
	case <-got:
		t.Fatal("reloaded on unrelated file")
	case <-time.After(4 * debounce):
	}
	assert.NoError(t, w.Close())
	assert.NoError(t, w.Close())
}
