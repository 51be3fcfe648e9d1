package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"snipe/action"
	"snipe/keymap"
	"snipe/keys"
)

var (
	ErrMalformedLine = errors.New("malformed line")
	ErrNoHome        = errors.New("cannot resolve home directory")
)

// Config is built once before the listener starts.
type Config struct {
	Path    string
	SaveDir string
	Keymap  *keymap.Table

	// OCRHelper is the recognizer binary; empty means "ocr_helper" next to
	// the executable.
	OCRHelper string
	// OCRPaste pastes recognized text into the focused window.
	OCRPaste bool
	Sound    bool
	// KeepModifiers forgets only the trigger key after a match
	// (match_reset=trigger).
	KeepModifiers bool
}

// DefaultPath resolves the config file: SNIPE_CONFIG, then
// $XDG_CONFIG_HOME/snipe/snipe.conf, then ~/.config/snipe/snipe.conf.
func DefaultPath() (string, error) {
	if p := os.Getenv("SNIPE_CONFIG"); p != "" {
		return p, nil
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "snipe", "snipe.conf"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "", ErrNoHome
	}
	return filepath.Join(home, ".config", "snipe", "snipe.conf"), nil
}

// PicturesDir is the default save directory.
func PicturesDir() (string, error) {
	if p := os.Getenv("XDG_PICTURES_DIR"); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "", ErrNoHome
	}
	return filepath.Join(home, "Pictures"), nil
}

// Default returns the built-in configuration. It fails only when the
// pictures directory cannot be resolved.
func Default() (*Config, error) {
	dir, err := PicturesDir()
	if err != nil {
		return nil, err
	}
	return &Config{
		SaveDir: dir,
		Keymap:  keymap.Defaults(),
		Sound:   true,
	}, nil
}

// Load reads and parses the file at path. A missing file is reported as an
// error wrapping fs.ErrNotExist.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	saveDir, err := PicturesDir()
	if err != nil {
		// save_dir in the file may still make the config usable
		saveDir = ""
	}
	cfg, err := Parse(f, saveDir)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if cfg.SaveDir == "" {
		return nil, fmt.Errorf("%s: %w and no save_dir set", path, ErrNoHome)
	}
	cfg.Path = path
	return cfg, nil
}

// Parse reads key=value lines. save_dir, ocr_helper, ocr_paste, sound and
// match_reset are settings; every other key is a combo identifier mapped
// to an action name. Blank lines and lines starting with '#' are skipped.
// The keymap starts empty; the last mapping for a combo wins.
func Parse(r io.Reader, saveDir string) (*Config, error) {
	cfg := &Config{
		SaveDir: saveDir,
		Keymap:  keymap.New(),
		Sound:   true,
	}

	sc := bufio.NewScanner(r)
	n := 0
	for sc.Scan() {
		n++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		key, value = strings.TrimSpace(key), strings.TrimSpace(value)
		if !ok || key == "" || value == "" {
			return nil, fmt.Errorf("line %d: %w: %q", n, ErrMalformedLine, line)
		}

		if err := cfg.set(key, value); err != nil {
			return nil, fmt.Errorf("line %d: %w", n, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) set(key, value string) error {
	switch key {
	case "save_dir":
		c.SaveDir = expandHome(value)
	case "ocr_helper":
		c.OCRHelper = expandHome(value)
	case "ocr_paste":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("ocr_paste: %w", err)
		}
		c.OCRPaste = b
	case "sound":
		b, err := parseSwitch(value)
		if err != nil {
			return fmt.Errorf("sound: %w", err)
		}
		c.Sound = b
	case "match_reset":
		switch value {
		case "all":
			c.KeepModifiers = false
		case "trigger":
			c.KeepModifiers = true
		default:
			return fmt.Errorf("%w: match_reset must be all or trigger, got %q", ErrMalformedLine, value)
		}
	default:
		combo, err := keys.Canonical(key)
		if err != nil {
			return err
		}
		a, err := action.Parse(value)
		if err != nil {
			return err
		}
		c.Keymap.Insert(combo, a)
	}
	return nil
}

func parseSwitch(v string) (bool, error) {
	switch strings.ToLower(v) {
	case "on":
		return true, nil
	case "off":
		return false, nil
	}
	return strconv.ParseBool(v)
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
