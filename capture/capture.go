package capture

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

var (
	ErrNoTool    = errors.New("no screenshot tool found")
	ErrCancelled = errors.New("screenshot cancelled")
)

type Mode int

const (
	Region Mode = iota
	Fullscreen
)

func (m Mode) String() string {
	if m == Fullscreen {
		return "fullscreen"
	}
	return "region"
}

// Tool describes a screenshot command. The output path is always the last
// argument.
type Tool struct {
	Name       string
	Region     []string
	Fullscreen []string
	// Quiet flags are added when the capture feeds OCR rather than the user.
	Quiet []string
}

func (t Tool) Args(mode Mode, quiet bool, path string) []string {
	var args []string
	if mode == Fullscreen {
		args = slices.Clone(t.Fullscreen)
	} else {
		args = slices.Clone(t.Region)
	}
	if quiet {
		args = append(args, t.Quiet...)
	}
	return append(args, path)
}

// ExecFunc runs a command and returns its stderr.
type ExecFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

// Capturer takes screenshots with the first installed tool.
type Capturer struct {
	Exec     ExecFunc
	LookPath func(file string) (string, error)
	Now      func() time.Time
	Tools    []Tool
}

func New() *Capturer {
	return &Capturer{
		Exec:     run,
		LookPath: exec.LookPath,
		Now:      time.Now,
		Tools:    platformTools(),
	}
}

func run(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stderr.Bytes(), err
}

// Tool returns the first available tool and its resolved path.
func (c *Capturer) Tool() (Tool, string, error) {
	for _, t := range c.Tools {
		if p, err := c.LookPath(t.Name); err == nil {
			return t, p, nil
		}
	}
	return Tool{}, "", ErrNoTool
}

// Capture saves a screenshot as dir/screenshot_<unix>.png and returns the
// path. Later captures within the same second get a _2, _3... suffix. A
// selection the user aborted yields ErrCancelled.
func (c *Capturer) Capture(ctx context.Context, mode Mode, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("save dir: %w", err)
	}
	path, err := freePath(dir, fmt.Sprintf("screenshot_%d", c.Now().Unix()))
	if err != nil {
		return "", err
	}
	if err := c.CaptureTo(ctx, mode, path, false); err != nil {
		return "", err
	}
	return path, nil
}

// freePath returns dir/base.png, or the first dir/base_<n>.png that does not
// exist yet. An existing file would otherwise hide a cancelled selection.
func freePath(dir, base string) (string, error) {
	path := filepath.Join(dir, base+".png")
	for n := 2; ; n++ {
		_, err := os.Stat(path)
		if errors.Is(err, fs.ErrNotExist) {
			return path, nil
		}
		if err != nil {
			return "", fmt.Errorf("save dir: %w", err)
		}
		path = filepath.Join(dir, fmt.Sprintf("%s_%d.png", base, n))
	}
}

// CaptureTo writes a screenshot to path.
func (c *Capturer) CaptureTo(ctx context.Context, mode Mode, path string, quiet bool) error {
	tool, bin, err := c.Tool()
	if err != nil {
		return err
	}

	stderr, err := c.Exec(ctx, bin, tool.Args(mode, quiet, path)...)
	if err != nil {
		if msg := strings.TrimSpace(string(stderr)); msg != "" {
			return fmt.Errorf("%s: %w: %s", tool.Name, err, msg)
		}
		return fmt.Errorf("%s: %w", tool.Name, err)
	}

	// The tools exit 0 without writing a file when the selection is aborted.
	if _, err := os.Stat(path); err != nil {
		return ErrCancelled
	}
	return nil
}

// Diagnose reports which screenshot tool would be used.
func Diagnose() (string, error) {
	c := New()
	t, p, err := c.Tool()
	if err != nil {
		names := make([]string, len(c.Tools))
		for i, t := range c.Tools {
			names[i] = t.Name
		}
		if len(names) == 0 {
			return "", fmt.Errorf("%w: screenshots are not supported on this platform", ErrNoTool)
		}
		return "", fmt.Errorf("%w (install one of: %s)", ErrNoTool, strings.Join(names, ", "))
	}
	return fmt.Sprintf("using %s (%s)", t.Name, p), nil
}
