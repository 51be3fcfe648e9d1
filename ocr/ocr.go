package ocr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"snipe/capture"
	"snipe/clipboard"
)

// HelperName is the recognizer binary looked up next to the executable
// when no helper is configured. It takes an image path and prints the
// recognized text on stdout.
const HelperName = "ocr_helper"

var ErrNoHelper = errors.New("ocr helper not found")

// Capturer is the part of capture.Capturer the recognizer needs.
type Capturer interface {
	CaptureTo(ctx context.Context, mode capture.Mode, path string, quiet bool) error
}

type Recognizer struct {
	Helper   string
	Capturer Capturer
	// Output runs the helper and returns its stdout.
	Output  func(ctx context.Context, name string, args ...string) ([]byte, error)
	Copy    func(text string) error
	TempDir string
	Now     func() time.Time
}

func New(helper string, c Capturer) *Recognizer {
	return &Recognizer{
		Helper:   helper,
		Capturer: c,
		Output:   output,
		Copy:     clipboard.Copy,
		TempDir:  os.TempDir(),
		Now:      time.Now,
	}
}

func output(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%w: %s", err, msg)
		}
		return nil, err
	}
	return out, nil
}

// Recognize lets the user select a region, runs the helper on it and puts
// the trimmed text on the clipboard. The temporary image is always removed.
func (r *Recognizer) Recognize(ctx context.Context) (string, error) {
	helper, err := ResolveHelper(r.Helper)
	if err != nil {
		return "", err
	}

	path := filepath.Join(r.TempDir, fmt.Sprintf("snipe_ocr_%d.png", r.Now().UnixNano()))
	defer os.Remove(path)

	if err := r.Capturer.CaptureTo(ctx, capture.Region, path, true); err != nil {
		return "", err
	}

	out, err := r.Output(ctx, helper, path)
	if err != nil {
		return "", fmt.Errorf("%s: %w", filepath.Base(helper), err)
	}

	text := strings.TrimSpace(string(out))
	if err := r.Copy(text); err != nil {
		return text, fmt.Errorf("clipboard: %w", err)
	}
	return text, nil
}

// ResolveHelper returns an absolute helper path. An empty name means
// HelperName beside the running executable; a bare name is searched in
// PATH.
func ResolveHelper(name string) (string, error) {
	if name == "" {
		exe, err := os.Executable()
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrNoHelper, err)
		}
		name = filepath.Join(filepath.Dir(exe), HelperName)
	}
	if !strings.ContainsRune(name, filepath.Separator) {
		p, err := exec.LookPath(name)
		if err != nil {
			return "", fmt.Errorf("%w: %s not in PATH", ErrNoHelper, name)
		}
		return p, nil
	}
	if _, err := os.Stat(name); err != nil {
		return "", fmt.Errorf("%w: %s", ErrNoHelper, name)
	}
	return name, nil
}

// Diagnose checks the helper exists and is executable.
func Diagnose(helper string) (string, error) {
	p, err := ResolveHelper(helper)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(p)
	if err != nil {
		return "", err
	}
	if info.Mode()&0o111 == 0 {
		return "", fmt.Errorf("%s is not executable (fix: chmod +x %s)", p, p)
	}
	return "helper " + p, nil
}
