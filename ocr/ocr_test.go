package ocr

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"snipe/capture"
)

type fakeCapturer struct {
	path  string
	quiet bool
	err   error
}

func (f *fakeCapturer) CaptureTo(_ context.Context, _ capture.Mode, path string, quiet bool) error {
	f.path, f.quiet = path, quiet
	if f.err != nil {
		return f.err
	}
	return os.WriteFile(path, []byte("png"), 0o644)
}

func writeHelper(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), HelperName)
	if err := os.WriteFile(p, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	return p
}

func newTestRecognizer(t *testing.T, c *fakeCapturer) (*Recognizer, *string) {
	t.Helper()
	var copied string
	r := &Recognizer{
		Helper:   writeHelper(t),
		Capturer: c,
		Output: func(_ context.Context, _ string, args ...string) ([]byte, error) {
			if _, err := os.Stat(args[0]); err != nil {
				t.Errorf("helper ran on missing image: %v", err)
			}
			return []byte("\n  Hello, world  \n\n"), nil
		},
		Copy:    func(s string) error { copied = s; return nil },
		TempDir: t.TempDir(),
		Now:     func() time.Time { return time.Unix(0, 42) },
	}
	return r, &copied
}

func TestRecognize(t *testing.T) {
	c := &fakeCapturer{}
	r, copied := newTestRecognizer(t, c)

	text, err := r.Recognize(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if text != "Hello, world" {
		t.Errorf("text = %q", text)
	}
	if *copied != "Hello, world" {
		t.Errorf("clipboard = %q", *copied)
	}
	if !c.quiet {
		t.Error("OCR capture should be quiet")
	}
	if _, err := os.Stat(c.path); !os.IsNotExist(err) {
		t.Errorf("temp image not removed: %v", err)
	}
}

func TestRecognizeCancelled(t *testing.T) {
	c := &fakeCapturer{err: capture.ErrCancelled}
	r, copied := newTestRecognizer(t, c)

	_, err := r.Recognize(context.Background())
	if !errors.Is(err, capture.ErrCancelled) {
		t.Errorf("err = %v, want ErrCancelled", err)
	}
	if *copied != "" {
		t.Error("clipboard written after cancel")
	}
}

func TestRecognizeHelperFailureRemovesImage(t *testing.T) {
	c := &fakeCapturer{}
	r, _ := newTestRecognizer(t, c)
	boom := errors.New("exit status 2")
	r.Output = func(context.Context, string, ...string) ([]byte, error) { return nil, boom }

	_, err := r.Recognize(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	if _, err := os.Stat(c.path); !os.IsNotExist(err) {
		t.Errorf("temp image not removed: %v", err)
	}
}

func TestRecognizeClipboardFailureKeepsText(t *testing.T) {
	r, _ := newTestRecognizer(t, &fakeCapturer{})
	r.Copy = func(string) error { return errors.New("no xclip") }

	text, err := r.Recognize(context.Background())
	if err == nil {
		t.Fatal("expected clipboard error")
	}
	if text != "Hello, world" {
		t.Errorf("text = %q", text)
	}
}

func TestResolveHelperMissing(t *testing.T) {
	_, err := ResolveHelper(filepath.Join(t.TempDir(), "nope"))
	if !errors.Is(err, ErrNoHelper) {
		t.Errorf("err = %v, want ErrNoHelper", err)
	}

	_, err = ResolveHelper("snipe-no-such-helper")
	if !errors.Is(err, ErrNoHelper) {
		t.Errorf("err = %v, want ErrNoHelper", err)
	}
}

func TestDiagnose(t *testing.T) {
	p := writeHelper(t)
	if _, err := Diagnose(p); err != nil {
		t.Errorf("Diagnose(%s): %v", p, err)
	}

	if err := os.Chmod(p, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Diagnose(p); err == nil {
		t.Error("expected error for non-executable helper")
	}
}
