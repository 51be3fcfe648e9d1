package action

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"snipe/beep"
	"snipe/capture"
	"snipe/log"
)

type Capturer interface {
	Capture(ctx context.Context, mode capture.Mode, dir string) (string, error)
}

type Recognizer interface {
	Recognize(ctx context.Context) (string, error)
}

// Outcome is reported to Executor.Notify after every action.
type Outcome struct {
	Action Action
	// Result is "saved", "copied", "cancelled" or "failed".
	Result string
	Path   string
	Text   string
	Err    error
	Took   time.Duration
}

// Executor runs actions against the screenshot and OCR backends.
type Executor struct {
	Capturer Capturer
	OCR      Recognizer
	// Paste, when set, is called after OCR text reaches the clipboard.
	Paste  func() error
	Sound  bool
	Notify func(Outcome)

	mu      sync.Mutex
	saveDir string
}

func NewExecutor(saveDir string, c Capturer, r Recognizer) *Executor {
	return &Executor{Capturer: c, OCR: r, saveDir: saveDir}
}

func (e *Executor) SaveDir() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.saveDir
}

func (e *Executor) SetSaveDir(dir string) {
	e.mu.Lock()
	e.saveDir = dir
	e.mu.Unlock()
}

// Run executes a. A cancelled selection is not an error.
func (e *Executor) Run(ctx context.Context, a Action) error {
	start := time.Now()
	o := Outcome{Action: a}

	switch a {
	case CaptureRegion:
		o.Path, o.Err = e.Capturer.Capture(ctx, capture.Region, e.SaveDir())
		o.Result = "saved"
	case CaptureFullscreen:
		o.Path, o.Err = e.Capturer.Capture(ctx, capture.Fullscreen, e.SaveDir())
		o.Result = "saved"
	case Ocr:
		o.Text, o.Err = e.OCR.Recognize(ctx)
		o.Result = "copied"
		if o.Err == nil {
			log.OCRText(o.Text)
			if e.Paste != nil {
				if err := e.Paste(); err != nil {
					o.Err = fmt.Errorf("paste: %w", err)
				}
			}
		}
	default:
		return fmt.Errorf("%w %q", ErrUnknown, a)
	}

	o.Took = time.Since(start)
	switch {
	case errors.Is(o.Err, capture.ErrCancelled):
		o.Result, o.Err = "cancelled", nil
	case o.Err != nil:
		o.Result = "failed"
	}

	log.ActionResult(a.String(), o.Result, o.Path, o.Took)
	e.feedback(o)
	if e.Notify != nil {
		e.Notify(o)
	}
	return o.Err
}

func (e *Executor) feedback(o Outcome) {
	if !e.Sound {
		return
	}
	switch o.Result {
	case "saved":
		beep.PlayShutter()
	case "copied":
		beep.PlayDone()
	case "failed":
		beep.PlayError()
	}
}

// DryRun prints actions instead of running them.
type DryRun struct {
	Out io.Writer
}

func (d DryRun) Run(_ context.Context, a Action) error {
	log.Infof("dry run: %s", a)
	fmt.Fprintf(d.Out, "ACTION %s\n", a)
	return nil
}
