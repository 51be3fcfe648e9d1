package action

import (
	"errors"
	"fmt"
	"strings"
)

// Action is what a matched combo triggers.
type Action int

const (
	CaptureRegion Action = iota + 1
	CaptureFullscreen
	Ocr
)

var ErrUnknown = errors.New("unknown action")

// Parse resolves a configured action name. Names are trimmed and matched
// case-insensitively; anything else is ErrUnknown.
func Parse(name string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "capture_region":
		return CaptureRegion, nil
	case "capture_fullscreen":
		return CaptureFullscreen, nil
	case "ocr":
		return Ocr, nil
	}
	return 0, fmt.Errorf("%w %q", ErrUnknown, name)
}

func (a Action) String() string {
	switch a {
	case CaptureRegion:
		return "capture_region"
	case CaptureFullscreen:
		return "capture_fullscreen"
	case Ocr:
		return "ocr"
	}
	return fmt.Sprintf("action(%d)", int(a))
}
