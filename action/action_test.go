package action

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	tests := map[string]Action{
		"capture_region":     CaptureRegion,
		" Capture_Region ":   CaptureRegion,
		"capture_fullscreen": CaptureFullscreen,
		"OCR":                Ocr,
	}
	for in, want := range tests {
		got, err := Parse(in)
		if err != nil {
			t.Fatalf("Parse(%q): %v", in, err)
		}
		if got != want {
			t.Errorf("Parse(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestParseUnknown(t *testing.T) {
	for _, in := range []string{"", "capture", "screenshot", "ocr_region"} {
		if _, err := Parse(in); !errors.Is(err, ErrUnknown) {
			t.Errorf("Parse(%q) err = %v, want ErrUnknown", in, err)
		}
	}
}

func TestStringRoundTrip(t *testing.T) {
	for _, a := range []Action{CaptureRegion, CaptureFullscreen, Ocr} {
		got, err := Parse(a.String())
		if err != nil || got != a {
			t.Errorf("Parse(%q) = %v, %v", a.String(), got, err)
		}
	}
}
