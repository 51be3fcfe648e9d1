//go:build !linux && !darwin && !windows

package hotkey

import (
	"errors"
	"runtime"
)

var errUnsupported = errors.New("global keyboard hooks are not supported on " + runtime.GOOS)

type unsupported struct{}

func New(_ []string) Listener { return unsupported{} }

func (unsupported) Register(HandlerFunc) error { return errUnsupported }
func (unsupported) Unregister()                {}

func Diagnose() (string, error) {
	return "", errUnsupported
}
