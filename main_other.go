//go:build !linux

package main

import (
	"runtime"

	"golang.design/x/hotkey/mainthread"
)

func init() {
	runtime.LockOSThread()
}

// x/hotkey registers hotkeys through the OS event loop, which must own the
// main thread on macOS.
func main() {
	mainthread.Init(run)
}
