//go:build linux

package main

// evdev needs no main-thread event loop.
func main() {
	run()
}
