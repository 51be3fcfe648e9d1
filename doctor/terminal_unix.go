//go:build !windows

package doctor

import "os/exec"

// The grab on Linux can leave the terminal without echo if interrupted.
func resetTerminal() {
	exec.Command("stty", "sane").Run()
}
