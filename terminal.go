package main

import (
	"os"

	"golang.org/x/term"
)

// isTerminal reports whether the TUI can take over stdin and stdout.
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}
