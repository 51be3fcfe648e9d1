//go:build darwin

package capture

func platformTools() []Tool {
	return []Tool{{
		Name:       "screencapture",
		Region:     []string{"-i"},
		Fullscreen: []string{"-W"},
		Quiet:      []string{"-x"},
	}}
}
