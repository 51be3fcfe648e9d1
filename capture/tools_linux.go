//go:build linux

package capture

// Tried in order; maim covers X11, the others ship with GNOME and KDE.
func platformTools() []Tool {
	return []Tool{
		{Name: "maim", Region: []string{"-s"}},
		{Name: "gnome-screenshot", Region: []string{"-a", "-f"}, Fullscreen: []string{"-f"}},
		{Name: "spectacle", Region: []string{"-r", "-b", "-n", "-o"}, Fullscreen: []string{"-f", "-b", "-n", "-o"}},
	}
}
