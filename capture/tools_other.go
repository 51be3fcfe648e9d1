//go:build !darwin && !linux

package capture

func platformTools() []Tool { return nil }
