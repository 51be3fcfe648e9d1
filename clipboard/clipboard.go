package clipboard

import (
	"fmt"

	cb "github.com/atotto/clipboard"
)

func Read() (string, error) {
	return cb.ReadAll()
}

func Copy(text string) error {
	return cb.WriteAll(text)
}

// Verify writes a marker string, reads it back and restores the previous
// contents.
func Verify() (string, error) {
	prev, _ := cb.ReadAll()
	defer cb.WriteAll(prev)

	const marker = "snipe clipboard check"
	if err := cb.WriteAll(marker); err != nil {
		return "", fmt.Errorf("write: %w", err)
	}
	got, err := cb.ReadAll()
	if err != nil {
		return "", fmt.Errorf("read: %w", err)
	}
	if got != marker {
		return "", fmt.Errorf("read back %q, want %q", got, marker)
	}
	return "clipboard round trip OK", nil
}
