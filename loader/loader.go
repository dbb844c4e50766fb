// Package loader reads a raw firmware image from disk into an MCU's FLASH
// device and writes back the memory ranges an ECALL dump sentinel
// requests.
package loader

import (
	"fmt"
	"os"

	"github.com/rv32mcu/emulator/mcu"
)

// LoadFlash reads the file at path and copies it byte-for-byte into m's
// FLASH region starting at address 0, returning the number of bytes
// copied.
func LoadFlash(m *mcu.MCU, path string) (int, error) {
	image, err := os.ReadFile(path) // #nosec G304 -- user-supplied firmware path
	if err != nil {
		return 0, fmt.Errorf("failed to read flash image %q: %w", path, err)
	}
	if err := m.LoadFlash(image); err != nil {
		return 0, fmt.Errorf("failed to load flash image %q: %w", path, err)
	}
	return len(image), nil
}

// WriteDump writes bytes to a file named "<cycle>.dump" under dir,
// creating dir if it does not yet exist, and returns the path written.
func WriteDump(dir string, cycle uint64, bytes []byte) (string, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return "", fmt.Errorf("failed to create dump directory: %w", err)
	}

	path := fmt.Sprintf("%s/%d.dump", dir, cycle)
	if err := os.WriteFile(path, bytes, 0640); err != nil {
		return "", fmt.Errorf("failed to write dump %q: %w", path, err)
	}
	return path, nil
}
