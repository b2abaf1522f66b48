package utils

import (
	"os"
	"path/filepath"
	"strings"
)

// DefaultName is used when the executable path cannot be resolved
const DefaultName = "camel-touch"

// ExecutableName returns the base name of the running binary without a
// .exe suffix
func ExecutableName() string {
	executable, err := os.Executable()
	if err != nil {
		return DefaultName
	}
	return strings.TrimSuffix(filepath.Base(executable), ".exe")
}
