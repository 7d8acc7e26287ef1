package env

import (
	"os"
	"path/filepath"
)

// Version is stamped by the build (-ldflags "-X riverbird-standalone/internal/env.Version=...").
var Version string = "dev"

// RiverbirdDir is where the launcher keeps logs and exported state
// (default: %USERPROFILE%/.riverbird on Windows, $HOME/.riverbird on Linux)
var RiverbirdDir string = GetRiverbirdDir()

/**
 * Get riverbird directory path
 * @returns {string} Returns riverbird directory path
 */
func GetRiverbirdDir() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".riverbird")
}

// StateFile is the exported launcher state snapshot, consumed by the `units`
// commands when the admin API is unreachable.
func StateFile() string {
	return filepath.Join(RiverbirdDir, "state", "standalone.json")
}
