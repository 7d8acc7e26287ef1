//go:build windows

package utils

import "os"

// TerminateProcess has no graceful signal on Windows; kill directly.
func TerminateProcess(p *os.Process) error {
	return p.Kill()
}

// KillProcess terminates the process immediately.
func KillProcess(p *os.Process) error {
	return p.Kill()
}
