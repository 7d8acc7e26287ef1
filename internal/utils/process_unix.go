//go:build !windows

package utils

import (
	"os"
	"syscall"
)

// TerminateProcess asks the process to shut down cooperatively.
func TerminateProcess(p *os.Process) error {
	return p.Signal(syscall.SIGTERM)
}

// KillProcess terminates the process immediately.
func KillProcess(p *os.Process) error {
	return p.Kill()
}
