//go:build windows

package instance

import "os"

// On Windows FindProcess opens a handle and fails when the pid is gone.
func processAlive(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	proc.Release()
	return true
}

// Windows has no SIGTERM for console processes; both paths kill.
func terminateProcess(pid int, _ bool) error {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return err
	}
	defer proc.Release()
	return proc.Kill()
}
