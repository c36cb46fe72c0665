//go:build linux

package termcolor

import (
	"os"

	"golang.org/x/sys/unix"
)

// StderrSupportsColor reports whether stderr is attached to a terminal that
// can render ANSI color escapes, detected the same way a shell checks
// isatty: an ioctl that only succeeds against a real tty device.
func StderrSupportsColor() bool {
	_, err := unix.IoctlGetTermios(int(os.Stderr.Fd()), unix.TCGETS)
	return err == nil
}
