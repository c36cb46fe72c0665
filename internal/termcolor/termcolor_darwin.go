//go:build darwin

package termcolor

import (
	"os"

	"golang.org/x/sys/unix"
)

// StderrSupportsColor reports whether stderr is attached to a terminal that
// can render ANSI color escapes.
func StderrSupportsColor() bool {
	_, err := unix.IoctlGetTermios(int(os.Stderr.Fd()), unix.TIOCGETA)
	return err == nil
}
