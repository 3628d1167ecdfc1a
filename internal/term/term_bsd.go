//go:build darwin || freebsd || netbsd || openbsd
// +build darwin freebsd netbsd openbsd

package term

import "golang.org/x/sys/unix"

func isTerminal(fd uintptr) bool {
	_, err := unix.IoctlGetTermios(int(fd), unix.TIOCGETA)
	return err == nil
}
