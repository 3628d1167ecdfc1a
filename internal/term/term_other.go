//go:build !linux && !darwin && !freebsd && !netbsd && !openbsd
// +build !linux,!darwin,!freebsd,!netbsd,!openbsd

package term

// TODO: use GetConsoleMode from golang.org/x/sys/windows once the module is
// required; until then colors need color: always on Windows.
func isTerminal(fd uintptr) bool {
	return false
}
