// Package term detects terminals and applies ANSI colors to output.
package term

import (
	"os"
)

// IsTerminal reports whether fd refers to a terminal.
func IsTerminal(fd uintptr) bool {
	return isTerminal(fd)
}

// IsTerminalFile reports whether f is attached to a terminal.
func IsTerminalFile(f *os.File) bool {
	if f == nil {
		return false
	}
	return isTerminal(f.Fd())
}

// ShouldColor resolves a color mode ("auto", "always" or "never") for f.
func ShouldColor(mode string, f *os.File) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default:
		return IsTerminalFile(f)
	}
}

// ANSI escape sequences.
const (
	reset       = "\033[0m"
	bold        = "\033[1m"
	red         = "\033[91m"
	green       = "\033[92m"
	yellow      = "\033[93m"
	cyan        = "\033[96m"
	clearScreen = "\033[2J\033[H"
)

// Colorizer wraps text in ANSI colors when enabled.
type Colorizer struct {
	Enabled bool
}

func (c Colorizer) wrap(code, s string) string {
	if !c.Enabled || s == "" {
		return s
	}
	return code + s + reset
}

func (c Colorizer) Red(s string) string    { return c.wrap(red, s) }
func (c Colorizer) Green(s string) string  { return c.wrap(green, s) }
func (c Colorizer) Yellow(s string) string { return c.wrap(yellow, s) }
func (c Colorizer) Cyan(s string) string   { return c.wrap(cyan, s) }
func (c Colorizer) Bold(s string) string   { return c.wrap(bold, s) }

// ClearScreen returns the sequence that clears the terminal, or "" when
// colors are disabled.
func (c Colorizer) ClearScreen() string {
	if !c.Enabled {
		return ""
	}
	return clearScreen
}
