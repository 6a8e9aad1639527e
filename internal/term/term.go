// Package term decides whether output should carry ANSI colors.
package term

import (
	"io"
	"os"

	xterm "golang.org/x/term"
)

// Fder is implemented by *os.File.
type Fder interface {
	Fd() uintptr
}

// IsTerminal reports whether w is attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(Fder)
	if !ok {
		return false
	}
	return xterm.IsTerminal(int(f.Fd()))
}

// UseColor resolves a color mode (auto, always, never) for w. In auto
// mode colors are used on terminals unless NO_COLOR is set or TERM is
// "dumb".
func UseColor(mode string, w io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return IsTerminal(w)
}
