package stats

import (
	"io"
	"os"

	"golang.org/x/term"
)

const (
	colorReset          = "\x1b[0m"
	colorGreen          = "\x1b[32m"
	colorRed            = "\x1b[31m"
	terminalWidthBackup = 80
)

// TerminalWidth returns the stdout width, or 80 when it is not a terminal.
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

// ShouldUseColor reports whether ANSI colour should be written to w.
// NO_COLOR always wins over force.
func ShouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

func paint(s, code string, useColor bool) string {
	if !useColor || code == "" {
		return s
	}
	return code + s + colorReset
}
