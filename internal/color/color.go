// Package color adds ANSI colouring to console-only diagnostics.
// Report content is never coloured so the console and file copies stay identical.
package color

import (
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// Code is an ANSI SGR parameter.
type Code int

const (
	// NoColor disables colour output when set to any value.
	NoColor = "NO_COLOR"
	// ForceColor enables colour output even when stderr is not a terminal.
	ForceColor = "FORCE_COLOR"

	prefix = "\033["
	suffix = "m"
	reset  = "\033[0m"
)

const (
	Bold   Code = 1
	FgRed  Code = 31
	FgCyan Code = 36
)

var enabled = isColorEnabled()

// Colorize wraps str in the given codes followed by a reset.
func Colorize(str string, codes ...Code) string {
	if !enabled || len(codes) == 0 {
		return str
	}

	sb := strings.Builder{}
	sb.Grow(len(str) + len(prefix) + len(suffix) + len(reset) + 3*len(codes))
	sb.WriteString(prefix)

	for i, code := range codes {
		if i > 0 {
			sb.WriteString(";")
		}

		sb.WriteString(strconv.Itoa(int(code)))
	}

	sb.WriteString(suffix)
	sb.WriteString(str)
	sb.WriteString(reset)

	return sb.String()
}

func isColorEnabled() bool {
	if os.Getenv(NoColor) != "" {
		return false
	}

	if os.Getenv(ForceColor) != "" {
		return true
	}

	return term.IsTerminal(int(os.Stderr.Fd()))
}
