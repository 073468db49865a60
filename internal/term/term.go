// Package term holds the ANSI color state shared by logging and the CLI.
//
// The color values are plain strings so callers can concatenate them
// unconditionally; they are empty while colors are off.
package term

import (
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/backmassage/sampleclean/internal/config"
)

// Level colors and the reset sequence. Empty when colors are disabled.
var (
	Red     string
	Green   string
	Yellow  string
	Blue    string
	Cyan    string
	Magenta string
	NC      string
)

func sgr(code string) string { return "\033[" + code + "m" }

// Configure enables or clears the colors for mode and reports whether they
// ended up enabled. It is called once at startup, before any output.
func Configure(mode config.ColorMode) bool {
	on := resolve(mode, os.Stdout)
	set := func(code string) string {
		if !on {
			return ""
		}
		return sgr(code)
	}
	Red, Green, Yellow = set("1;91"), set("1;92"), set("1;93")
	Blue, Magenta, Cyan = set("1;94"), set("1;95"), set("1;96")
	NC = set("0")
	return on
}

// Enabled reports whether colors are active.
func Enabled() bool { return NC != "" }

// resolve applies mode. In auto mode colors follow the terminal unless
// NO_COLOR is set (https://no-color.org) or TERM is "dumb".
func resolve(mode config.ColorMode, out *os.File) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	if os.Getenv("NO_COLOR") != "" || strings.EqualFold(os.Getenv("TERM"), "dumb") {
		return false
	}
	return IsTerminal(out)
}

// IsTerminal reports whether f is a TTY, counting Cygwin and MSYS ptys.
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
