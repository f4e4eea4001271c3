package cli

import (
	"os"
	"sync"

	"github.com/mattn/go-isatty"
)

// useColor decides once whether diagnostics get ANSI styling. Styling is
// for humans watching a terminal: piped output stays plain, and the
// NO_COLOR convention (https://no-color.org/) and TERM=dumb both opt out.
var useColor = sync.OnceValue(func() bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
})

func paint(code, s string) string {
	if !useColor() {
		return s
	}
	return "\033[" + code + "m" + s + "\033[0m"
}

func bold(s string) string { return paint("1", s) }
func red(s string) string  { return paint("31", s) }
func dim(s string) string  { return paint("2", s) }
