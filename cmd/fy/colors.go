package main

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// colorEnabled decides whether diagnostics written to w should be
// colorized, honoring --color={auto,always,never} the way terminal
// tooling in the ecosystem gates ANSI output on TTY detection.
func colorEnabled(mode string, w io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
