package eval

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/josephlewis42/elvi/core/status"
	"golang.org/x/term"
)

const (
	ColorAlways = "always"
	ColorAuto   = "auto"
	ColorNever  = "never"
)

// ColorModes lists the accepted values of Shell.Color.
var ColorModes = []string{ColorAlways, ColorAuto, ColorNever}

var errorColor = color.New(color.FgRed, color.Bold)

func init() {
	// Whether to color is decided per stream by ShouldColor.
	errorColor.EnableColor()
}

// ShouldColor reports whether diagnostics written to w get colored.
func ShouldColor(mode string, w io.Writer) bool {
	switch mode {
	case ColorNever:
		return false
	case ColorAlways:
		return true
	default:
		f, ok := w.(interface{ Fd() uintptr })
		return ok && term.IsTerminal(int(f.Fd()))
	}
}

// report prints a diagnostic and returns the status it implies.
func (s *Shell) report(err error) status.Status {
	msg := fmt.Sprintf("%s: %v", s.Prefix, err)
	if ShouldColor(s.Color, s.Stderr) {
		msg = errorColor.Sprint(msg)
	}
	fmt.Fprintln(s.Stderr, msg)
	return status.Of(err)
}
