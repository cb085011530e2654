// Package ui provides stderr-based status output for critpath.
package ui

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/papapumpkin/critpath/internal/ansi"
)

// Printer writes human-oriented status lines. Reports themselves go to
// stdout through the report package; Printer only ever writes to its own
// writer, which is normally stderr.
type Printer struct {
	w   io.Writer
	pal ansi.Palette
}

// NewWriter returns a Printer on w. Colour is used only when color is true.
func NewWriter(w io.Writer, color bool) *Printer {
	return &Printer{w: w, pal: ansi.Palette{Enabled: color}}
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func (p *Printer) Error(msg string) {
	fmt.Fprintf(p.w, "%s%s\n", p.pal.Paint("error: ", ansi.Red, ansi.Bold), msg)
}

func (p *Printer) Warn(msg string) {
	fmt.Fprintf(p.w, "%s%s\n", p.pal.Paint("warning: ", ansi.Yellow, ansi.Bold), msg)
}

func (p *Printer) Info(msg string) {
	fmt.Fprintln(p.w, p.pal.Paint(msg, ansi.Dim))
}

// ValidateResult prints the one-line verdict of the validate command.
func (p *Printer) ValidateResult(file string, taskCount int, err error) {
	if err == nil {
		fmt.Fprintf(p.w, "%s — %d task(s), no errors\n", p.pal.Paint(fmt.Sprintf("✓ %s", file), ansi.Green, ansi.Bold), taskCount)
		return
	}
	fmt.Fprintf(p.w, "%s — %v\n", p.pal.Paint(fmt.Sprintf("✗ %s", file), ansi.Red, ansi.Bold), err)
}

// WatchStarted announces that file is being watched.
func (p *Printer) WatchStarted(file string) {
	fmt.Fprintf(p.w, "%s %s %s\n", p.pal.Paint("◆ watching", ansi.Cyan), file, p.pal.Paint("(ctrl-c to stop)", ansi.Dim))
}

// WatchRerun clears the screen, if colour is enabled, before a new analysis.
func (p *Printer) WatchRerun(file string) {
	fmt.Fprint(p.w, p.pal.Code(ansi.ClearScreen))
	fmt.Fprintf(p.w, "%s %s\n", p.pal.Paint("◆ changed", ansi.Cyan), file)
}
