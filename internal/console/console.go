// Package console renders the human-readable test report: section headers and
// success/error/info markers, optionally colored with ANSI escape sequences.
package console

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

const (
	green  = "\x1b[32m"
	red    = "\x1b[31m"
	yellow = "\x1b[33m"
	blue   = "\x1b[34m"
	bold   = "\x1b[1m"
	reset  = "\x1b[0m"

	ruleWidth = 60
)

// Color modes accepted by ColorEnabled.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Printer writes report lines to a single writer in call order.
type Printer struct {
	w     io.Writer
	color bool
}

// NewPrinter returns a Printer writing to w.
func NewPrinter(w io.Writer, color bool) *Printer {
	return &Printer{w: w, color: color}
}

// Stdout returns a Printer for the process stdout. On Windows the stream is wrapped so
// ANSI sequences render in legacy consoles.
func Stdout(mode string) *Printer {
	return NewPrinter(colorable.NewColorableStdout(), ColorEnabled(mode, os.Stdout))
}

// ColorEnabled resolves a color mode against the given output file. "auto" enables color
// only for terminals and honours NO_COLOR.
func ColorEnabled(mode string, f *os.File) bool {
	switch strings.ToLower(mode) {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if f == nil {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Header prints a section banner surrounded by blank lines.
func (p *Printer) Header(text string) {
	rule := strings.Repeat("=", ruleWidth)
	fmt.Fprintln(p.w)
	fmt.Fprintln(p.w, p.paint(bold+blue, rule))
	fmt.Fprintln(p.w, p.paint(bold+blue, "  "+text))
	fmt.Fprintln(p.w, p.paint(bold+blue, rule))
	fmt.Fprintln(p.w)
}

// Success prints a green check line.
func (p *Printer) Success(format string, args ...any) {
	fmt.Fprintln(p.w, p.paint(green, "✓ "+fmt.Sprintf(format, args...)))
}

// Error prints a red cross line.
func (p *Printer) Error(format string, args ...any) {
	fmt.Fprintln(p.w, p.paint(red, "✗ "+fmt.Sprintf(format, args...)))
}

// Info prints a yellow arrow line.
func (p *Printer) Info(format string, args ...any) {
	fmt.Fprintln(p.w, p.paint(yellow, "→ "+fmt.Sprintf(format, args...)))
}

// Line prints an uncolored detail line indented under the previous marker.
func (p *Printer) Line(format string, args ...any) {
	fmt.Fprintln(p.w, "   "+fmt.Sprintf(format, args...))
}

// Writer exposes the underlying writer, e.g. for prompts.
func (p *Printer) Writer() io.Writer {
	return p.w
}

func (p *Printer) paint(code, s string) string {
	if !p.color {
		return s
	}
	return code + s + reset
}
