package ui

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// Banner printed when a listener starts in the foreground
const Banner = `
  ╔════════════════════════════════╗
  ║  IGRELAY :: INSTAGRAM RELAY    ║
  ╚════════════════════════════════╝
`

// Printer writes colored status lines for the CLI
type Printer struct {
	out   io.Writer
	color bool
}

// NewPrinter creates a Printer; color is only used when out is a terminal
func NewPrinter(out io.Writer, noColor bool) *Printer {
	color := false
	if f, ok := out.(*os.File); ok && !noColor {
		color = term.IsTerminal(int(f.Fd()))
	}
	return &Printer{out: out, color: color}
}

// Stdout is the default printer
var Stdout = NewPrinter(os.Stdout, false)

const (
	cyan    = "\033[36m%s\033[0m"
	yellow  = "\033[33m%s\033[0m"
	red     = "\033[31m%s\033[0m"
	green   = "\033[32m%s\033[0m"
	magenta = "\033[35m%s\033[0m"
)

func (p *Printer) paint(format, text string) string {
	if !p.color {
		return text
	}
	return fmt.Sprintf(format, text)
}

// Logo prints the banner
func (p *Printer) Logo() {
	fmt.Fprint(p.out, p.paint(cyan, Banner))
}

// Error prints an error message in red, with an optional detail
func (p *Printer) Error(msg string, detail ...interface{}) {
	if len(detail) > 0 && fmt.Sprint(detail[0]) != "" {
		msg = msg + ": " + fmt.Sprint(detail[0])
	}
	fmt.Fprintln(p.out, p.paint(red, msg))
}

// Warning prints a warning message in yellow, with an optional detail
func (p *Printer) Warning(msg string, detail ...interface{}) {
	if len(detail) > 0 && fmt.Sprint(detail[0]) != "" {
		msg = msg + ": " + fmt.Sprint(detail[0])
	}
	fmt.Fprintln(p.out, p.paint(yellow, msg))
}

// Success prints a success message in green
func (p *Printer) Success(msg string) {
	fmt.Fprintln(p.out, p.paint(green, msg))
}

// Info prints a label/value pair
func (p *Printer) Info(label, value string) {
	fmt.Fprintf(p.out, "%s: %s\n", p.paint(cyan, label), p.paint(yellow, value))
}

// Highlight prints a highlighted message in magenta
func (p *Printer) Highlight(msg string) {
	fmt.Fprintln(p.out, p.paint(magenta, msg))
}
