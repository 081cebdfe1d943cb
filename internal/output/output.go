// Package output renders command results for people and for scripts.
//
// On a terminal results are shown as colored key/value views and tables
// with "(none)" for empty values. Otherwise every record is a single line of
// tab separated values with no headers; the column order is stable and new
// columns are only ever appended.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// None is shown on a terminal in place of an empty value.
const None = "(none)"

// Printer writes command output.
type Printer struct {
	out     io.Writer
	errOut  io.Writer
	tty     bool
	noColor bool
}

// Options configures a Printer.
type Options struct {
	// TTY selects the human layout.
	TTY bool
	// NoColor disables ANSI colors in the human layout.
	NoColor bool
	// ErrOut receives warnings; defaults to os.Stderr.
	ErrOut io.Writer
}

// New creates a printer writing to out.
func New(out io.Writer, opts Options) *Printer {
	p := &Printer{out: out, errOut: opts.ErrOut, tty: opts.TTY, noColor: opts.NoColor}
	if p.errOut == nil {
		p.errOut = os.Stderr
	}
	return p
}

// IsTerminal reports whether f is an interactive terminal.
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// TTY reports whether the human layout is in use.
func (p *Printer) TTY() bool {
	return p.tty
}

// Field is one labelled value of a record.
type Field struct {
	Label string
	Value string
}

// Record renders a single record.
func (p *Printer) Record(fields []Field) {
	if !p.tty {
		values := make([]string, len(fields))
		for i, f := range fields {
			values[i] = sanitize(f.Value)
		}
		fmt.Fprintln(p.out, strings.Join(values, "\t"))
		return
	}

	width := 0
	for _, f := range fields {
		if len(f.Label) > width {
			width = len(f.Label)
		}
	}
	label := p.color(color.Bold, color.FgCyan)
	for _, f := range fields {
		label.Fprint(p.out, padRight(f.Label+":", width+1))
		fmt.Fprintln(p.out, " "+indent(orNone(f.Value), width+2))
	}
}

// Table renders a list of records.
func (p *Printer) Table(headers []string, rows [][]string) {
	if !p.tty {
		for _, row := range rows {
			values := make([]string, len(row))
			for i, v := range row {
				values[i] = sanitize(v)
			}
			fmt.Fprintln(p.out, strings.Join(values, "\t"))
		}
		return
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(orNone(cell)) > widths[i] {
				widths[i] = len(orNone(cell))
			}
		}
	}

	bold := p.color(color.Bold, color.FgCyan)
	for i, h := range headers {
		bold.Fprint(p.out, padRight(h, widths[i]))
		if i < len(headers)-1 {
			fmt.Fprint(p.out, "  ")
		}
	}
	fmt.Fprintln(p.out)

	gray := p.color(color.FgHiBlack)
	for i, w := range widths {
		gray.Fprint(p.out, strings.Repeat("─", w))
		if i < len(widths)-1 {
			gray.Fprint(p.out, "  ")
		}
	}
	fmt.Fprintln(p.out)

	for _, row := range rows {
		cells := make([]string, 0, len(widths))
		for i := range widths {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			cells = append(cells, padRight(orNone(cell), widths[i]))
		}
		fmt.Fprintln(p.out, strings.TrimRight(strings.Join(cells, "  "), " "))
	}
}

// Blank separates sections on a terminal. Machine output has no separators.
func (p *Printer) Blank() {
	if p.tty {
		fmt.Fprintln(p.out)
	}
}

// Warn prints a warning to the error stream.
func (p *Printer) Warn(format string, args ...any) {
	yellow := p.color(color.FgYellow)
	yellow.Fprintf(p.errOut, "WARN: "+format+"\n", args...)
}

// Highlight colors a command or value for inline use in messages.
func (p *Printer) Highlight(s string) string {
	return p.color(color.FgYellow).Sprint(s)
}

func (p *Printer) color(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if p.noColor || !p.tty {
		c.DisableColor()
	} else {
		c.EnableColor()
	}
	return c
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return None
	}
	return s
}

// sanitize keeps a machine value on one line and in one column.
func sanitize(s string) string {
	return strings.NewReplacer("\t", " ", "\r\n", " ", "\n", " ").Replace(s)
}

func indent(s string, n int) string {
	return strings.ReplaceAll(s, "\n", "\n"+strings.Repeat(" ", n))
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
