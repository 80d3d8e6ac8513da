// Package termout writes rendered lines to a terminal, deciding whether to
// encode style tags as ANSI color and clamping lines to the terminal width.
package termout

import (
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"golang.org/x/term"

	"github.com/blktree/blktree/internal/render"
)

// ColorMode controls color encoding.
type ColorMode int

const (
	ColorAuto ColorMode = iota
	ColorAlways
	ColorNever
)

// ParseColorMode maps the --color flag value to a ColorMode.
func ParseColorMode(s string) (ColorMode, error) {
	switch s {
	case "", "auto":
		return ColorAuto, nil
	case "always":
		return ColorAlways, nil
	case "never":
		return ColorNever, nil
	}
	return ColorAuto, fmt.Errorf("invalid color mode %q (want auto, always or never)", s)
}

// Printer is the output sink for rendered lines.
type Printer struct {
	w      io.Writer
	color  bool
	width  int
	styles map[render.Style]*color.Color
}

// New builds a printer for w. In auto mode color is enabled only when w is
// a terminal and NO_COLOR is unset; line clamping applies only when the
// terminal width is known.
func New(w io.Writer, mode ColorMode) *Printer {
	p := &Printer{w: w}

	tty := false
	if f, ok := w.(*os.File); ok {
		tty = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		if tty {
			if cols, _, err := term.GetSize(int(f.Fd())); err == nil && cols > 0 {
				p.width = cols
			}
		}
	}

	switch mode {
	case ColorAlways:
		p.color = true
	case ColorNever:
		p.color = false
	default:
		p.color = tty && os.Getenv("NO_COLOR") == ""
	}

	if p.color {
		p.styles = styleTable()
	}
	return p
}

// styleTable maps symbolic styles to concrete colors. Each color object is
// force-enabled so the printer's own decision wins over the package-global
// tty sniffing.
func styleTable() map[render.Style]*color.Color {
	m := map[render.Style]*color.Color{
		render.StyleHeader:   color.New(color.Bold),
		render.StyleBranch:   color.New(color.FgHiBlack),
		render.StyleDisk:     color.New(color.Bold),
		render.StyleVolume:   color.New(color.FgCyan),
		render.StyleLoop:     color.New(color.FgMagenta),
		render.StyleOptical:  color.New(color.FgYellow),
		render.StyleMounted:  color.New(color.FgGreen),
		render.StyleReadOnly: color.New(color.FgRed),
		render.StyleMuted:    color.New(color.Faint),
		render.StyleWarning:  color.New(color.FgYellow),
	}
	for _, c := range m {
		c.EnableColor()
	}
	return m
}

// Print writes the lines in order, one per line. Styling never affects
// alignment: padding was computed on visible text, and clamping counts
// visible runes only.
func (p *Printer) Print(lines []render.Line) error {
	for _, line := range lines {
		if err := p.printLine(line); err != nil {
			return err
		}
	}
	return nil
}

func (p *Printer) printLine(line render.Line) error {
	remaining := p.width
	for _, seg := range line.Segments {
		text := seg.Text
		if p.width > 0 {
			n := utf8.RuneCountInString(text)
			if n > remaining {
				text = truncateRunes(text, remaining)
				n = remaining
			}
			remaining -= n
		}
		if text == "" {
			continue
		}
		if c, ok := p.styles[seg.Style]; ok {
			text = c.Sprint(text)
		}
		if _, err := fmt.Fprint(p.w, text); err != nil {
			return err
		}
		if p.width > 0 && remaining == 0 {
			break
		}
	}
	_, err := fmt.Fprintln(p.w)
	return err
}

func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
