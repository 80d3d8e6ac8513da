package render

import (
	"strings"
	"unicode/utf8"
)

// Style tags a segment for the output sink. Styles stay symbolic here so
// that width computation never sees terminal control sequences; the sink
// decides how (or whether) to encode them.
type Style int

const (
	StyleNone Style = iota
	StyleHeader
	StyleBranch
	StyleDisk
	StylePartition
	StyleVolume
	StyleLoop
	StyleOptical
	StyleMounted
	StyleReadOnly
	StyleMuted
	StyleWarning
)

// Segment is a run of text with one style.
type Segment struct {
	Text  string
	Style Style
}

// Line is one display line as an ordered sequence of styled segments.
// Warning lines carry advisory text rather than tree body.
type Line struct {
	Segments []Segment
	Warning  bool
}

// Plain returns the line's visible text with all styling discarded.
func (l Line) Plain() string {
	var b strings.Builder
	for _, s := range l.Segments {
		b.WriteString(s.Text)
	}
	return b.String()
}

// Width returns the number of visible runes on the line.
func (l Line) Width() int {
	w := 0
	for _, s := range l.Segments {
		w += utf8.RuneCountInString(s.Text)
	}
	return w
}
