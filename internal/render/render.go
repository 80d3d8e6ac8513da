package render

import (
	"strings"
	"unicode/utf8"

	"github.com/blktree/blktree/internal/device"
	"github.com/blktree/blktree/internal/hierarchy"
)

// Column identifies one displayed field.
type Column int

const (
	ColName Column = iota
	ColSize
	ColUsed
	ColFSType
	ColMount
	ColModel
)

var columnTitles = map[Column]string{
	ColName:   "NAME",
	ColSize:   "SIZE",
	ColUsed:   "USED",
	ColFSType: "FSTYPE",
	ColMount:  "MOUNTPOINT",
	ColModel:  "MODEL",
}

// ColumnByName resolves a column title (case-insensitive) to its Column.
func ColumnByName(name string) (Column, bool) {
	for c, t := range columnTitles {
		if strings.EqualFold(name, t) {
			return c, true
		}
	}
	return 0, false
}

// DefaultColumns is the column set shown when none is configured.
var DefaultColumns = []Column{ColName, ColSize, ColUsed, ColFSType, ColMount, ColModel}

// Options control the rendered layout.
type Options struct {
	Columns []Column
	Header  bool
}

// DefaultOptions returns the standard layout: all default columns plus a
// header row.
func DefaultOptions() Options {
	return Options{Columns: DefaultColumns, Header: true}
}

const (
	glyphTee      = "├─ "
	glyphElbow    = "└─ "
	glyphPipe     = "│  "
	glyphBlank    = "   "
	placeholder   = "-"
	columnSpacing = " "
)

// Render walks the forest and produces the complete ordered line sequence:
// optional header, one line per node in pre-order, then one line per
// warning. Column widths are computed in a first measurement pass across
// the whole forest so that every field starts at the same offset on every
// line, independent of tree depth.
func Render(f *hierarchy.Forest, warnings []hierarchy.Warning, opts Options) []Line {
	if len(opts.Columns) == 0 {
		opts.Columns = DefaultColumns
	}

	widths := measure(f, opts)

	var lines []Line
	if opts.Header {
		lines = append(lines, headerLine(opts.Columns, widths))
	}
	emit(f, opts, widths, &lines)
	for _, w := range warnings {
		lines = append(lines, Line{
			Warning: true,
			Segments: []Segment{
				{Text: "warning: ", Style: StyleWarning},
				{Text: w.String(), Style: StyleWarning},
			},
		})
	}
	return lines
}

// measure is pass 1: the per-column maximum visible width over the header
// and every node, with the branch prefix folded into the NAME column.
func measure(f *hierarchy.Forest, opts Options) map[Column]int {
	widths := make(map[Column]int, len(opts.Columns))
	if opts.Header {
		for _, c := range opts.Columns {
			widths[c] = utf8.RuneCountInString(columnTitles[c])
		}
	}
	f.Walk(func(n *hierarchy.Node, depth int) {
		for _, c := range opts.Columns {
			w := utf8.RuneCountInString(cellText(&n.Record, c))
			if c == ColName {
				w += depth * utf8.RuneCountInString(glyphTee)
			}
			if w > widths[c] {
				widths[c] = w
			}
		}
	})
	return widths
}

// emit is pass 2: one line per node, pre-order. lastStack tracks, per
// ancestor level, whether that ancestor was the last among its siblings,
// which decides between a vertical continuation and a blank at that level.
func emit(f *hierarchy.Forest, opts Options, widths map[Column]int, lines *[]Line) {
	var walk func(n *hierarchy.Node, lastStack []bool)
	walk = func(n *hierarchy.Node, lastStack []bool) {
		*lines = append(*lines, nodeLine(n, lastStack, opts, widths))
		for i, c := range n.Children {
			walk(c, append(lastStack, i == len(n.Children)-1))
		}
	}
	for _, root := range f.Roots {
		walk(root, nil)
	}
}

func headerLine(cols []Column, widths map[Column]int) Line {
	var segs []Segment
	for i, c := range cols {
		title := pad(columnTitles[c], widths[c], c)
		if i == len(cols)-1 {
			title = strings.TrimRight(title, " ")
		}
		segs = append(segs, Segment{Text: title, Style: StyleHeader})
		if i < len(cols)-1 {
			segs = append(segs, Segment{Text: columnSpacing, Style: StyleNone})
		}
	}
	return Line{Segments: segs}
}

func nodeLine(n *hierarchy.Node, lastStack []bool, opts Options, widths map[Column]int) Line {
	r := &n.Record
	var segs []Segment

	for i, c := range opts.Columns {
		switch c {
		case ColName:
			prefix := branchPrefix(lastStack)
			if prefix != "" {
				segs = append(segs, Segment{Text: prefix, Style: StyleBranch})
			}
			text := r.Name
			fill := widths[c] - utf8.RuneCountInString(prefix) - utf8.RuneCountInString(text)
			segs = append(segs, Segment{Text: text, Style: kindStyle(r.Kind)})
			if fill > 0 && i < len(opts.Columns)-1 {
				segs = append(segs, Segment{Text: strings.Repeat(" ", fill), Style: StyleNone})
			}
		default:
			text := cellText(r, c)
			style := cellStyle(r, c, text)
			padded := pad(text, widths[c], c)
			if i == len(opts.Columns)-1 {
				padded = strings.TrimRight(padded, " ")
			}
			segs = append(segs, Segment{Text: padded, Style: style})
		}
		if i < len(opts.Columns)-1 {
			segs = append(segs, Segment{Text: columnSpacing, Style: StyleNone})
		}
	}
	return Line{Segments: segs}
}

// branchPrefix draws the connector glyphs for a node: continuations or
// blanks for each ancestor level, then a tee for an intermediate sibling or
// an elbow for the last one. Roots carry no prefix.
func branchPrefix(lastStack []bool) string {
	if len(lastStack) == 0 {
		return ""
	}
	var b strings.Builder
	for _, last := range lastStack[:len(lastStack)-1] {
		if last {
			b.WriteString(glyphBlank)
		} else {
			b.WriteString(glyphPipe)
		}
	}
	if lastStack[len(lastStack)-1] {
		b.WriteString(glyphElbow)
	} else {
		b.WriteString(glyphTee)
	}
	return b.String()
}

func cellText(r *device.Record, c Column) string {
	switch c {
	case ColName:
		return r.Name
	case ColSize:
		return FormatSize(r.SizeBytes)
	case ColUsed:
		if r.UsedBytes == nil {
			return placeholder
		}
		return FormatSize(*r.UsedBytes)
	case ColFSType:
		return orPlaceholder(r.FSType)
	case ColMount:
		return orPlaceholder(r.Mountpoint)
	case ColModel:
		return orPlaceholder(r.Display())
	default:
		return placeholder
	}
}

func cellStyle(r *device.Record, c Column, text string) Style {
	if text == placeholder {
		return StyleMuted
	}
	switch c {
	case ColSize:
		if r.ReadOnly {
			return StyleReadOnly
		}
		return StyleNone
	case ColMount:
		return StyleMounted
	case ColModel:
		return StyleMuted
	default:
		return StyleNone
	}
}

func kindStyle(k device.Kind) Style {
	switch k {
	case device.Disk:
		return StyleDisk
	case device.Partition:
		return StylePartition
	case device.LogicalVolume:
		return StyleVolume
	case device.LoopDevice:
		return StyleLoop
	case device.OpticalDrive:
		return StyleOptical
	default:
		return StyleNone
	}
}

// pad aligns a cell to its column width: sizes are right-aligned, text
// columns left-aligned.
func pad(text string, width int, c Column) string {
	fill := width - utf8.RuneCountInString(text)
	if fill <= 0 {
		return text
	}
	if c == ColSize || c == ColUsed {
		return strings.Repeat(" ", fill) + text
	}
	return text + strings.Repeat(" ", fill)
}

func orPlaceholder(s string) string {
	if s == "" {
		return placeholder
	}
	return s
}
