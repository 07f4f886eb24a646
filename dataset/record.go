package dataset

import (
	"fmt"
	"strconv"
	"strings"
)

// Record is one data line of a dataset, tagged with the kind it belongs to.
type Record struct {
	kind  Kind
	cells []string
}

// Row builds a record from raw cells. Numbers are rendered without trailing
// zeros; any other value is rendered with fmt.
func Row(kind Kind, cells ...any) Record {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = cellString(c)
	}
	return Record{kind: kind, cells: out}
}

// Kind returns the kind the record was built for.
func (r Record) Kind() Kind { return r.kind }

// Cells returns a copy of the record's cells.
func (r Record) Cells() []string {
	out := make([]string, len(r.cells))
	copy(out, r.cells)
	return out
}

func cellString(v any) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	case float64:
		return formatNumber(c)
	case float32:
		return formatNumber(float64(c))
	case int:
		return strconv.Itoa(c)
	case int64:
		return strconv.FormatInt(c, 10)
	case uint64:
		return strconv.FormatUint(c, 10)
	case PiePosition:
		return formatNumber(float64(c))
	case fmt.Stringer:
		return c.String()
	default:
		return fmt.Sprint(c)
	}
}

// Pair joins two node IDs into a selector resolved to their last common
// ancestor.
func Pair(a, b string) string {
	return a + "|" + b
}

// Color colors a label, clade, branch or range. Target picks which, and
// with it the dataset the record belongs to.
type Color struct {
	Selector string
	Target   Kind
	Color    string

	// Style and Width apply to label, clade and branch. A style without a
	// width gets width 1; a width without a style gets style "normal".
	Style string
	Width float64

	// Group is the legend label of a range.
	Group string
}

// Record converts c into a dataset record.
func (c Color) Record() Record {
	cells := []string{c.Selector, string(c.Target), c.Color}
	switch {
	case c.Target == KindRange:
		cells = append(cells, c.Group)
	case c.Style != "" || c.Width != 0:
		style, width := c.Style, c.Width
		if style == "" {
			style = "normal"
		}
		if width == 0 {
			width = 1
		}
		cells = append(cells, style, formatNumber(width))
	}
	return Record{kind: c.Target, cells: cells}
}

// Label colors the label of node.
func Label(node, color string) Record {
	return Color{Selector: node, Target: KindLabel, Color: color}.Record()
}

// Clade colors the clade below the last common ancestor of a and b.
func Clade(a, b, color string) Record {
	return Color{Selector: Pair(a, b), Target: KindClade, Color: color}.Record()
}

// Branch colors the branches of the clade below the last common ancestor
// of a and b.
func Branch(a, b, color string) Record {
	return Color{Selector: Pair(a, b), Target: KindBranch, Color: color}.Record()
}

// Range shades the clade below the last common ancestor of a and b, listed
// under group in the legend.
func Range(a, b, color, group string) Record {
	return Color{Selector: Pair(a, b), Target: KindRange, Color: color, Group: group}.Record()
}

// PiePosition places a pie chart or image along its branch: 0 at the start,
// 1 at the end. PieExternal draws it outside the tree; the "auto" cell token
// (PositionAuto) means the same.
type PiePosition float64

const PieExternal PiePosition = -1

// DefaultPieRadius is used when Pie.Radius is zero.
const DefaultPieRadius = 10

// Pie is a pie chart drawn on a node.
type Pie struct {
	Node     string
	Position PiePosition
	Radius   float64
	Slices   []float64
}

// Record converts p into a dataset record.
func (p Pie) Record() Record {
	radius := p.Radius
	if radius == 0 {
		radius = DefaultPieRadius
	}
	cells := make([]string, 0, 3+len(p.Slices))
	cells = append(cells, p.Node, formatNumber(float64(p.Position)), formatNumber(radius))
	for _, s := range p.Slices {
		cells = append(cells, formatNumber(s))
	}
	return Record{kind: KindPie, cells: cells}
}

// Point is one vertex of a line chart.
type Point struct {
	X, Y float64
}

func (p Point) String() string {
	return formatNumber(p.X) + "|" + formatNumber(p.Y)
}

// Line is a line chart drawn next to a node. iTOL needs at least two points.
type Line struct {
	Node   string
	Points []Point
}

// Record converts l into a dataset record.
func (l Line) Record() Record {
	cells := make([]string, 0, 1+len(l.Points))
	cells = append(cells, l.Node)
	for _, p := range l.Points {
		cells = append(cells, p.String())
	}
	return Record{kind: KindLineChart, cells: cells}
}

// Image places a picture on a node. Size is a scale factor; zero means 1.
type Image struct {
	Node     string
	Position PiePosition
	Size     float64
	Rotation float64
	ShiftX   float64
	ShiftY   float64
	URL      string
}

// Record converts i into a dataset record.
func (i Image) Record() Record {
	size := i.Size
	if size == 0 {
		size = 1
	}
	return Record{kind: KindImage, cells: []string{
		i.Node,
		formatNumber(float64(i.Position)),
		formatNumber(size),
		formatNumber(i.Rotation),
		formatNumber(i.ShiftX),
		formatNumber(i.ShiftY),
		i.URL,
	}}
}

// Sequence is one aligned sequence of an alignment dataset.
func Sequence(id, residues string) Record {
	return Record{kind: KindAlignment, cells: []string{id, residues}}
}

func (r Record) String() string {
	return string(r.kind) + ":" + strings.Join(r.cells, ",")
}
