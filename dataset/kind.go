package dataset

import (
	"fmt"
	"strings"

	"github.com/sagarc03/itol"
)

// Kind names a dataset type.
type Kind string

const (
	KindLabel         Kind = "label"
	KindClade         Kind = "clade"
	KindBranch        Kind = "branch"
	KindRange         Kind = "range"
	KindColors        Kind = "colors"
	KindPie           Kind = "pie"
	KindLabels        Kind = "labels"
	KindPopup         Kind = "popup"
	KindSimpleBar     Kind = "simplebar"
	KindMultiBar      Kind = "multibar"
	KindColorStrip    Kind = "colorstrip"
	KindGradient      Kind = "gradient"
	KindHeatmap       Kind = "heatmap"
	KindBinary        Kind = "binary"
	KindText          Kind = "text"
	KindConnection    Kind = "connection"
	KindBoxplot       Kind = "boxplot"
	KindDomains       Kind = "domains"
	KindExternalShape Kind = "externalshape"
	KindSymbol        Kind = "symbol"
	KindLineChart     Kind = "linechart"
	KindImage         Kind = "image"
	KindAlignment     Kind = "alignment"
)

// legend selects which FIELD_* setting lines a kind carries.
type legend int

const (
	legendNone legend = iota
	legendColors
	legendLabels
	legendShapes
)

// Schema describes the row layout of one kind.
type Schema struct {
	Kind   Kind
	Header string

	// Fields are the leading cells. Optional fields may only appear at the
	// end and only when Variadic is nil.
	Fields []Field

	// Variadic is the repeated tail, MinVariadic its minimum length.
	Variadic    *Field
	MinVariadic int

	// Uniform requires every record in one dataset to carry the same number
	// of tail values.
	Uniform bool

	// Settings reports whether DATASET_LABEL and COLOR lines are written.
	Settings bool

	// Defaults are setting lines written unless Options.Settings sets the
	// same key.
	Defaults [][]string

	legend legend

	// fasta writes each record as a ">id" line followed by its sequence.
	fasta bool
}

// Usage describes the row layout, e.g. "node, label, color, [label-style], [width]".
func (s *Schema) Usage() string {
	if s.Kind == KindColors {
		parts := make([]string, 0, len(colorKinds))
		for _, k := range colorKinds {
			parts = append(parts, schemas[k].Usage())
		}
		return strings.Join(parts, " | ")
	}

	parts := make([]string, 0, len(s.Fields)+1)
	for _, f := range s.Fields {
		name := f.Name
		if f.Type == FieldLiteral {
			name = f.Literal
		}
		if f.Optional {
			name = "[" + name + "]"
		}
		parts = append(parts, name)
	}
	if s.Variadic != nil {
		suffix := "..."
		if s.MinVariadic == 0 {
			suffix = "*"
		}
		parts = append(parts, s.Variadic.Name+suffix)
	}
	return strings.Join(parts, ", ")
}

func (s *Schema) required() int {
	n := 0
	for _, f := range s.Fields {
		if !f.Optional {
			n++
		}
	}
	return n
}

var (
	node        = Field{Name: "node", Type: FieldNode}
	nodePair    = Field{Name: "nodes", Type: FieldNodePair}
	selector    = Field{Name: "node", Type: FieldSelector}
	color       = Field{Name: "color", Type: FieldColor}
	labelStyle  = Field{Name: "label-style", Type: FieldLabelStyle, Optional: true}
	lineStyle   = Field{Name: "line-style", Type: FieldLineStyle, Optional: true}
	lineWidth   = Field{Name: "width", Type: FieldPositive, Optional: true}
	optText     = Field{Name: "text", Type: FieldText, Optional: true}
	numberValue = Field{Name: "value", Type: FieldNumber}
)

func literal(k Kind) Field {
	return Field{Name: "type", Type: FieldLiteral, Literal: string(k)}
}

// alignmentColors is the residue color scheme written for alignments.
var alignmentColors = []string{
	"CUSTOM_COLOR_SCHEME", "COLOR_SCHEME",
	"A=#d2d0c9", "M=#d2d0c9", "I=#d2d0c9", "L=#d2d0c9", "V=#d2d0c9",
	"P=#746f69", "G=#746f69", "C=#746f69",
	"F=#d0ad16", "Y=#d0ad16", "W=#d0ad16",
	"S=#34acfb", "T=#34acfb", "N=#34acfb", "Q=#34acfb",
	"R=#34fb54", "K=#34fb54", "H=#34fb54",
	"D=#fb4034", "E=#fb4034",
}

var colorKinds = []Kind{KindLabel, KindClade, KindBranch, KindRange}

var schemas = map[Kind]*Schema{
	KindLabel: {
		Kind: KindLabel, Header: "DATASET_LABEL", Settings: true,
		Fields: []Field{node, literal(KindLabel), color, labelStyle, lineWidth},
	},
	KindClade: {
		Kind: KindClade, Header: "DATASET_CLADE", Settings: true,
		Fields: []Field{nodePair, literal(KindClade), color, lineStyle, lineWidth},
	},
	KindBranch: {
		Kind: KindBranch, Header: "DATASET_BRANCH", Settings: true,
		Fields: []Field{nodePair, literal(KindBranch), color, lineStyle, lineWidth},
	},
	KindRange: {
		Kind: KindRange, Header: "DATASET_RANGE", Settings: true,
		Fields: []Field{nodePair, literal(KindRange), color, {Name: "group", Type: FieldText}},
	},
	KindColors: {
		Kind: KindColors, Header: "TREE_COLORS",
	},
	KindPie: {
		Kind: KindPie, Header: "DATASET_PIECHART", Settings: true, legend: legendColors,
		Fields: []Field{
			node,
			{Name: "position", Type: FieldPosition},
			{Name: "radius", Type: FieldPositive},
		},
		Variadic:    &Field{Name: "slice", Type: FieldNonNegative},
		MinVariadic: 1,
		Uniform:     true,
	},
	KindLabels: {
		Kind: KindLabels, Header: "LABELS",
		Fields: []Field{selector, {Name: "label", Type: FieldText}},
	},
	KindPopup: {
		Kind: KindPopup, Header: "POPUP_INFO",
		Fields: []Field{selector, {Name: "title", Type: FieldText}, {Name: "content", Type: FieldText}},
	},
	KindSimpleBar: {
		Kind: KindSimpleBar, Header: "DATASET_SIMPLEBAR", Settings: true,
		Fields: []Field{selector, numberValue},
	},
	KindMultiBar: {
		Kind: KindMultiBar, Header: "DATASET_MULTIBAR", Settings: true, legend: legendColors,
		Fields:      []Field{selector},
		Variadic:    &Field{Name: "value", Type: FieldNumber},
		MinVariadic: 1,
		Uniform:     true,
	},
	KindColorStrip: {
		Kind: KindColorStrip, Header: "DATASET_COLORSTRIP", Settings: true,
		Fields: []Field{selector, color, optText},
	},
	KindGradient: {
		Kind: KindGradient, Header: "DATASET_GRADIENT", Settings: true,
		Fields: []Field{selector, numberValue},
	},
	KindHeatmap: {
		Kind: KindHeatmap, Header: "DATASET_HEATMAP", Settings: true, legend: legendLabels,
		Fields:      []Field{selector},
		Variadic:    &Field{Name: "value", Type: FieldHeat},
		MinVariadic: 1,
		Uniform:     true,
	},
	KindBinary: {
		Kind: KindBinary, Header: "DATASET_BINARY", Settings: true, legend: legendShapes,
		Fields:      []Field{selector},
		Variadic:    &Field{Name: "state", Type: FieldBinary},
		MinVariadic: 1,
		Uniform:     true,
	},
	KindText: {
		Kind: KindText, Header: "DATASET_TEXT", Settings: true,
		Fields: []Field{
			selector,
			{Name: "label", Type: FieldText},
			{Name: "position", Type: FieldNumber, Optional: true},
			{Name: "color", Type: FieldColor, Optional: true},
			labelStyle,
			{Name: "size", Type: FieldPositive, Optional: true},
			{Name: "rotation", Type: FieldNumber, Optional: true},
		},
	},
	KindConnection: {
		Kind: KindConnection, Header: "DATASET_CONNECTION", Settings: true,
		Fields: []Field{
			{Name: "from", Type: FieldNode},
			{Name: "to", Type: FieldNode},
			{Name: "width", Type: FieldPositive},
			color,
			lineStyle,
			optText,
		},
	},
	KindBoxplot: {
		Kind: KindBoxplot, Header: "DATASET_BOXPLOT", Settings: true,
		Fields: []Field{
			node,
			{Name: "min", Type: FieldNumber},
			{Name: "q1", Type: FieldNumber},
			{Name: "median", Type: FieldNumber},
			{Name: "q3", Type: FieldNumber},
			{Name: "max", Type: FieldNumber},
		},
		Variadic: &Field{Name: "outlier", Type: FieldNumber},
	},
	KindDomains: {
		Kind: KindDomains, Header: "DATASET_DOMAINS", Settings: true,
		Fields:      []Field{node, {Name: "length", Type: FieldInteger}},
		Variadic:    &Field{Name: "domain", Type: FieldDomain},
		MinVariadic: 1,
	},
	KindExternalShape: {
		Kind: KindExternalShape, Header: "DATASET_EXTERNALSHAPE", Settings: true, legend: legendColors,
		Fields:      []Field{selector},
		Variadic:    &Field{Name: "value", Type: FieldNumber},
		MinVariadic: 1,
		Uniform:     true,
	},
	KindSymbol: {
		Kind: KindSymbol, Header: "DATASET_SYMBOL", Settings: true,
		Fields: []Field{
			selector,
			{Name: "symbol", Type: FieldSymbol},
			{Name: "size", Type: FieldPositive},
			color,
			{Name: "fill", Type: FieldFlag},
			{Name: "position", Type: FieldUnit},
			optText,
		},
	},
	KindLineChart: {
		Kind: KindLineChart, Header: "DATASET_LINECHART", Settings: true,
		Fields:      []Field{node},
		Variadic:    &Field{Name: "point", Type: FieldPoint},
		MinVariadic: 2,
	},
	KindImage: {
		Kind: KindImage, Header: "DATASET_IMAGE", Settings: true,
		Fields: []Field{
			selector,
			{Name: "position", Type: FieldPosition},
			{Name: "size-factor", Type: FieldPositive},
			{Name: "rotation", Type: FieldNumber},
			{Name: "horizontal-shift", Type: FieldNumber},
			{Name: "vertical-shift", Type: FieldNumber},
			{Name: "url", Type: FieldURL},
		},
	},
	KindAlignment: {
		Kind: KindAlignment, Header: "DATASET_ALIGNMENT", Settings: true,
		Fields:   []Field{{Name: "id", Type: FieldNode}, {Name: "sequence", Type: FieldSequence}},
		Defaults: [][]string{alignmentColors},
		fasta:    true,
	},
}

var kindOrder = []Kind{
	KindLabel, KindClade, KindBranch, KindRange, KindColors, KindPie,
	KindLabels, KindPopup, KindSimpleBar, KindMultiBar, KindColorStrip,
	KindGradient, KindHeatmap, KindBinary, KindText, KindConnection,
	KindBoxplot, KindDomains, KindExternalShape, KindSymbol,
	KindLineChart, KindImage, KindAlignment,
}

// Kinds returns every supported kind in a stable order.
func Kinds() []Kind {
	out := make([]Kind, len(kindOrder))
	copy(out, kindOrder)
	return out
}

// ParseKind parses a kind name, case-insensitively.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := schemas[k]; !ok {
		return "", &itol.FormatError{Kind: s, Record: -1, Err: fmt.Errorf("%w: %q", itol.ErrUnknownKind, s)}
	}
	return k, nil
}

// SchemaOf returns the schema of k.
func SchemaOf(k Kind) (*Schema, bool) {
	s, ok := schemas[k]
	return s, ok
}

func (k Kind) String() string {
	return string(k)
}

// schemaFor picks the row schema of a record within a dataset of kind k.
// Colors datasets dispatch on the type token in the second cell.
func schemaFor(k Kind, rec Record) (*Schema, error) {
	if k != KindColors {
		if rec.kind != k {
			return nil, fmt.Errorf("%w: %s record in %s dataset", itol.ErrKindMismatch, rec.kind, k)
		}
		return schemas[k], nil
	}

	target := rec.kind
	if target == KindColors {
		if len(rec.cells) < 2 {
			return nil, itol.ErrArity
		}
		target = Kind(rec.cells[1])
	}
	for _, ck := range colorKinds {
		if ck == target {
			return schemas[ck], nil
		}
	}
	return nil, fmt.Errorf("%w: %s record in %s dataset", itol.ErrKindMismatch, target, k)
}
