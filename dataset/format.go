package dataset

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/sagarc03/itol"
)

// Separator is the cell delimiter declared on the SEPARATOR line.
type Separator string

const (
	SeparatorComma Separator = "COMMA"
	SeparatorTab   Separator = "TAB"
	SeparatorSpace Separator = "SPACE"
)

// ParseSeparator accepts comma, tab or space in any case. Empty means comma.
func ParseSeparator(s string) (Separator, error) {
	switch Separator(strings.ToUpper(strings.TrimSpace(s))) {
	case "", SeparatorComma:
		return SeparatorComma, nil
	case SeparatorTab:
		return SeparatorTab, nil
	case SeparatorSpace:
		return SeparatorSpace, nil
	}
	return "", fmt.Errorf("%w: %q", itol.ErrUnknownSeparator, s)
}

// Char returns the delimiter itself.
func (s Separator) Char() string {
	switch s {
	case SeparatorTab:
		return "\t"
	case SeparatorSpace:
		return " "
	default:
		return ","
	}
}

// Options controls the header of a dataset file.
type Options struct {
	// Separator defaults to comma.
	Separator Separator

	// Label and Color fill DATASET_LABEL and COLOR. They default to the kind
	// name and DefaultColor.
	Label string
	Color string

	// FieldLabels, FieldColors and FieldShapes describe the values of
	// multi-value kinds. Their length must match the value count.
	FieldLabels []string
	FieldColors []string
	FieldShapes []int

	// Settings are extra KEY value lines, written in key order.
	Settings map[string]string
}

var settingKey = regexp.MustCompile(`^[A-Z][A-Z0-9_]*$`)

var reservedSettings = map[string]bool{
	"SEPARATOR": true, "DATA": true, "DATASET_LABEL": true, "COLOR": true,
	"FIELD_LABELS": true, "FIELD_COLORS": true, "FIELD_SHAPES": true,
}

// Format renders records as the text of one dataset file of the given kind.
// It performs no I/O; every record is validated before any text is built.
func Format(kind Kind, records []Record, opts Options) (string, error) {
	schema, ok := schemas[kind]
	if !ok {
		return "", &itol.FormatError{Kind: string(kind), Record: -1, Err: itol.ErrUnknownKind}
	}
	fail := func(record int, field string, err error) error {
		return &itol.FormatError{Kind: string(kind), Record: record, Field: field, Err: err}
	}

	if len(records) == 0 {
		return "", fail(-1, "", itol.ErrEmptyDataset)
	}

	sep, err := ParseSeparator(string(opts.Separator))
	if err != nil {
		return "", fail(-1, "separator", err)
	}
	delim := sep.Char()

	values := -1
	rowSchemas := make([]*Schema, len(records))
	for i, rec := range records {
		rs, err := schemaFor(kind, rec)
		if err != nil {
			return "", fail(i, "", err)
		}
		rowSchemas[i] = rs
		n, field, err := rs.validate(rec.cells, delim)
		if err != nil {
			return "", fail(i, field, err)
		}
		if !rs.Uniform {
			continue
		}
		if values >= 0 && n != values {
			return "", fail(i, rs.Variadic.Name, fmt.Errorf("%w: %d, previous records have %d", itol.ErrValueCount, n, values))
		}
		values = n
	}

	var settings [][]string
	if schema.Settings {
		settings, err = schema.settings(opts, values, delim)
		if err != nil {
			return "", fail(-1, "", err)
		}
	}
	for _, line := range schema.Defaults {
		if _, ok := opts.Settings[line[0]]; !ok {
			settings = append(settings, line)
		}
	}
	extra, err := extraSettings(opts.Settings, delim)
	if err != nil {
		return "", fail(-1, "settings", err)
	}
	settings = append(settings, extra...)

	var b strings.Builder
	b.WriteString(schema.Header)
	b.WriteString("\n")
	b.WriteString("SEPARATOR ")
	b.WriteString(string(sep))
	b.WriteString("\n")
	for _, line := range settings {
		b.WriteString(strings.Join(line, delim))
		b.WriteString("\n")
	}
	b.WriteString("DATA\n")
	for i, rec := range records {
		rs := rowSchemas[i]
		if rs.fasta {
			b.WriteString(">")
			b.WriteString(rec.cells[0])
			b.WriteString("\n")
			b.WriteString(rec.cells[1])
			b.WriteString("\n")
			continue
		}
		b.WriteString(strings.Join(rs.render(rec.cells), delim))
		b.WriteString("\n")
	}
	return b.String(), nil
}

// render maps cells to their written form.
func (s *Schema) render(cells []string) []string {
	out := make([]string, len(cells))
	for i, cell := range cells {
		if i < len(s.Fields) {
			out[i] = s.Fields[i].render(cell)
		} else {
			out[i] = s.Variadic.render(cell)
		}
	}
	return out
}

// validate checks cells against s and returns the number of variadic values.
// On failure it also returns the name of the offending field.
func (s *Schema) validate(cells []string, delim string) (int, string, error) {
	n := len(cells)
	if n < s.required()+s.MinVariadic {
		return 0, "", fmt.Errorf("%w: got %d, want at least %d", itol.ErrArity, n, s.required()+s.MinVariadic)
	}
	if s.Variadic == nil && n > len(s.Fields) {
		return 0, "", fmt.Errorf("%w: got %d, want at most %d", itol.ErrArity, n, len(s.Fields))
	}

	for i, cell := range cells {
		var f Field
		if i < len(s.Fields) {
			f = s.Fields[i]
		} else {
			f = *s.Variadic
		}
		if strings.Contains(cell, delim) || strings.ContainsAny(cell, "\r\n") {
			return 0, f.Name, fmt.Errorf("%w: %q", itol.ErrSeparatorInCell, cell)
		}
		if err := f.check(cell); err != nil {
			return 0, f.Name, err
		}
	}

	if s.Variadic == nil {
		return 0, "", nil
	}
	return n - len(s.Fields), "", nil
}

func (s *Schema) settings(opts Options, values int, delim string) ([][]string, error) {
	label := opts.Label
	if label == "" {
		label = string(s.Kind)
	}
	if strings.Contains(label, delim) || strings.ContainsAny(label, "\r\n") {
		return nil, fmt.Errorf("%w: dataset label %q", itol.ErrSeparatorInCell, label)
	}
	col := opts.Color
	if col == "" {
		col = DefaultColor
	}
	if err := checkColor(col); err != nil {
		return nil, err
	}
	lines := [][]string{{"DATASET_LABEL", label}, {"COLOR", col}}

	if s.legend == legendNone {
		return lines, nil
	}

	labels := opts.FieldLabels
	if labels == nil {
		labels = make([]string, values)
		for i := range labels {
			labels[i] = "f" + strconv.Itoa(i+1)
		}
	}
	if len(labels) != values {
		return nil, fmt.Errorf("%w: %d field labels for %d values", itol.ErrFieldCount, len(labels), values)
	}
	for _, l := range labels {
		if strings.Contains(l, delim) || strings.ContainsAny(l, "\r\n") {
			return nil, fmt.Errorf("%w: field label %q", itol.ErrSeparatorInCell, l)
		}
	}

	if s.legend == legendLabels {
		return append(lines, append([]string{"FIELD_LABELS"}, labels...)), nil
	}

	colors := opts.FieldColors
	if colors == nil {
		colors = defaultFieldColors(values)
	}
	if len(colors) != values {
		return nil, fmt.Errorf("%w: %d field colors for %d values", itol.ErrFieldCount, len(colors), values)
	}
	for _, c := range colors {
		if err := checkColor(c); err != nil {
			return nil, err
		}
	}
	lines = append(lines,
		append([]string{"FIELD_COLORS"}, colors...),
		append([]string{"FIELD_LABELS"}, labels...),
	)

	if s.legend == legendShapes {
		shapes := make([]string, values)
		for i := range shapes {
			shapes[i] = "1"
		}
		if opts.FieldShapes != nil {
			if len(opts.FieldShapes) != values {
				return nil, fmt.Errorf("%w: %d field shapes for %d values", itol.ErrFieldCount, len(opts.FieldShapes), values)
			}
			for i, sh := range opts.FieldShapes {
				if sh < 1 || sh > 6 {
					return nil, fmt.Errorf("%w: field shape %d", itol.ErrOutOfRange, sh)
				}
				shapes[i] = strconv.Itoa(sh)
			}
		}
		lines = append(lines, append([]string{"FIELD_SHAPES"}, shapes...))
	}
	return lines, nil
}

func extraSettings(m map[string]string, delim string) ([][]string, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([][]string, 0, len(keys))
	for _, k := range keys {
		if !settingKey.MatchString(k) || reservedSettings[k] {
			return nil, fmt.Errorf("%w: key %q", itol.ErrInvalidSetting, k)
		}
		v := m[k]
		if strings.ContainsAny(v, "\r\n") {
			return nil, fmt.Errorf("%w: value of %s contains a newline", itol.ErrInvalidSetting, k)
		}
		lines = append(lines, []string{k, v})
	}
	return lines, nil
}
