package dataset

import (
	"fmt"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sagarc03/itol"
)

// FieldType is the value domain of one cell.
type FieldType int

const (
	FieldNode        FieldType = iota // single node ID
	FieldNodePair                     // "a|b", resolved by iTOL to the last common ancestor
	FieldSelector                     // node or node pair
	FieldLiteral                      // fixed token
	FieldColor                        // hex, rgb()/rgba() or CSS name
	FieldNumber                       // any finite number
	FieldPositive                     // > 0
	FieldNonNegative                  // >= 0
	FieldInteger                      // integer > 0
	FieldPosition                     // [-1, 1] or "auto"
	FieldUnit                         // [0, 1]
	FieldText                         // free text
	FieldLabelStyle                   // normal, bold, italic, bold-italic
	FieldLineStyle                    // normal, dashed
	FieldBinary                       // -1, 0 or 1
	FieldFlag                         // 0 or 1
	FieldSymbol                       // 1..5
	FieldHeat                         // number or X
	FieldDomain                       // SHAPE|start|end|color|label
	FieldPoint                        // x|y
	FieldURL                          // http or https URL
	FieldSequence                     // residues and gaps of one aligned sequence
)

// PositionAuto is accepted wherever a position in [-1, 1] is and is written
// as -1, which iTOL draws outside the tree.
const PositionAuto = "auto"

// Field is one typed cell of a schema.
type Field struct {
	Name     string
	Type     FieldType
	Literal  string
	Optional bool
}

var (
	labelStyles = []string{"normal", "bold", "italic", "bold-italic"}
	lineStyles  = []string{"normal", "dashed"}
	sequence    = regexp.MustCompile(`^[A-Za-z*?.-]+$`)
	domainShape = map[string]bool{
		"RE": true, "HH": true, "HV": true, "EL": true, "DI": true, "TR": true, "TL": true,
		"PL": true, "PR": true, "PU": true, "PD": true, "OC": true, "GP": true,
	}
)

// check validates a single cell against the field's domain.
func (f Field) check(cell string) error {
	switch f.Type {
	case FieldNode:
		return checkNode(cell)
	case FieldNodePair:
		return checkPair(cell)
	case FieldSelector:
		if strings.Contains(cell, "|") {
			return checkPair(cell)
		}
		return checkNode(cell)
	case FieldLiteral:
		if cell != f.Literal {
			return fmt.Errorf("%w: want %q, got %q", itol.ErrKindMismatch, f.Literal, cell)
		}
	case FieldColor:
		return checkColor(cell)
	case FieldNumber:
		_, err := parseNumber(cell)
		return err
	case FieldPositive:
		return checkRange(cell, func(v float64) bool { return v > 0 })
	case FieldNonNegative:
		return checkRange(cell, func(v float64) bool { return v >= 0 })
	case FieldInteger:
		n, err := strconv.Atoi(cell)
		if err != nil {
			return fmt.Errorf("%w: %q", itol.ErrInvalidNumber, cell)
		}
		if n <= 0 {
			return fmt.Errorf("%w: %d", itol.ErrOutOfRange, n)
		}
	case FieldPosition:
		if strings.EqualFold(cell, PositionAuto) {
			return nil
		}
		return checkRange(cell, func(v float64) bool { return v >= -1 && v <= 1 })
	case FieldUnit:
		return checkRange(cell, func(v float64) bool { return v >= 0 && v <= 1 })
	case FieldText:
		return nil
	case FieldLabelStyle:
		return checkStyle(cell, labelStyles)
	case FieldLineStyle:
		return checkStyle(cell, lineStyles)
	case FieldBinary:
		return checkEnum(cell, []string{"-1", "0", "1"})
	case FieldFlag:
		return checkEnum(cell, []string{"0", "1"})
	case FieldSymbol:
		return checkEnum(cell, []string{"1", "2", "3", "4", "5"})
	case FieldHeat:
		if cell == "X" {
			return nil
		}
		_, err := parseNumber(cell)
		return err
	case FieldDomain:
		return checkDomain(cell)
	case FieldPoint:
		return checkPoint(cell)
	case FieldURL:
		return checkURL(cell)
	case FieldSequence:
		if !sequence.MatchString(cell) {
			return fmt.Errorf("%w: %q", itol.ErrInvalidSequence, cell)
		}
	}
	return nil
}

// render returns the cell as written to the file.
func (f Field) render(cell string) string {
	if f.Type == FieldPosition && strings.EqualFold(cell, PositionAuto) {
		return formatNumber(float64(PieExternal))
	}
	return cell
}

func checkNode(cell string) error {
	if strings.TrimSpace(cell) == "" {
		return fmt.Errorf("%w: empty node ID", itol.ErrInvalidSelector)
	}
	if strings.Contains(cell, "|") {
		return fmt.Errorf("%w: %q is a node pair", itol.ErrInvalidSelector, cell)
	}
	return nil
}

func checkPair(cell string) error {
	parts := strings.Split(cell, "|")
	if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" || strings.TrimSpace(parts[1]) == "" {
		return fmt.Errorf("%w: %q is not a pair of node IDs", itol.ErrInvalidSelector, cell)
	}
	return nil
}

func parseNumber(cell string) (float64, error) {
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q", itol.ErrInvalidNumber, cell)
	}
	return v, nil
}

func checkRange(cell string, ok func(float64) bool) error {
	v, err := parseNumber(cell)
	if err != nil {
		return err
	}
	if !ok(v) {
		return fmt.Errorf("%w: %s", itol.ErrOutOfRange, cell)
	}
	return nil
}

func checkEnum(cell string, allowed []string) error {
	if slices.Contains(allowed, cell) {
		return nil
	}
	return fmt.Errorf("%w: %q (want one of %s)", itol.ErrOutOfRange, cell, strings.Join(allowed, ", "))
}

func checkStyle(cell string, allowed []string) error {
	if slices.Contains(allowed, cell) {
		return nil
	}
	return fmt.Errorf("%w: %q (want one of %s)", itol.ErrInvalidStyle, cell, strings.Join(allowed, ", "))
}

func checkDomain(cell string) error {
	parts := strings.Split(cell, "|")
	if len(parts) != 5 {
		return fmt.Errorf("%w: domain %q needs SHAPE|start|end|color|label", itol.ErrArity, cell)
	}
	if !domainShape[parts[0]] {
		return fmt.Errorf("%w: unknown domain shape %q", itol.ErrInvalidStyle, parts[0])
	}
	start, err := strconv.Atoi(parts[1])
	if err != nil {
		return fmt.Errorf("%w: domain start %q", itol.ErrInvalidNumber, parts[1])
	}
	end, err := strconv.Atoi(parts[2])
	if err != nil {
		return fmt.Errorf("%w: domain end %q", itol.ErrInvalidNumber, parts[2])
	}
	if start < 0 || end < start {
		return fmt.Errorf("%w: domain %d..%d", itol.ErrOutOfRange, start, end)
	}
	return checkColor(parts[3])
}

func checkPoint(cell string) error {
	x, y, ok := strings.Cut(cell, "|")
	if !ok || strings.Contains(y, "|") {
		return fmt.Errorf("%w: point %q needs x|y", itol.ErrArity, cell)
	}
	if _, err := parseNumber(x); err != nil {
		return err
	}
	_, err := parseNumber(y)
	return err
}

var validate = validator.New()

func checkURL(cell string) error {
	if err := validate.Var(cell, "required,http_url"); err != nil {
		return fmt.Errorf("%w: %q", itol.ErrInvalidURL, cell)
	}
	return nil
}

// formatNumber renders v without trailing zeros.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
