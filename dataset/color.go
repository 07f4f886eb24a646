package dataset

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/sagarc03/itol"
	"golang.org/x/image/colornames"
)

var (
	hexColor  = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)
	rgbColor  = regexp.MustCompile(`^rgb\(\s*\d{1,3}\s*,\s*\d{1,3}\s*,\s*\d{1,3}\s*\)$`)
	rgbaColor = regexp.MustCompile(`^rgba\(\s*\d{1,3}\s*,\s*\d{1,3}\s*,\s*\d{1,3}\s*,\s*(0|1|0?\.\d+|1\.0+)\s*\)$`)
)

// DefaultColor is used for the COLOR setting when none is given.
const DefaultColor = "#ff0000"

// palette seeds FIELD_COLORS for multi-value kinds.
var palette = []string{
	"#ff0000", "#00ff00", "#0000ff", "#ffff00",
	"#ff00ff", "#00ffff", "#ff8000", "#8000ff",
}

// ValidColor reports whether s is a color iTOL accepts.
func ValidColor(s string) bool {
	return checkColor(s) == nil
}

func checkColor(s string) error {
	switch {
	case hexColor.MatchString(s), rgbColor.MatchString(s), rgbaColor.MatchString(s):
		return nil
	}
	if _, ok := colornames.Map[strings.ToLower(s)]; ok {
		return nil
	}
	return fmt.Errorf("%w: %q", itol.ErrInvalidColor, s)
}

func defaultFieldColors(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = palette[i%len(palette)]
	}
	return out
}
