package clientcli

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sagarc03/itol"
)

// DisplayOptions are rendering parameters passed to the batch downloader,
// keyed by their iTOL names (display_mode, font_size, ...).
type DisplayOptions map[string]string

type displayKey struct {
	parse func(string) (any, error)
	tag   string
}

func asString(s string) (any, error) { return s, nil }

func asInt(s string) (any, error) { return strconv.Atoi(s) }

func asFloat(s string) (any, error) { return strconv.ParseFloat(s, 64) }

var displayKeys = map[string]displayKey{
	"display_mode":            {parse: asString, tag: "oneof=1 2 3"},
	"datasets_visible":        {parse: asString, tag: "required,indexlist"},
	"range_mode":              {parse: asString, tag: "oneof=0 1 2"},
	"include_ranges":          {parse: asString, tag: "oneof=0 1"},
	"label_display":           {parse: asString, tag: "oneof=0 1"},
	"align_labels":            {parse: asString, tag: "oneof=0 1"},
	"ignore_branch_length":    {parse: asString, tag: "oneof=0 1"},
	"bootstrap_display":       {parse: asString, tag: "oneof=0 1"},
	"internal_marks":          {parse: asString, tag: "oneof=0 1"},
	"font_size":               {parse: asInt, tag: "gt=0"},
	"line_width":              {parse: asInt, tag: "gt=0"},
	"resolution":              {parse: asInt, tag: "gt=0"},
	"rotation":                {parse: asFloat},
	"arc":                     {parse: asFloat, tag: "gte=0,lte=360"},
	"vertical_shift_factor":   {parse: asFloat, tag: "gt=0"},
	"horizontal_scale_factor": {parse: asFloat, tag: "gt=0"},
}

// DisplayKeys returns every recognised option name, sorted.
func DisplayKeys() []string {
	keys := make([]string, 0, len(displayKeys))
	for k := range displayKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func newDisplayValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("indexlist", func(fl validator.FieldLevel) bool {
		for _, part := range strings.Split(fl.Field().String(), ",") {
			n, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil || n < 0 {
				return false
			}
		}
		return true
	})
	return v
}

// Validate checks every key and value.
func (d DisplayOptions) Validate() error {
	v := newDisplayValidator()
	for _, k := range sortedKeys(d) {
		dk, ok := displayKeys[k]
		if !ok {
			return itol.NewConfigurationError(k, fmt.Errorf("%w: %s", itol.ErrUnknownOption, k))
		}
		value, err := dk.parse(strings.TrimSpace(d[k]))
		if err != nil {
			return itol.NewConfigurationError(k, fmt.Errorf("%w: %q", itol.ErrInvalidOption, d[k]))
		}
		if err := v.Var(value, dk.tag); err != nil {
			return itol.NewConfigurationError(k, fmt.Errorf("%w: %q fails %s", itol.ErrInvalidOption, d[k], dk.tag))
		}
	}
	return nil
}

// Encode adds the options to q.
func (d DisplayOptions) Encode(q url.Values) {
	for _, k := range sortedKeys(d) {
		q.Set(k, strings.TrimSpace(d[k]))
	}
}

func sortedKeys(d DisplayOptions) []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
