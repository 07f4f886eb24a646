package clientcli_test

import (
	"testing"

	"github.com/sagarc03/itol"
	"github.com/sagarc03/itol/clientcli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisplayOptions_Validate(t *testing.T) {
	valid := []clientcli.DisplayOptions{
		nil,
		{"display_mode": "1"},
		{"display_mode": "3", "arc": "180", "rotation": "-45.5"},
		{"datasets_visible": "0,1, 4"},
		{"font_size": "14", "line_width": "2", "resolution": "300"},
		{"label_display": "0", "align_labels": "1", "ignore_branch_length": "1"},
		{"vertical_shift_factor": "0.5", "horizontal_scale_factor": "2"},
	}
	for _, opts := range valid {
		assert.NoError(t, opts.Validate(), "%v", opts)
	}

	tests := []struct {
		name  string
		opts  clientcli.DisplayOptions
		key   string
		cause error
	}{
		{"unknown key", clientcli.DisplayOptions{"zoom": "2"}, "zoom", itol.ErrUnknownOption},
		{"bad mode", clientcli.DisplayOptions{"display_mode": "4"}, "display_mode", itol.ErrInvalidOption},
		{"non-numeric size", clientcli.DisplayOptions{"font_size": "big"}, "font_size", itol.ErrInvalidOption},
		{"zero size", clientcli.DisplayOptions{"font_size": "0"}, "font_size", itol.ErrInvalidOption},
		{"arc too wide", clientcli.DisplayOptions{"arc": "400"}, "arc", itol.ErrInvalidOption},
		{"bad flag", clientcli.DisplayOptions{"internal_marks": "yes"}, "internal_marks", itol.ErrInvalidOption},
		{"negative index", clientcli.DisplayOptions{"datasets_visible": "0,-1"}, "datasets_visible", itol.ErrInvalidOption},
		{"empty index list", clientcli.DisplayOptions{"datasets_visible": ""}, "datasets_visible", itol.ErrInvalidOption},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			var cfgErr *itol.ConfigurationError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.key, cfgErr.Field)
			assert.ErrorIs(t, err, tt.cause)
		})
	}
}

func TestDisplayKeys(t *testing.T) {
	keys := clientcli.DisplayKeys()
	assert.IsIncreasing(t, keys)
	assert.Contains(t, keys, "display_mode")
	assert.Contains(t, keys, "datasets_visible")
}
