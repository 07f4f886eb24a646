package itol_test

import (
	"testing"

	"github.com/sagarc03/itol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTreeReference(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		kind   itol.RefKind
		treeID string
	}{
		{name: "numeric is an id", input: "12345", kind: itol.RefID, treeID: "12345"},
		{name: "surrounding space is trimmed", input: " 777 ", kind: itol.RefID, treeID: "777"},
		{name: "https url", input: "https://itol.embl.de/tree/1921711921231591543325100", kind: itol.RefURL, treeID: "1921711921231591543325100"},
		{name: "http url with trailing slash", input: "http://itol.embl.de/tree/42/", kind: itol.RefURL, treeID: "42"},
		{name: "url with query", input: "https://itol.embl.de/tree/42?restore_saved=1", kind: itol.RefURL, treeID: "42"},
		{name: "relative path", input: "data/tree.newick", kind: itol.RefPath, treeID: ""},
		{name: "numeric with extension is a path", input: "123.tree", kind: itol.RefPath, treeID: ""},
		{name: "zip path", input: "/tmp/bundle.zip", kind: itol.RefPath, treeID: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, err := itol.ParseTreeReference(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, ref.Kind())
			assert.Equal(t, tt.treeID, ref.TreeID())
		})
	}
}

func TestParseTreeReference_Errors(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		_, err := itol.ParseTreeReference("  ")
		var cfgErr *itol.ConfigurationError
		require.ErrorAs(t, err, &cfgErr)
		assert.ErrorIs(t, err, itol.ErrEmptyReference)
	})

	t.Run("url without id", func(t *testing.T) {
		_, err := itol.ParseTreeReference("https://")
		var cfgErr *itol.ConfigurationError
		assert.ErrorAs(t, err, &cfgErr)
	})
}

func TestTreeReference_Predicates(t *testing.T) {
	assert.True(t, itol.Path("a.tree").IsPath())
	assert.False(t, itol.Path("a.tree").IsRemote())
	assert.True(t, itol.ID("1").IsRemote())
	assert.True(t, itol.URL("https://itol.embl.de/tree/1").IsRemote())
	assert.True(t, itol.TreeReference{}.IsZero())
	assert.Equal(t, "id:1", itol.ID("1").String())
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    itol.Format
		wantErr bool
	}{
		{input: "", want: itol.FormatPDF},
		{input: "png", want: itol.FormatPNG},
		{input: "SVG", want: itol.FormatSVG},
		{input: " newick ", want: itol.FormatNewick},
		{input: "phyloxml", want: itol.FormatPhyloXML},
		{input: "jpeg", wantErr: true},
		{input: "tiff", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			f, err := itol.ParseFormat(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, itol.ErrUnsupportedFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, f)
		})
	}
}

func TestFormat_Properties(t *testing.T) {
	assert.True(t, itol.FormatPNG.IsGraphical())
	assert.False(t, itol.FormatNexus.IsGraphical())
	assert.Equal(t, "png", itol.FormatPNG.Extension())
	assert.Equal(t, "nwk", itol.FormatNewick.Extension())
	assert.Equal(t, "xml", itol.FormatPhyloXML.Extension())
	assert.Len(t, itol.Formats(), 7)
}
