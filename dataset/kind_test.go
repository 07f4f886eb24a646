package dataset_test

import (
	"testing"

	"github.com/sagarc03/itol"
	"github.com/sagarc03/itol/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKinds(t *testing.T) {
	kinds := dataset.Kinds()
	require.Len(t, kinds, 23)
	assert.Equal(t, dataset.KindLabel, kinds[0])
	assert.Equal(t, dataset.KindAlignment, kinds[len(kinds)-1])

	for _, k := range kinds {
		s, ok := dataset.SchemaOf(k)
		require.True(t, ok, k)
		assert.NotEmpty(t, s.Header, k)
		assert.NotEmpty(t, s.Usage(), k)
	}

	kinds[0] = "mutated"
	assert.Equal(t, dataset.KindLabel, dataset.Kinds()[0])
}

func TestParseKind(t *testing.T) {
	k, err := dataset.ParseKind(" PIE ")
	require.NoError(t, err)
	assert.Equal(t, dataset.KindPie, k)

	_, err = dataset.ParseKind("venn")
	var fmtErr *itol.FormatError
	require.ErrorAs(t, err, &fmtErr)
	assert.ErrorIs(t, err, itol.ErrUnknownKind)
}

func TestSchema_Usage(t *testing.T) {
	tests := []struct {
		kind dataset.Kind
		want string
	}{
		{kind: dataset.KindLabel, want: "node, label, color, [label-style], [width]"},
		{kind: dataset.KindPie, want: "node, position, radius, slice..."},
		{kind: dataset.KindBoxplot, want: "node, min, q1, median, q3, max, outlier*"},
		{kind: dataset.KindRange, want: "nodes, range, color, group"},
		{kind: dataset.KindLineChart, want: "node, point..."},
		{kind: dataset.KindImage, want: "node, position, size-factor, rotation, horizontal-shift, vertical-shift, url"},
		{kind: dataset.KindAlignment, want: "id, sequence"},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			s, ok := dataset.SchemaOf(tt.kind)
			require.True(t, ok)
			assert.Equal(t, tt.want, s.Usage())
		})
	}

	colors, _ := dataset.SchemaOf(dataset.KindColors)
	assert.Contains(t, colors.Usage(), " | nodes, clade, color")
}

func TestRecord_Constructors(t *testing.T) {
	assert.Equal(t, "A|B", dataset.Pair("A", "B"))

	r := dataset.Color{Selector: "A|B", Target: dataset.KindClade, Color: "red", Style: "dashed", Width: 3}.Record()
	assert.Equal(t, dataset.KindClade, r.Kind())
	assert.Equal(t, []string{"A|B", "clade", "red", "dashed", "3"}, r.Cells())

	assert.Equal(t, []string{"9606", "label", "#00ff00"}, dataset.Label("9606", "#00ff00").Cells())
	assert.Equal(t, []string{"A|B", "clade", "blue"}, dataset.Clade("A", "B", "blue").Cells())
	assert.Equal(t, dataset.KindBranch, dataset.Branch("A", "B", "blue").Kind())
	assert.Equal(t, []string{"A|B", "range", "#ccc", "Birds"}, dataset.Range("A", "B", "#ccc", "Birds").Cells())

	p := dataset.Pie{Node: "A", Position: dataset.PieExternal, Slices: []float64{0.1, 0.9}}.Record()
	assert.Equal(t, []string{"A", "-1", "10", "0.1", "0.9"}, p.Cells())

	line := dataset.Line{Node: "A", Points: []dataset.Point{{X: 1, Y: 2.5}, {X: -3, Y: 0}}}.Record()
	assert.Equal(t, []string{"A", "1|2.5", "-3|0"}, line.Cells())
	assert.Equal(t, []string{"A", "0|1"}, dataset.Row(dataset.KindLineChart, "A", dataset.Point{Y: 1}).Cells())

	img := dataset.Image{Node: "A", Position: 0.5, Size: 2, Rotation: 45, URL: "https://example.org/a.png"}.Record()
	assert.Equal(t, dataset.KindImage, img.Kind())
	assert.Equal(t, []string{"A", "0.5", "2", "45", "0", "0", "https://example.org/a.png"}, img.Cells())

	assert.Equal(t, []string{"A", "MKV"}, dataset.Sequence("A", "MKV").Cells())

	row := dataset.Row(dataset.KindMultiBar, "A", 1, 2.50, int64(3), nil)
	assert.Equal(t, []string{"A", "1", "2.5", "3", ""}, row.Cells())

	cells := row.Cells()
	cells[0] = "changed"
	assert.Equal(t, "A", row.Cells()[0])
}
