package dataset_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sagarc03/itol"
	"github.com/sagarc03/itol/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	records := []dataset.Record{
		dataset.Color{Selector: "8518", Target: dataset.KindLabel, Color: "#0000ff"}.Record(),
	}

	path, err := dataset.WriteFile(context.Background(), filepath.Join(dir, "labels"), dataset.KindLabel, records, dataset.Options{})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "labels.txt"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "DATASET_LABEL\n"))

	want, err := dataset.Format(dataset.KindLabel, records, dataset.Options{})
	require.NoError(t, err)
	assert.Equal(t, want, string(data))
}

func TestWriteFile_KeepsExtension(t *testing.T) {
	dir := t.TempDir()
	records := []dataset.Record{dataset.Row(dataset.KindSimpleBar, "9606", 2)}

	path, err := dataset.WriteFile(context.Background(), filepath.Join(dir, "bars.TXT"), dataset.KindSimpleBar, records, dataset.Options{})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "bars.TXT"), path)
}

func TestWriteFile_InvalidRecordsWriteNothing(t *testing.T) {
	dir := t.TempDir()
	records := []dataset.Record{
		dataset.Pie{Node: "A", Slices: []float64{1, 2}}.Record(),
		dataset.Pie{Node: "B", Slices: []float64{1}}.Record(),
	}

	path, err := dataset.WriteFile(context.Background(), filepath.Join(dir, "pie.txt"), dataset.KindPie, records, dataset.Options{})

	assert.Empty(t, path)
	var fmtErr *itol.FormatError
	require.ErrorAs(t, err, &fmtErr)
	assert.ErrorIs(t, err, itol.ErrValueCount)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestWriteFile_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	input := "9606,-1,10,3,1\n10090,0.5,20,2,2\n"

	records, err := dataset.LoadRecords(strings.NewReader(input), dataset.KindPie, dataset.SyntaxCSV)
	require.NoError(t, err)

	opts := dataset.Options{Label: "abundance", FieldLabels: []string{"gut", "skin"}}
	path, err := dataset.WriteFile(context.Background(), filepath.Join(dir, "abundance.txt"), dataset.KindPie, records, opts)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	want := "DATASET_PIECHART\n" +
		"SEPARATOR COMMA\n" +
		"DATASET_LABEL,abundance\n" +
		"COLOR,#ff0000\n" +
		"FIELD_COLORS,#ff0000,#00ff00\n" +
		"FIELD_LABELS,gut,skin\n" +
		"DATA\n" +
		input
	assert.Equal(t, want, string(data))
}

func TestWriteFile_ContextCanceled(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := dataset.WriteFile(ctx, filepath.Join(dir, "x.txt"), dataset.KindLabels,
		[]dataset.Record{dataset.Row(dataset.KindLabels, "A", "a")}, dataset.Options{})
	assert.ErrorIs(t, err, context.Canceled)

	_, statErr := os.Stat(filepath.Join(dir, "x.txt"))
	assert.True(t, os.IsNotExist(statErr))
}
