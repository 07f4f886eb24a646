package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagarc03/itol/itoltest"
)

// execute runs the root command with args after resetting scalar flags.
func execute(t *testing.T, args ...string) int {
	t.Helper()
	reset := func(f *pflag.Flag) {
		if strings.HasSuffix(f.Value.Type(), "Slice") || strings.HasSuffix(f.Value.Type(), "Array") || f.Value.Type() == "stringToString" {
			return
		}
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	rootCmd.Flags().VisitAll(reset)
	rootCmd.PersistentFlags().VisitAll(reset)
	for _, c := range rootCmd.Commands() {
		c.Flags().VisitAll(reset)
	}

	profiles := filepath.Join(t.TempDir(), "profiles.yaml")
	rootCmd.SetArgs(append([]string{"--profiles-file", profiles, "--quiet"}, args...))
	return run(context.Background())
}

func TestRun_Upload(t *testing.T) {
	srv := itoltest.NewServer()
	defer srv.Close()

	tree := filepath.Join(t.TempDir(), "species.newick")
	require.NoError(t, os.WriteFile(tree, []byte("(A,B);"), 0o644))

	code := execute(t, "--upload-url", srv.UploadURL(), "-i", "KEY", "-p", "birds", tree)
	assert.Equal(t, 0, code)

	uploads := srv.Uploads()
	require.Len(t, uploads, 1)
	assert.Equal(t, "KEY", uploads[0].Fields["uploadID"])
	assert.Equal(t, "birds", uploads[0].Fields["projectName"])
}

func TestRun_UploadWithoutProject(t *testing.T) {
	srv := itoltest.NewServer()
	defer srv.Close()

	tree := filepath.Join(t.TempDir(), "species.newick")
	require.NoError(t, os.WriteFile(tree, []byte("(A,B);"), 0o644))

	code := execute(t, "--upload-url", srv.UploadURL(), "-i", "KEY", tree)
	assert.Equal(t, 2, code)
	assert.Equal(t, 0, srv.Requests())
}

func TestRun_Download(t *testing.T) {
	srv := itoltest.NewServer()
	defer srv.Close()

	out := filepath.Join(t.TempDir(), "tree.nwk")
	code := execute(t, "--download-url", srv.DownloadURL(), "42", "-f", "newick", "-o", out)
	require.Equal(t, 0, code)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "tree 42 as newick", string(data))
}

func TestRun_DisplayOptionNeedsGraphicalFormat(t *testing.T) {
	srv := itoltest.NewServer()
	defer srv.Close()

	code := execute(t, "--download-url", srv.DownloadURL(), "42", "-f", "newick", "--display_mode", "2")
	assert.Equal(t, 2, code)
	assert.Equal(t, 0, srv.Requests())
}

func TestRun_Dataset(t *testing.T) {
	dir := t.TempDir()
	records := filepath.Join(dir, "labels.csv")
	require.NoError(t, os.WriteFile(records, []byte("8518,label,#0000ff\n"), 0o644))

	code := execute(t, "dataset", "label", records, "-o", filepath.Join(dir, "labels"))
	require.Equal(t, 0, code)

	data, err := os.ReadFile(filepath.Join(dir, "labels.txt"))
	require.NoError(t, err)
	assert.Equal(t, "DATASET_LABEL\nSEPARATOR COMMA\nDATASET_LABEL,label\nCOLOR,#ff0000\nDATA\n8518,label,#0000ff\n", string(data))
}

func TestRun_DatasetAlignment(t *testing.T) {
	dir := t.TempDir()
	records := filepath.Join(dir, "msa.fasta")
	require.NoError(t, os.WriteFile(records, []byte(">A\nMKV\n>B\nMK-\n"), 0o644))

	code := execute(t, "dataset", "alignment", records, "-o", filepath.Join(dir, "msa"))
	require.Equal(t, 0, code)

	data, err := os.ReadFile(filepath.Join(dir, "msa.txt"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "DATASET_ALIGNMENT\nSEPARATOR COMMA\n"))
	assert.Contains(t, string(data), "\nCUSTOM_COLOR_SCHEME,COLOR_SCHEME,")
	assert.True(t, strings.HasSuffix(string(data), "DATA\n>A\nMKV\n>B\nMK-\n"))
}

func TestRun_DatasetInvalidRecord(t *testing.T) {
	dir := t.TempDir()
	records := filepath.Join(dir, "labels.csv")
	require.NoError(t, os.WriteFile(records, []byte("8518,label,notacolor\n"), 0o644))

	code := execute(t, "dataset", "label", records, "-o", filepath.Join(dir, "labels"))
	assert.Equal(t, 3, code)

	_, err := os.Stat(filepath.Join(dir, "labels.txt"))
	assert.True(t, os.IsNotExist(err))
}

func TestRun_UnknownFlag(t *testing.T) {
	assert.Equal(t, 2, execute(t, "--no-such-flag"))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("DEBUG"))
	assert.Equal(t, slog.LevelInfo, parseLevel("info"))
	assert.Equal(t, slog.LevelError, parseLevel(" error "))
	assert.Equal(t, slog.LevelWarn, parseLevel(""))
}

func TestUpperKeys(t *testing.T) {
	assert.Nil(t, upperKeys(nil))
	assert.Equal(t, map[string]string{"COLOR_MIN": "#0000ff"}, upperKeys(map[string]string{" color_min": "#0000ff"}))
}

func TestKindInfos(t *testing.T) {
	infos := kindInfos()
	require.NotEmpty(t, infos)
	assert.Equal(t, "label", infos[0].Name)
	assert.Equal(t, "DATASET_LABEL", infos[0].Header)
}
