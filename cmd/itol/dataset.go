package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sagarc03/itol"
	"github.com/sagarc03/itol/clientcli"
	"github.com/sagarc03/itol/dataset"
	"github.com/spf13/cobra"
)

var (
	datasetOutput      string
	datasetSeparator   string
	datasetLabel       string
	datasetColor       string
	datasetFieldLabels []string
	datasetFieldColors []string
	datasetFieldShapes []int
	datasetSettings    map[string]string
)

var datasetCmd = &cobra.Command{
	Use:   "dataset <kind> <records-file>",
	Short: "Write an annotation dataset file",
	Long: `Write an iTOL annotation dataset from a file of records.

Records are read from YAML (a list of rows), CSV, TSV or FASTA, chosen by
the file extension. Each row holds the fields listed by 'itol kinds' for the
kind, without the kind itself. Alignments are read from FASTA files. Use - to
read CSV from stdin.

Examples:
  itol dataset label labels.csv -o labels
  itol dataset pie pies.yaml --separator tab --field-labels a,b,c
  itol dataset alignment msa.fasta
  itol dataset heatmap heat.tsv --field-labels x,y --set COLOR_MIN=#0000ff`,
	Args: cobra.ExactArgs(2),
	RunE: runDataset,
}

var kindsCmd = &cobra.Command{
	Use:   "kinds",
	Short: "List dataset kinds and their record fields",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		return getFormatter().FormatKinds(os.Stdout, kindInfos())
	},
}

func init() {
	f := datasetCmd.Flags()
	f.StringVarP(&datasetOutput, "output", "o", "", "output file, .txt is appended (default: <kind>.txt)")
	f.StringVar(&datasetSeparator, "separator", "comma", "field separator: comma, tab, space")
	f.StringVar(&datasetLabel, "label", "", "dataset label (default: the kind)")
	f.StringVar(&datasetColor, "color", "", "dataset color (default: "+dataset.DefaultColor+")")
	f.StringSliceVar(&datasetFieldLabels, "field-labels", nil, "labels of the value fields")
	f.StringSliceVar(&datasetFieldColors, "field-colors", nil, "colors of the value fields")
	f.IntSliceVar(&datasetFieldShapes, "field-shapes", nil, "shapes (1-6) of binary fields")
	f.StringToStringVar(&datasetSettings, "set", nil, "extra header setting KEY=VALUE (repeatable)")
}

func kindInfos() []clientcli.KindInfo {
	kinds := dataset.Kinds()
	out := make([]clientcli.KindInfo, 0, len(kinds))
	for _, k := range kinds {
		s, _ := dataset.SchemaOf(k)
		out = append(out, clientcli.KindInfo{Name: k.String(), Header: s.Header, Usage: s.Usage()})
	}
	return out
}

func runDataset(cmd *cobra.Command, args []string) error {
	kind, err := dataset.ParseKind(args[0])
	if err != nil {
		return err
	}
	sep, err := dataset.ParseSeparator(datasetSeparator)
	if err != nil {
		return itol.NewConfigurationError("separator", err)
	}

	records, err := readRecords(kind, args[1])
	if err != nil {
		return err
	}

	opts := dataset.Options{
		Separator:   sep,
		Label:       datasetLabel,
		Color:       datasetColor,
		FieldLabels: datasetFieldLabels,
		FieldColors: datasetFieldColors,
		FieldShapes: datasetFieldShapes,
		Settings:    upperKeys(datasetSettings),
	}

	out := datasetOutput
	if out == "" {
		out = kind.String()
	}
	path, err := dataset.WriteFile(cmd.Context(), out, kind, records, opts)
	if err != nil {
		return err
	}

	return getFormatter().FormatDataset(os.Stdout, &clientcli.DatasetResult{
		Kind:    kind.String(),
		Path:    path,
		Records: len(records),
	})
}

func readRecords(kind dataset.Kind, path string) ([]dataset.Record, error) {
	if path == "-" {
		return dataset.LoadRecords(os.Stdin, kind, dataset.SyntaxCSV)
	}

	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, &itol.LocalIOError{Op: "open", Path: path, Err: err}
	}
	defer func() { _ = f.Close() }()

	records, err := dataset.LoadRecords(f, kind, dataset.SyntaxForPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

func upperKeys(m map[string]string) map[string]string {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[strings.ToUpper(strings.TrimSpace(k))] = v
	}
	return out
}
