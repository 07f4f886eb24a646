package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/sagarc03/itol"
	"github.com/sagarc03/itol/clientcli"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	downloadFormat string
	downloadOutput string
)

var downloadCmd = &cobra.Command{
	Use:   "download <tree-id|url>",
	Short: "Export a tree from iTOL",
	Long: `Export a stored tree with the batch downloader.

Formats: ` + formatList() + `. The default is pdf.
The output defaults to <tree-id>.<extension> in the current directory.

Display options are passed through for graphical formats, for example
--display_mode 2 (circular) or --datasets_visible 0,2.

Examples:
  itol download 1234567890
  itol download 1234567890 -f svg -o tree.svg --display_mode 2 --arc 270
  itol download https://itol.embl.de/tree/1234567890 -f newick`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ref, err := itol.ParseTreeReference(args[0])
		if err != nil {
			return err
		}
		return download(cmd, ref)
	},
}

func init() {
	addDownloadFlags(downloadCmd)
}

func formatList() string {
	names := make([]string, 0, len(itol.Formats()))
	for _, f := range itol.Formats() {
		names = append(names, string(f))
	}
	return strings.Join(names, ", ")
}

func addDownloadFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&downloadFormat, "format", "f", string(itol.DefaultFormat), "export format: "+formatList())
	f.StringVarP(&downloadOutput, "output", "o", "", "output file (default: <tree-id>.<extension>)")
	for _, key := range clientcli.DisplayKeys() {
		f.String(key, "", "display option "+key)
	}
}

// displayOptions collects the display flags that were set.
func displayOptions(flags *pflag.FlagSet) clientcli.DisplayOptions {
	opts := clientcli.DisplayOptions{}
	for _, key := range clientcli.DisplayKeys() {
		if f := flags.Lookup(key); f != nil && f.Changed {
			opts[key] = f.Value.String()
		}
	}
	return opts
}

func download(cmd *cobra.Command, tree itol.TreeReference) error {
	format, err := itol.ParseFormat(downloadFormat)
	if err != nil {
		return err
	}

	display := displayOptions(cmd.Flags())
	if len(display) > 0 && !format.IsGraphical() {
		return itol.NewConfigurationError("format", fmt.Errorf("display options apply to graphical formats, not %s", format))
	}

	client, _, err := getClient(cmd)
	if err != nil {
		return err
	}

	result, err := client.Download(cmd.Context(), clientcli.DownloadOptions{
		Tree:       tree,
		Format:     format,
		OutputPath: downloadOutput,
		Display:    display,
	})
	if err != nil {
		return err
	}
	return getFormatter().FormatDownload(os.Stdout, result)
}
