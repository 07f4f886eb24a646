package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sagarc03/itol"
	"github.com/sagarc03/itol/config"
	"github.com/spf13/cobra"
)

var (
	version = "dev"

	cfgFile    string
	jsonOutput bool
	quiet      bool
)

var rootCmd = &cobra.Command{
	Use:     "itol DATA",
	Version: version,
	Short:   "Upload trees to iTOL and export them",
	Long: `itol - command line client for the iTOL tree viewer

DATA is a tree file, a zip archive, a tree ID or a tree URL:
  - a local file is uploaded, together with any --dataset files
  - a tree ID or URL is exported with the batch downloader

Examples:
  itol species.newick -i $UPLOAD_ID -p birds
  itol species.newick --dataset labels.txt --dataset pie.txt
  itol species.newick -a
  itol 1234567890 -f svg -o tree.svg --display_mode 2
  itol https://itol.embl.de/tree/1234567890 -f newick`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		var files []string
		if cfgFile != "" {
			files = []string{cfgFile}
		}
		cfg, err := config.Load(files, cmd.Flags())
		if err != nil {
			return err
		}
		setupLogging(cfg.Log)
		cmd.SetContext(config.WithContext(cmd.Context(), cfg))
		return nil
	},
	RunE: runRoot,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&cfgFile, "config", "c", "", "config file (default: ./itol.yaml)")
	pf.String("profile", "", "profile from the profiles file (env: ITOL_PROFILES_NAME)")
	pf.String("profiles-file", "", "profiles file (default: ~/.itol/profiles.yaml)")
	pf.String("upload-url", "", "batch upload endpoint (env: ITOL_SERVER_UPLOAD_URL)")
	pf.String("download-url", "", "batch download endpoint (env: ITOL_SERVER_DOWNLOAD_URL)")
	pf.Duration("timeout", 0, "HTTP timeout (default: 1m)")
	pf.Int("retries", 0, "download retries on transport and 5xx errors (default: 2)")
	pf.String("log-level", "", "log level: debug, info, warn, error (default: warn)")
	pf.String("log-format", "", "log format: text, json (default: text)")
	pf.BoolVar(&jsonOutput, "json", false, "output as JSON")
	pf.BoolVarP(&quiet, "quiet", "q", false, "print only the tree ID or output path")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return itol.NewConfigurationError("flags", err)
	})

	addUploadFlags(rootCmd)
	addDownloadFlags(rootCmd)

	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(datasetCmd)
	rootCmd.AddCommand(kindsCmd)
	rootCmd.AddCommand(configureCmd)
}

func main() {
	os.Exit(run(context.Background()))
}

func run(ctx context.Context) int {
	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	_ = getFormatter().FormatError(os.Stderr, err)
	return itol.ExitCode(err)
}

// runRoot dispatches on the kind of DATA.
func runRoot(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return cmd.Help()
	}

	ref, err := itol.ParseTreeReference(args[0])
	if err != nil {
		return err
	}
	if ref.IsPath() {
		return upload(cmd, ref, uploadDatasets)
	}
	if len(uploadDatasets) > 0 {
		return itol.NewConfigurationError("dataset", fmt.Errorf("datasets need a local tree file, got %s", ref))
	}
	return download(cmd, ref)
}
