package main

import (
	"os"

	"github.com/sagarc03/itol"
	"github.com/sagarc03/itol/clientcli"
	"github.com/spf13/cobra"
)

var (
	uploadID          string
	uploadName        string
	uploadProject     string
	uploadDescription string
	uploadAll         bool
	uploadZip         bool
	uploadDatasets    []string
)

var uploadCmd = &cobra.Command{
	Use:   "upload <tree> [dataset...]",
	Short: "Upload a tree, with optional datasets",
	Long: `Upload a tree file or zip archive to iTOL.

Without an upload ID the tree is anonymous and deleted after 30 days.
With an upload ID a project name is required.

Datasets given as arguments or with --dataset are zipped together with the
tree. --all adds every *.txt file next to the tree.

Examples:
  itol upload species.newick
  itol upload species.newick labels.txt pie.txt -i $UPLOAD_ID -p birds
  itol upload species.newick --all -n "Birds v2"
  itol upload bundle.zip`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		datasets := append(args[1:len(args):len(args)], uploadDatasets...)
		return upload(cmd, itol.Path(args[0]), datasets)
	},
}

func init() {
	addUploadFlags(uploadCmd)
}

func addUploadFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&uploadID, "upload-id", "i", "", "batch upload ID (default: from profile)")
	f.StringVarP(&uploadName, "name", "n", "", "tree name (default: file name)")
	f.StringVarP(&uploadProject, "project", "p", "", "project name, required with an upload ID (default: from profile)")
	f.StringVarP(&uploadDescription, "description", "d", "", "tree description")
	f.BoolVarP(&uploadAll, "all", "a", false, "zip the tree with every *.txt file in its directory")
	f.BoolVar(&uploadZip, "zip", false, "always send a zip archive")
	f.StringArrayVar(&uploadDatasets, "dataset", nil, "dataset file to upload with the tree (repeatable)")
}

func upload(cmd *cobra.Command, tree itol.TreeReference, datasets []string) error {
	client, profile, err := getClient(cmd)
	if err != nil {
		return err
	}

	opts := clientcli.UploadOptions{
		Tree:            tree,
		Datasets:        datasets,
		UploadID:        uploadID,
		ProjectName:     uploadProject,
		TreeName:        uploadName,
		Description:     uploadDescription,
		Bundle:          uploadZip || uploadAll,
		IncludeSiblings: uploadAll,
	}
	if profile != nil && opts.UploadID == "" {
		opts.UploadID = profile.UploadID
		if opts.ProjectName == "" {
			opts.ProjectName = profile.ProjectName
		}
	}

	result, err := client.Upload(cmd.Context(), opts)
	if err != nil {
		return err
	}
	return getFormatter().FormatUpload(os.Stdout, result)
}
