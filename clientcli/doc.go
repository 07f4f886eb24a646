// Package clientcli provides a client for the iTOL batch upload and
// download endpoints.
//
// Uploads send a tree file, optionally zipped together with annotation
// datasets. Downloads export a stored tree in one of the supported formats
// and write it to disk atomically. Downloads are retried on transport
// failures and 5xx responses; uploads never are.
//
// The package also holds the profiles file used by the CLI to remember
// upload IDs and project names.
//
// # Basic Usage
//
//	client, err := clientcli.New(clientcli.DefaultConfig())
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := client.Upload(ctx, clientcli.UploadOptions{
//		Tree:        itol.Path("species.newick"),
//		Datasets:    []string{"labels.txt"},
//		UploadID:    "abc123",
//		ProjectName: "birds",
//	})
//
//	_, err = client.Download(ctx, clientcli.DownloadOptions{
//		Tree:   itol.ID(result.TreeID),
//		Format: itol.FormatSVG,
//	})
//
// # Profiles
//
//	configFile, err := clientcli.LoadConfigFile(clientcli.DefaultConfigPath())
//	if err != nil {
//		log.Fatal(err)
//	}
//	profile, err := configFile.GetProfile("")
//
// # Output Formatting
//
//	formatter := clientcli.NewFormatter(jsonOutput, quiet)
//	formatter.FormatUpload(os.Stdout, result)
package clientcli
