// Package itol provides the shared types of a client for the iTOL
// (Interactive Tree Of Life) batch service.
//
// The module prepares annotation datasets in iTOL's text formats and ships
// trees to and from the remote renderer. It does no layout, rendering or
// phylogenetic inference.
//
// # Key Components
//
//   - TreeReference: a local file, a server tree ID or a tree URL, classified
//     once by ParseTreeReference
//   - Format: export formats accepted by the batch downloader
//   - Error taxonomy: ConfigurationError, FormatError, TransportError,
//     ServerError and LocalIOError, each carrying an ErrorCode
//
// See the dataset package for the annotation formatter and the clientcli
// package for upload and download.
//
// # Example Usage
//
//	ref, err := itol.ParseTreeReference(os.Args[1])
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if ref.IsRemote() {
//	    fmt.Println("tree", ref.TreeID())
//	}
package itol
