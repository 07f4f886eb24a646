package clientcli

import (
	"github.com/sagarc03/itol"
)

// UploadOptions configures an upload operation.
type UploadOptions struct {
	Tree     itol.TreeReference
	Datasets []string // dataset files sent along with the tree

	UploadID    string // batch upload key; trees without one expire after 30 days
	ProjectName string // required when UploadID is set
	TreeName    string // defaults to the tree's base name
	Description string

	Bundle          bool // always send a zip, even for a lone tree
	IncludeSiblings bool // add every *.txt file next to the tree
}

// UploadResult describes an accepted tree.
type UploadResult struct {
	TreeID   string   `json:"tree_id"`
	URL      string   `json:"url"`
	Warnings []string `json:"warnings,omitempty"`
	Bundled  bool     `json:"bundled"`
	Files    []string `json:"files"`
}

// DownloadOptions configures a download operation.
type DownloadOptions struct {
	Tree       itol.TreeReference
	Format     itol.Format    // defaults to itol.DefaultFormat
	OutputPath string         // defaults to <tree id>.<extension>
	Display    DisplayOptions // rendering parameters, graphical formats only
}

// DownloadResult describes an exported tree written to disk.
type DownloadResult struct {
	TreeID      string      `json:"tree_id"`
	Format      itol.Format `json:"format"`
	LocalPath   string      `json:"local_path"`
	ContentType string      `json:"content_type"`
	Size        int64       `json:"size_bytes"`
	SHA256      string      `json:"sha256"`
	Attempts    int         `json:"attempts"`
}

// DatasetResult describes a dataset file written by the formatter.
type DatasetResult struct {
	Kind    string `json:"kind"`
	Path    string `json:"path"`
	Records int    `json:"records"`
}

// KindInfo describes one dataset kind for listings.
type KindInfo struct {
	Name   string `json:"name"`
	Header string `json:"header"`
	Usage  string `json:"usage"`
}
