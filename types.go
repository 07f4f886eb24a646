package itol

import (
	"fmt"
	"strings"
)

// RefKind discriminates a TreeReference.
type RefKind int

const (
	RefPath RefKind = iota + 1
	RefID
	RefURL
)

func (k RefKind) String() string {
	switch k {
	case RefPath:
		return "path"
	case RefID:
		return "id"
	case RefURL:
		return "url"
	default:
		return "invalid"
	}
}

// TreeReference identifies a tree: a local file, a server-assigned tree ID,
// or a tree URL. The zero value is invalid; build one with ParseTreeReference
// or the Path, ID and URL constructors.
type TreeReference struct {
	kind  RefKind
	value string
}

// ParseTreeReference classifies s once: digits only is a tree ID, an http(s)
// scheme is a URL, anything else is a local path.
func ParseTreeReference(s string) (TreeReference, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return TreeReference{}, NewConfigurationError("tree", ErrEmptyReference)
	case isDigits(s):
		return ID(s), nil
	case hasHTTPScheme(s):
		if lastSegment(s) == "" {
			return TreeReference{}, NewConfigurationError("tree", fmt.Errorf("url %q has no tree ID", s))
		}
		return URL(s), nil
	default:
		return Path(s), nil
	}
}

// Path returns a reference to a local tree or zip file.
func Path(p string) TreeReference { return TreeReference{kind: RefPath, value: p} }

// ID returns a reference to a tree stored on the server.
func ID(id string) TreeReference { return TreeReference{kind: RefID, value: id} }

// URL returns a reference to a tree by its viewer URL.
func URL(u string) TreeReference { return TreeReference{kind: RefURL, value: u} }

func (r TreeReference) Kind() RefKind { return r.kind }
func (r TreeReference) Value() string { return r.value }
func (r TreeReference) IsZero() bool { return r.kind == 0 }
func (r TreeReference) IsPath() bool { return r.kind == RefPath }
func (r TreeReference) IsRemote() bool { return r.kind == RefID || r.kind == RefURL }
func (r TreeReference) String() string { return r.kind.String() + ":" + r.value }

// TreeID returns the server-side lookup key. It is empty for path references.
func (r TreeReference) TreeID() string {
	switch r.kind {
	case RefID:
		return r.value
	case RefURL:
		return lastSegment(r.value)
	default:
		return ""
	}
}

// Format is an export format accepted by the batch downloader.
type Format string

const (
	FormatSVG      Format = "svg"
	FormatEPS      Format = "eps"
	FormatPDF      Format = "pdf"
	FormatPNG      Format = "png"
	FormatNewick   Format = "newick"
	FormatNexus    Format = "nexus"
	FormatPhyloXML Format = "phyloxml"
)

// DefaultFormat is used when no format is given.
const DefaultFormat = FormatPDF

// Formats lists every supported format, graphical ones first.
func Formats() []Format {
	return []Format{FormatSVG, FormatEPS, FormatPDF, FormatPNG, FormatNewick, FormatNexus, FormatPhyloXML}
}

// ParseFormat parses s case-insensitively. An empty string yields DefaultFormat.
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DefaultFormat, nil
	}
	f := Format(s)
	if !f.IsValid() {
		return "", NewConfigurationError("format", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s))
	}
	return f, nil
}

func (f Format) IsValid() bool {
	for _, v := range Formats() {
		if f == v {
			return true
		}
	}
	return false
}

// IsGraphical reports whether f is a rendered image rather than a tree text.
func (f Format) IsGraphical() bool {
	switch f {
	case FormatSVG, FormatEPS, FormatPDF, FormatPNG:
		return true
	default:
		return false
	}
}

// Extension returns the file extension for f, without the dot.
func (f Format) Extension() string {
	switch f {
	case FormatNewick:
		return "nwk"
	case FormatNexus:
		return "nex"
	case FormatPhyloXML:
		return "xml"
	default:
		return string(f)
	}
}
