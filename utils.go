package itol

import (
	"net/url"
	"strings"
)

// DefaultTreeURL is the prefix of the iTOL tree viewer.
const DefaultTreeURL = "https://itol.embl.de/tree/"

// TreeURL joins a viewer prefix and a tree ID.
func TreeURL(prefix, treeID string) string {
	if prefix == "" {
		prefix = DefaultTreeURL
	}
	return strings.TrimSuffix(prefix, "/") + "/" + treeID
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func hasHTTPScheme(s string) bool {
	l := strings.ToLower(s)
	return strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://")
}

// lastSegment returns the last non-empty path segment of a URL, ignoring
// query and fragment.
func lastSegment(raw string) string {
	p := raw
	if u, err := url.Parse(raw); err == nil {
		p = u.Path
	}
	p = strings.TrimRight(p, "/")
	if i := strings.LastIndex(p, "/"); i >= 0 {
		p = p[i+1:]
	}
	return p
}
