package dataset

import (
	"context"
	"log/slog"
	"strings"

	"github.com/sagarc03/itol/filesystem"
)

// Extension is appended to dataset paths that lack it.
const Extension = ".txt"

// WriteFile formats records and writes them atomically to path, adding the
// .txt extension when missing. Nothing touches the disk unless formatting
// succeeds. It returns the final path.
func WriteFile(ctx context.Context, path string, kind Kind, records []Record, opts Options) (string, error) {
	text, err := Format(kind, records, opts)
	if err != nil {
		return "", err
	}

	if !strings.HasSuffix(strings.ToLower(path), Extension) {
		path += Extension
	}

	res, err := filesystem.WriteFile(ctx, path, strings.NewReader(text))
	if err != nil {
		return "", err
	}

	slog.Debug("dataset written", "kind", kind, "path", path, "records", len(records), "sha256", res.SHA256)
	return path, nil
}
