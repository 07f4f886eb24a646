package clientcli

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/sagarc03/itol"
	"github.com/sagarc03/itol/filesystem"
)

// bundleFile is an archive in its own temp directory.
type bundleFile struct {
	store *filesystem.Store
	name  string
}

// bundle zips the tree and datasets into a fresh temp directory. The tree is
// stored as <stem>.tree, datasets under their base names. The caller hands
// the result to removeBundle.
func (c *Client) bundle(ctx context.Context, treePath string, datasets []string) (*bundleFile, error) {
	stem := strings.TrimSuffix(filepath.Base(treePath), filepath.Ext(treePath))

	entries := []struct{ name, path string }{{stem + ".tree", treePath}}
	seen := map[string]bool{stem + ".tree": true}
	for _, d := range datasets {
		name := filepath.Base(d)
		if seen[name] {
			return nil, itol.NewConfigurationError("datasets", fmt.Errorf("%w: %s", ErrDuplicateEntry, name))
		}
		seen[name] = true
		entries = append(entries, struct{ name, path string }{name, d})
	}

	buf := &bytes.Buffer{}
	zw := zip.NewWriter(buf)
	for _, e := range entries {
		if err := addToZip(zw, e.name, e.path); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close bundle: %w", err)
	}

	// The file name travels in the form; iTOL only needs the .zip suffix.
	dir := filepath.Join(os.TempDir(), "itol-"+uuid.New().String())
	store, err := filesystem.Open(dir)
	if err != nil {
		return nil, err
	}
	name := stem + ".zip"
	res, err := store.Write(ctx, name, buf)
	if err != nil {
		_ = store.Close()
		_ = os.RemoveAll(dir)
		return nil, err
	}

	c.logger.Debug("bundle created", "path", res.Path, "entries", len(entries), "bytes", res.BytesWritten)
	return &bundleFile{store: store, name: name}, nil
}

// removeBundle deletes the archive and its directory. Failures are logged.
func (c *Client) removeBundle(ctx context.Context, b *bundleFile) {
	dir := b.store.Dir()
	if err := b.store.Delete(ctx, b.name); err != nil {
		c.logger.Warn("failed to remove bundle", "path", filepath.Join(dir, b.name), "err", err)
	}
	if err := b.store.Close(); err != nil {
		c.logger.Warn("failed to close bundle directory", "path", dir, "err", err)
	}
	if err := os.Remove(dir); err != nil {
		c.logger.Warn("failed to remove bundle directory", "path", dir, "err", err)
	}
}

func addToZip(zw *zip.Writer, name, path string) error {
	f, err := os.Open(path) //#nosec G304 -- path is user-provided input
	if err != nil {
		return &itol.LocalIOError{Op: "open", Path: path, Err: err}
	}
	defer func() { _ = f.Close() }()

	w, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate})
	if err != nil {
		return fmt.Errorf("add %s to bundle: %w", name, err)
	}
	if _, err := io.Copy(w, f); err != nil {
		return &itol.LocalIOError{Op: "read", Path: path, Err: err}
	}
	return nil
}
