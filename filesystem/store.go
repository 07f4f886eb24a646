// Package filesystem provides the local file layer for itol.
// It supports atomic writes using temp files and rename, SHA256 checksums,
// and content detection used to tell zip bundles from plain tree files.
package filesystem

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/sagarc03/itol"
)

// SaveResult describes a completed atomic write.
type SaveResult struct {
	Path         string
	BytesWritten int64
	SHA256       string
}

// Entry describes a file found by List.
type Entry struct {
	Path        string
	Size        int64
	SHA256      string
	ContentType string
}

// Store provides file operations confined to one directory.
type Store struct {
	root *os.Root
	dir  string
}

// NewFileStorage creates a new Store over an opened root.
// The root provides sandboxed file operations preventing path traversal.
func NewFileStorage(root *os.Root) *Store {
	return &Store{root: root, dir: root.Name()}
}

// Open creates dir if needed and returns a Store rooted there.
// The caller must Close it.
func Open(dir string) (*Store, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &itol.LocalIOError{Op: "mkdir", Path: dir, Err: err}
	}
	root, err := os.OpenRoot(dir)
	if err != nil {
		return nil, &itol.LocalIOError{Op: "open", Path: dir, Err: err}
	}
	return NewFileStorage(root), nil
}

// Close releases the root.
func (s *Store) Close() error {
	return s.root.Close()
}

// Dir returns the directory the store is rooted at.
func (s *Store) Dir() string {
	return s.dir
}

// Get opens a file for reading.
func (s *Store) Get(ctx context.Context, path string) (io.ReadSeekCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := s.root.Open(path)
	if err != nil {
		return nil, &itol.LocalIOError{Op: "open", Path: s.full(path), Err: err}
	}

	return f, nil
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (r *ctxReader) Read(p []byte) (n int, err error) {
	if err := r.ctx.Err(); err != nil {
		return 0, err
	}
	return r.r.Read(p)
}

// Write atomically writes content to the given path using a temp file and rename.
// It creates intermediate directories as needed. The destination is only
// replaced once every byte has been written and synced; on any failure the
// temp file is removed and the previous content, if any, is left untouched.
func (s *Store) Write(ctx context.Context, path string, content io.Reader) (SaveResult, error) {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return SaveResult{}, ctxErr
	}

	destDir := filepath.Dir(path)
	if destDir != "." {
		if err := s.root.MkdirAll(destDir, 0o755); err != nil {
			return SaveResult{}, &itol.LocalIOError{Op: "mkdir", Path: s.full(destDir), Err: err}
		}
	}

	tmpFile := filepath.Join(destDir, tmpFileName())
	t, createErr := s.root.Create(tmpFile)
	if createErr != nil {
		return SaveResult{}, &itol.LocalIOError{Op: "create", Path: s.full(tmpFile), Err: createErr}
	}

	success := false
	closed := false
	defer func() {
		if !closed {
			if closeErr := t.Close(); closeErr != nil {
				slog.Warn("failed to close tmp file", "err", closeErr)
			}
		}
		if !success {
			if rmErr := s.root.Remove(tmpFile); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
				slog.Warn("failed to remove tmp file", "path", s.full(tmpFile), "err", rmErr)
			}
		}
	}()

	h := sha256.New()
	w := io.MultiWriter(h, t)

	written, err := io.Copy(w, &ctxReader{ctx: ctx, r: content})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return SaveResult{}, err
		}
		return SaveResult{}, &itol.LocalIOError{Op: "write", Path: s.full(path), Err: err}
	}

	if err := t.Sync(); err != nil {
		return SaveResult{}, &itol.LocalIOError{Op: "sync", Path: s.full(path), Err: err}
	}

	closed = true
	if err := t.Close(); err != nil {
		return SaveResult{}, &itol.LocalIOError{Op: "close", Path: s.full(path), Err: err}
	}

	if renameErr := s.root.Rename(tmpFile, path); renameErr != nil {
		return SaveResult{}, &itol.LocalIOError{Op: "rename", Path: s.full(path), Err: renameErr}
	}

	success = true

	return SaveResult{
		Path:         s.full(path),
		BytesWritten: written,
		SHA256:       hex.EncodeToString(h.Sum(nil)),
	}, nil
}

// Delete removes a file.
func (s *Store) Delete(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.root.Remove(path); err != nil {
		return &itol.LocalIOError{Op: "delete", Path: s.full(path), Err: err}
	}
	return nil
}

// List returns the regular files directly inside the store directory whose
// name ends with ext (all files when ext is empty), sorted by name. Names in
// skip are left out.
func (s *Store) List(ctx context.Context, ext string, skip ...string) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dirEntries, err := fs.ReadDir(s.root.FS(), ".")
	if err != nil {
		return nil, &itol.LocalIOError{Op: "list", Path: s.dir, Err: err}
	}

	skipped := make(map[string]bool, len(skip))
	for _, name := range skip {
		skipped[name] = true
	}

	var entries []Entry
	for _, entry := range dirEntries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		name := entry.Name()
		if !entry.Type().IsRegular() || skipped[name] || strings.HasPrefix(name, tmpPrefix) {
			continue
		}
		if ext != "" && !strings.HasSuffix(strings.ToLower(name), strings.ToLower(ext)) {
			continue
		}

		e, err := s.describe(name)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
	return entries, nil
}

func (s *Store) describe(name string) (Entry, error) {
	f, err := s.root.Open(name)
	if err != nil {
		return Entry{}, &itol.LocalIOError{Op: "open", Path: s.full(name), Err: err}
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			slog.Warn("failed to close file", "path", s.full(name), "err", closeErr)
		}
	}()

	mt, err := mimetype.DetectReader(f)
	if err != nil {
		return Entry{}, &itol.LocalIOError{Op: "read", Path: s.full(name), Err: err}
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return Entry{}, &itol.LocalIOError{Op: "seek", Path: s.full(name), Err: err}
	}

	h := sha256.New()
	size, err := io.Copy(h, f)
	if err != nil {
		return Entry{}, &itol.LocalIOError{Op: "read", Path: s.full(name), Err: err}
	}

	return Entry{
		Path:        s.full(name),
		Size:        size,
		SHA256:      hex.EncodeToString(h.Sum(nil)),
		ContentType: mt.String(),
	}, nil
}

func (s *Store) full(path string) string {
	return filepath.Join(s.dir, path)
}

// WriteFile atomically writes content to path, creating parent directories.
func WriteFile(ctx context.Context, path string, content io.Reader) (SaveResult, error) {
	s, err := Open(filepath.Dir(path))
	if err != nil {
		return SaveResult{}, err
	}
	defer func() { _ = s.Close() }()

	return s.Write(ctx, filepath.Base(path), content)
}

// IsZip reports whether the file at path is a zip archive, judged by content.
func IsZip(path string) (bool, error) {
	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return false, &itol.LocalIOError{Op: "detect", Path: path, Err: err}
	}
	for m := mt; m != nil; m = m.Parent() {
		if m.Is("application/zip") {
			return true, nil
		}
	}
	return false, nil
}

const tmpPrefix = ".t"

func tmpFileName() string {
	return fmt.Sprintf("%s%s", tmpPrefix, uuid.New().String())
}
