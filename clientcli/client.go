package clientcli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gabriel-vasile/mimetype"
	"github.com/sagarc03/itol"
	"github.com/sagarc03/itol/filesystem"
)

// maxMessage caps how much of an error body is kept.
const maxMessage = 64 << 10

// Client talks to the iTOL batch upload and download endpoints.
type Client struct {
	config     *Config
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the HTTP client timeout. A client passed to
// WithHTTPClient is copied first and left unchanged.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		hc := *c.httpClient
		hc.Timeout = timeout
		c.httpClient = &hc
	}
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRetry sets how many times a failed download is retried and the first
// wait between attempts.
func WithRetry(retries int, wait time.Duration) Option {
	return func(c *Client) {
		c.config.Retries = retries
		c.config.RetryWait = wait
	}
}

// New creates a Client. cfg is copied; missing fields get defaults.
func New(cfg *Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, itol.NewConfigurationError("config", itol.ErrConfigRequired)
	}

	resolved := cfg.WithDefaults()
	c := &Client{
		config:     resolved,
		httpClient: &http.Client{Timeout: resolved.Timeout},
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if err := c.config.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Upload sends a tree, with any datasets, to the batch uploader.
//
// Uploads are never retried: a failure after the request left may still
// have created a tree, which TransportError.Ambiguous reports.
func (c *Client) Upload(ctx context.Context, opts UploadOptions) (*UploadResult, error) {
	if opts.Tree.IsZero() {
		return nil, itol.NewConfigurationError("tree", itol.ErrEmptyReference)
	}
	if !opts.Tree.IsPath() {
		return nil, itol.NewConfigurationError("tree", fmt.Errorf("%w: %s", itol.ErrNotUploadable, opts.Tree))
	}
	if opts.UploadID != "" && opts.ProjectName == "" {
		return nil, itol.NewConfigurationError("project_name", itol.ErrProjectRequired)
	}

	treePath := opts.Tree.Value()
	if err := checkFile(treePath); err != nil {
		return nil, err
	}
	for _, d := range opts.Datasets {
		if err := checkFile(d); err != nil {
			return nil, err
		}
	}

	isZip, err := filesystem.IsZip(treePath)
	if err != nil {
		return nil, err
	}
	if isZip && len(opts.Datasets) > 0 {
		return nil, itol.NewConfigurationError("datasets", itol.ErrArchiveDatasets)
	}

	datasets := opts.Datasets
	if opts.IncludeSiblings && !isZip {
		datasets, err = c.withSiblings(ctx, treePath, datasets)
		if err != nil {
			return nil, err
		}
	}

	result := &UploadResult{Files: append([]string{treePath}, datasets...)}
	fileField, name := "treeFile", filepath.Base(treePath)
	if isZip {
		fileField = "zipFile"
	}

	openSend := func() (io.ReadCloser, error) {
		f, err := os.Open(treePath) //#nosec G304 -- path is user-provided input
		if err != nil {
			return nil, &itol.LocalIOError{Op: "open", Path: treePath, Err: err}
		}
		return f, nil
	}
	if !isZip && (len(datasets) > 0 || opts.Bundle || opts.IncludeSiblings) {
		b, err := c.bundle(ctx, treePath, datasets)
		if err != nil {
			return nil, err
		}
		defer c.removeBundle(context.WithoutCancel(ctx), b)
		openSend = func() (io.ReadCloser, error) { return b.store.Get(ctx, b.name) }
		fileField, name = "zipFile", b.name
		result.Bundled = true
	}

	treeName := opts.TreeName
	if treeName == "" {
		treeName = filepath.Base(treePath)
	}
	fields := [][2]string{{"treeName", treeName}}
	if opts.UploadID != "" {
		fields = append(fields, [2]string{"uploadID", opts.UploadID})
	} else {
		c.logger.Warn("no upload ID given, the tree will be deleted after 30 days", "tree", treePath)
	}
	if opts.ProjectName != "" {
		fields = append(fields, [2]string{"projectName", opts.ProjectName})
	}
	if opts.Description != "" {
		fields = append(fields, [2]string{"treeDescription", opts.Description})
	}

	f, err := openSend()
	if err != nil {
		return nil, err
	}
	body, contentType, err := buildForm(fields, fileField, name, f)
	_ = f.Close()
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.UploadURL, body)
	if err != nil {
		return nil, itol.NewConfigurationError("upload_url", err)
	}
	req.Header.Set("Content-Type", contentType)

	c.logger.Debug("uploading tree", "url", c.config.UploadURL, "field", fileField, "files", len(result.Files))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &itol.TransportError{Op: "upload", URL: c.config.UploadURL, Sent: mayHaveBeenSent(err), Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxMessage))
	if err != nil {
		return nil, &itol.TransportError{Op: "upload", URL: c.config.UploadURL, Sent: true, Err: err}
	}
	text := strings.TrimSpace(string(raw))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &itol.ServerError{Op: "upload", StatusCode: resp.StatusCode, Message: text}
	}

	treeID, warnings, err := parseUploadResponse(text)
	if err != nil {
		return nil, &itol.ServerError{Op: "upload", StatusCode: resp.StatusCode, Message: err.Error()}
	}
	for _, w := range warnings {
		c.logger.Warn("upload warning", "message", w)
	}

	result.TreeID = treeID
	result.URL = itol.TreeURL(c.config.TreeURL, treeID)
	result.Warnings = warnings
	return result, nil
}

// parseUploadResponse accepts "SUCCESS: <id>", optionally preceded by
// WARNING lines. Anything else is returned as the error text.
func parseUploadResponse(text string) (string, []string, error) {
	var lines []string
	for _, l := range strings.Split(text, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	if len(lines) == 0 {
		return "", nil, ErrEmptyResponse
	}

	last := lines[len(lines)-1]
	var warnings []string
	switch {
	case len(lines) == 1 && strings.HasPrefix(last, "SUCCESS"):
	case strings.HasPrefix(lines[0], "WARNING") && strings.HasPrefix(last, "SUCCESS"):
		warnings = lines[:len(lines)-1]
	default:
		return "", nil, errors.New(text)
	}

	id := strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(last, "SUCCESS"), ":"))
	if fields := strings.Fields(id); len(fields) > 0 {
		id = fields[0]
	}
	if id == "" {
		return "", nil, fmt.Errorf("%w: %s", ErrMissingTreeID, last)
	}
	return id, warnings, nil
}

func checkFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return &itol.LocalIOError{Op: "stat", Path: path, Err: err}
	}
	if info.IsDir() {
		return &itol.LocalIOError{Op: "stat", Path: path, Err: errors.New("is a directory")}
	}
	return nil
}

// withSiblings adds the *.txt files next to the tree that are not already
// listed.
func (c *Client) withSiblings(ctx context.Context, treePath string, datasets []string) ([]string, error) {
	store, err := filesystem.Open(filepath.Dir(treePath))
	if err != nil {
		return nil, err
	}
	defer func() { _ = store.Close() }()

	skip := []string{filepath.Base(treePath)}
	for _, d := range datasets {
		skip = append(skip, filepath.Base(d))
	}

	entries, err := store.List(ctx, ".txt", skip...)
	if err != nil {
		return nil, err
	}

	out := append([]string(nil), datasets...)
	for _, e := range entries {
		c.logger.Debug("including dataset", "path", e.Path, "size", e.Size, "type", e.ContentType)
		out = append(out, e.Path)
	}
	return out, nil
}

func buildForm(fields [][2]string, fileField, name string, content io.Reader) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for _, kv := range fields {
		if err := mw.WriteField(kv[0], kv[1]); err != nil {
			return nil, "", fmt.Errorf("write form field %s: %w", kv[0], err)
		}
	}

	part, err := mw.CreateFormFile(fileField, name)
	if err != nil {
		return nil, "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, "", &itol.LocalIOError{Op: "read", Path: name, Err: err}
	}
	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("close form: %w", err)
	}
	return body, mw.FormDataContentType(), nil
}

// mayHaveBeenSent reports whether a failed request could have reached the
// server. Only failures to resolve or connect are known not to have.
func mayHaveBeenSent(err error) bool {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return false
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return false
	}
	return true
}

// Download exports a tree and writes it to disk atomically.
func (c *Client) Download(ctx context.Context, opts DownloadOptions) (*DownloadResult, error) {
	if opts.Tree.IsZero() {
		return nil, itol.NewConfigurationError("tree", itol.ErrEmptyReference)
	}
	if !opts.Tree.IsRemote() {
		return nil, itol.NewConfigurationError("tree", fmt.Errorf("%w: %s", itol.ErrNotDownloadable, opts.Tree))
	}

	format := opts.Format
	if format == "" {
		format = itol.DefaultFormat
	}
	if !format.IsValid() {
		return nil, itol.NewConfigurationError("format", fmt.Errorf("%w: %s", itol.ErrUnsupportedFormat, format))
	}
	if err := opts.Display.Validate(); err != nil {
		return nil, err
	}

	treeID := opts.Tree.TreeID()
	q := url.Values{}
	opts.Display.Encode(q)
	q.Set("tree", treeID)
	q.Set("format", string(format))
	target := c.config.DownloadURL + "?" + q.Encode()

	out := opts.OutputPath
	if out == "" {
		out = treeID + "." + format.Extension()
	}

	result := &DownloadResult{TreeID: treeID, Format: format, LocalPath: out}

	attempt := func() error {
		result.Attempts++
		err := c.fetch(ctx, target, out, result)
		if err == nil {
			return nil
		}
		var te *itol.TransportError
		var se *itol.ServerError
		switch {
		case ctx.Err() != nil:
			return backoff.Permanent(err)
		case errors.As(err, &te):
			return err
		case errors.As(err, &se) && se.Retryable():
			return err
		default:
			return backoff.Permanent(err)
		}
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.config.RetryWait
	policy.MaxInterval = 10 * c.config.RetryWait
	retries := backoff.WithContext(backoff.WithMaxRetries(policy, uint64(max(c.config.Retries, 0))), ctx)

	notify := func(err error, wait time.Duration) {
		c.logger.Warn("download failed, retrying", "tree", treeID, "attempt", result.Attempts, "wait", wait, "err", err)
	}
	if err := backoff.RetryNotify(attempt, retries, notify); err != nil {
		return nil, err
	}

	c.logger.Debug("tree downloaded", "tree", treeID, "path", result.LocalPath, "bytes", result.Size)
	return result, nil
}

// fetch performs one download attempt.
func (c *Client) fetch(ctx context.Context, target, out string, result *DownloadResult) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return itol.NewConfigurationError("download_url", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &itol.TransportError{Op: "download", URL: target, Sent: mayHaveBeenSent(err), Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxMessage))
		return &itol.ServerError{Op: "download", StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(msg))}
	}

	br := bufio.NewReaderSize(resp.Body, 4096)
	head, err := br.Peek(512)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return &itol.TransportError{Op: "download", URL: target, Sent: true, Err: err}
	}
	if bytes.HasPrefix(head, []byte("ERROR")) || bytes.HasPrefix(head, []byte("Invalid")) {
		msg, _ := io.ReadAll(io.LimitReader(br, maxMessage))
		return &itol.ServerError{Op: "download", StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(msg))}
	}

	body := &readTracker{r: br}
	saved, err := filesystem.WriteFile(ctx, out, body)
	if err != nil {
		if body.err != nil {
			return &itol.TransportError{Op: "download", URL: target, Sent: true, Err: body.err}
		}
		return err
	}

	result.LocalPath = saved.Path
	result.Size = saved.BytesWritten
	result.SHA256 = saved.SHA256
	result.ContentType = mimetype.Detect(head).String()
	return nil
}

// readTracker remembers the first read error so a broken connection can be
// told apart from a failing disk.
type readTracker struct {
	r   io.Reader
	err error
}

func (t *readTracker) Read(p []byte) (int, error) {
	n, err := t.r.Read(p)
	if err != nil && !errors.Is(err, io.EOF) && t.err == nil {
		t.err = err
	}
	return n, err
}
