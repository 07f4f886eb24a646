// Package itoltest provides an in-process stand-in for the iTOL batch
// upload and download endpoints, for use in tests.
//
// The server records every request it receives so tests can assert that a
// call made no request at all, or exactly one.
package itoltest

import (
	"archive/zip"
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
)

const (
	UploadPath   = "/batch_uploader.cgi"
	DownloadPath = "/batch_downloader.cgi"
	TreePath     = "/tree/"
)

// Upload is a captured batch upload.
type Upload struct {
	Fields    map[string]string
	FileField string
	FileName  string
	Content   []byte

	// Entries lists the archive members when the file is a zip.
	Entries []string
}

// UploadHandler decides the response to an upload.
type UploadHandler func(u Upload) (status int, body string)

// DownloadHandler decides the response to a download.
type DownloadHandler func(query url.Values) (status int, contentType string, body []byte)

// Server is a fake iTOL service.
type Server struct {
	*httptest.Server

	mu        sync.Mutex
	uploads   []Upload
	downloads []url.Values
	hits      int
	delay     time.Duration
	onUpload  UploadHandler
	onDown    DownloadHandler
	nextID    int
}

// NewServer starts a fake service. The caller must Close it.
func NewServer() *Server {
	s := &Server{nextID: 1000}
	s.onUpload = s.acceptUpload
	s.onDown = func(q url.Values) (int, string, []byte) {
		return http.StatusOK, "application/octet-stream", []byte("tree " + q.Get("tree") + " as " + q.Get("format"))
	}
	s.Server = httptest.NewServer(s.router())
	return s
}

func (s *Server) router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.countMiddleware)
	r.Use(s.delayMiddleware)
	r.Post(UploadPath, s.handleUpload)
	r.Get(DownloadPath, s.handleDownload)
	return r
}

// UploadURL returns the batch upload endpoint.
func (s *Server) UploadURL() string { return s.URL + UploadPath }

// DownloadURL returns the batch download endpoint.
func (s *Server) DownloadURL() string { return s.URL + DownloadPath }

// TreeURL returns the tree viewer prefix.
func (s *Server) TreeURL() string { return s.URL + TreePath }

// SetDelay makes every request wait d before it is answered.
func (s *Server) SetDelay(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delay = d
}

// OnUpload replaces the upload handler.
func (s *Server) OnUpload(h UploadHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onUpload = h
}

// OnDownload replaces the download handler.
func (s *Server) OnDownload(h DownloadHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onDown = h
}

// RespondUpload answers every upload with body.
func (s *Server) RespondUpload(status int, body string) {
	s.OnUpload(func(Upload) (int, string) { return status, body })
}

// RespondDownload answers every download with body.
func (s *Server) RespondDownload(status int, contentType string, body []byte) {
	s.OnDownload(func(url.Values) (int, string, []byte) { return status, contentType, body })
}

// FailDownloads answers the next n downloads with status before falling back
// to the current handler.
func (s *Server) FailDownloads(n, status int) {
	s.mu.Lock()
	next := s.onDown
	s.mu.Unlock()

	var mu sync.Mutex
	remaining := n
	s.OnDownload(func(q url.Values) (int, string, []byte) {
		mu.Lock()
		fail := remaining > 0
		remaining--
		mu.Unlock()
		if fail {
			return status, "text/plain", []byte(http.StatusText(status))
		}
		return next(q)
	})
}

// Uploads returns the uploads received so far.
func (s *Server) Uploads() []Upload {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Upload, len(s.uploads))
	copy(out, s.uploads)
	return out
}

// Downloads returns the query of every download received so far.
func (s *Server) Downloads() []url.Values {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]url.Values, len(s.downloads))
	copy(out, s.downloads)
	return out
}

// Requests returns the number of requests of any kind received so far,
// including those abandoned by the client before they were answered.
func (s *Server) Requests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits
}

func (s *Server) countMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.hits++
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) delayMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		d := s.delay
		s.mu.Unlock()

		if d > 0 {
			select {
			case <-time.After(d):
			case <-r.Context().Done():
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	u, err := readUpload(r)

	s.mu.Lock()
	s.uploads = append(s.uploads, u)
	h := s.onUpload
	s.mu.Unlock()

	if err != nil {
		writeText(w, http.StatusBadRequest, "ERROR: "+err.Error())
		return
	}

	status, body := h(u)
	writeText(w, status, body)
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	s.mu.Lock()
	s.downloads = append(s.downloads, q)
	h := s.onDown
	s.mu.Unlock()

	status, contentType, body := h(q)
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// acceptUpload mimics the real service: an upload ID needs a project name,
// a missing tree is an error, anything else gets a fresh tree ID.
func (s *Server) acceptUpload(u Upload) (int, string) {
	if u.FileField == "" {
		return http.StatusOK, "ERROR: No tree file uploaded"
	}
	if u.Fields["uploadID"] != "" && u.Fields["projectName"] == "" {
		return http.StatusOK, "ERROR: Project name is required when upload ID is specified"
	}

	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.mu.Unlock()

	body := "SUCCESS: " + strconv.Itoa(id)
	if u.Fields["uploadID"] == "" {
		body = "WARNING: tree will be deleted in 30 days\n" + body
	}
	return http.StatusOK, body
}

func readUpload(r *http.Request) (Upload, error) {
	u := Upload{Fields: map[string]string{}}
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		return u, err
	}
	for k, v := range r.MultipartForm.Value {
		if len(v) > 0 {
			u.Fields[k] = v[0]
		}
	}

	for _, field := range []string{"zipFile", "treeFile"} {
		files := r.MultipartForm.File[field]
		if len(files) == 0 {
			continue
		}
		f, err := files[0].Open()
		if err != nil {
			return u, err
		}
		content, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			return u, err
		}
		u.FileField = field
		u.FileName = files[0].Filename
		u.Content = content
		break
	}

	if u.FileField == "zipFile" {
		zr, err := zip.NewReader(bytes.NewReader(u.Content), int64(len(u.Content)))
		if err != nil {
			return u, err
		}
		for _, f := range zr.File {
			u.Entries = append(u.Entries, f.Name)
		}
		sort.Strings(u.Entries)
	}
	return u, nil
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

// ZipEntry reads one member of a captured zip upload.
func (u Upload) ZipEntry(name string) ([]byte, bool) {
	zr, err := zip.NewReader(bytes.NewReader(u.Content), int64(len(u.Content)))
	if err != nil {
		return nil, false
	}
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, false
		}
		defer func() { _ = rc.Close() }()
		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, false
		}
		return data, true
	}
	return nil, false
}
