package itoltest_test

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagarc03/itol/itoltest"
)

func postTree(t *testing.T, srv *itoltest.Server, fields map[string]string) string {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	part, err := mw.CreateFormFile("treeFile", "tree.newick")
	require.NoError(t, err)
	_, err = part.Write([]byte("(A,B);"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp, err := http.Post(srv.UploadURL(), mw.FormDataContentType(), body)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(data)
}

func TestServer_Upload(t *testing.T) {
	srv := itoltest.NewServer()
	defer srv.Close()

	assert.Equal(t, "SUCCESS: 1001", postTree(t, srv, map[string]string{"uploadID": "K", "projectName": "p"}))
	assert.Equal(t, "WARNING: tree will be deleted in 30 days\nSUCCESS: 1002", postTree(t, srv, nil))
	assert.Contains(t, postTree(t, srv, map[string]string{"uploadID": "K"}), "ERROR")

	uploads := srv.Uploads()
	require.Len(t, uploads, 3)
	assert.Equal(t, "treeFile", uploads[0].FileField)
	assert.Equal(t, "(A,B);", string(uploads[0].Content))
	assert.Equal(t, 3, srv.Requests())
}

func TestServer_Download(t *testing.T) {
	srv := itoltest.NewServer()
	defer srv.Close()
	srv.FailDownloads(1, http.StatusBadGateway)

	get := func() (int, string) {
		resp, err := http.Get(srv.DownloadURL() + "?tree=7&format=svg")
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		data, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return resp.StatusCode, string(data)
	}

	status, _ := get()
	assert.Equal(t, http.StatusBadGateway, status)

	status, body := get()
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "tree 7 as svg", body)

	downloads := srv.Downloads()
	require.Len(t, downloads, 2)
	assert.Equal(t, "7", downloads[1].Get("tree"))
}

func TestServer_UnknownRoute(t *testing.T) {
	srv := itoltest.NewServer()
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/nope")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, 1, srv.Requests())
}
