package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type s3Call struct {
	method      string
	path        string
	contentType string
	body        string
}

// fakeS3 answers just enough of the S3 API for the client's happy and not-found paths.
func fakeS3(t *testing.T) (*httptest.Server, func() []s3Call) {
	t.Helper()
	var (
		mu    sync.Mutex
		calls []s3Call
	)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		calls = append(calls, s3Call{
			method:      r.Method,
			path:        r.URL.Path,
			contentType: r.Header.Get("Content-Type"),
			body:        string(body),
		})
		mu.Unlock()

		switch r.Method {
		case http.MethodPut:
			w.Header().Set("ETag", `"etag-1"`)
			w.WriteHeader(http.StatusOK)
		case http.MethodHead:
			if strings.Contains(r.URL.Path, "missing") {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			w.WriteHeader(http.StatusOK)
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}))
	t.Cleanup(srv.Close)

	return srv, func() []s3Call {
		mu.Lock()
		defer mu.Unlock()
		return append([]s3Call(nil), calls...)
	}
}

func TestR2ClientUploadExistsDelete(t *testing.T) {
	ctx := context.Background()
	srv, calls := fakeS3(t)

	client, err := NewR2Client(ctx, "key", "secret", "processed-images", srv.URL, "https://img.example/")
	require.NoError(t, err)

	result, err := client.Upload(ctx, "processed/a.png", []byte("image-data"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "https://img.example/processed/a.png", result.URL)
	assert.Equal(t, `"etag-1"`, result.ETag)

	exists, err := client.ObjectExists(ctx, "processed/a.png")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = client.ObjectExists(ctx, "processed/missing.png")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, client.Delete(ctx, "processed/a.png"))

	got := calls()
	require.Len(t, got, 4)
	assert.Equal(t, http.MethodPut, got[0].method)
	assert.Equal(t, "/processed-images/processed/a.png", got[0].path)
	assert.Equal(t, "image/png", got[0].contentType)
	assert.Equal(t, "image-data", got[0].body)
	assert.Equal(t, http.MethodDelete, got[3].method)
	assert.Equal(t, "/processed-images/processed/a.png", got[3].path)
}

func TestR2ClientGetPublicURL(t *testing.T) {
	client := &R2Client{publicBaseURL: "https://img.example"}
	assert.Equal(t, "https://img.example/processed/x.webp", client.GetPublicURL("processed/x.webp"))
}
