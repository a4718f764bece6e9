package mirror

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/require"
	"github.com/yourname/gdrive_lite/internal/config"
	"github.com/yourname/gdrive_lite/internal/logging"
)

func TestContentType(t *testing.T) {
	require.Equal(t, "image/jpeg", ContentType("plips.JPG"))
	require.Equal(t, "application/octet-stream", ContentType("no-extension"))
	require.Equal(t, "application/octet-stream", ContentType("weird.zzzunknown"))
}

func TestIsBucketAlreadyExists(t *testing.T) {
	require.False(t, isBucketAlreadyExists(nil))
	require.False(t, isBucketAlreadyExists(errors.New("boom")))
	require.True(t, isBucketAlreadyExists(minio.ErrorResponse{Code: "BucketAlreadyOwnedByYou"}))
	require.True(t, isBucketAlreadyExists(errors.New("BucketAlreadyExists: taken")))
}

// fakeS3 отвечает на HEAD бакета и PUT объекта, запоминая заголовки PUT.
type fakeS3 struct {
	mu   sync.Mutex
	puts []*http.Request
	body []string
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodHead:
		w.WriteHeader(http.StatusOK)
	case http.MethodPut:
		b, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		f.puts = append(f.puts, r)
		f.body = append(f.body, string(b))
		f.mu.Unlock()
		w.Header().Set("ETag", `"d41d8cd98f00b204e9800998ecf8427e"`)
		w.WriteHeader(http.StatusOK)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func TestMinio_Put(t *testing.T) {
	fake := &fakeS3{}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	cfg := config.MirrorConfig{
		Endpoint:  strings.TrimPrefix(srv.URL, "http://"),
		AccessKey: "key",
		SecretKey: "secret",
		Bucket:    "gdrive",
		Location:  "us-east-1",
	}
	m, err := NewMinio(context.Background(), cfg, logging.Discard())
	require.NoError(t, err)

	payload := "hello world"
	require.NoError(t, m.Put(context.Background(), "notes.txt", strings.NewReader(payload), int64(len(payload))))

	fake.mu.Lock()
	defer fake.mu.Unlock()
	require.Len(t, fake.puts, 1)
	req := fake.puts[0]
	require.Equal(t, "/gdrive/notes.txt", req.URL.Path)
	require.Equal(t, "notes.txt", req.Header.Get("X-Amz-Meta-X-Original-Name"))
	require.True(t, strings.HasPrefix(req.Header.Get("Content-Type"), "text/plain"))
	require.Contains(t, fake.body[0], payload)
}
