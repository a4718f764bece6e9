package uploadclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yourname/gdrive_lite/internal/models"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestUpload_StreamsMultipart(t *testing.T) {
	got := map[string]string{}
	var socketID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		socketID = r.URL.Query().Get("socketId")
		mr, err := r.MultipartReader()
		require.NoError(t, err)
		for {
			p, err := mr.NextPart()
			if err == io.EOF {
				break
			}
			require.NoError(t, err)
			require.Equal(t, FormField, p.FormName())
			b, _ := io.ReadAll(p)
			got[p.FileName()] = string(b)
		}
		_ = json.NewEncoder(w).Encode(models.UploadResult{Result: models.UploadSuccessMessage})
	}))
	t.Cleanup(srv.Close)

	a := writeTemp(t, "a.txt", "alpha")
	b := writeTemp(t, "b.bin", strings.Repeat("z", 100_000))

	var progress bytes.Buffer
	c := New(srv.URL, WithProgress(&progress))
	res, err := c.Upload(context.Background(), "sock 1", a, b)
	require.NoError(t, err)
	require.Equal(t, models.UploadSuccessMessage, res.Result)

	require.Equal(t, "sock 1", socketID)
	require.Equal(t, "alpha", got["a.txt"])
	require.Len(t, got["b.bin"], 100_000)
	require.NotZero(t, progress.Len())
}

func TestUpload_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Connection", "close")
		http.Error(w, "unsafe file name", http.StatusBadRequest)
	}))
	t.Cleanup(srv.Close)

	c := New(srv.URL, WithProgress(nil))
	_, err := c.Upload(context.Background(), "", writeTemp(t, "a.txt", "alpha"))
	require.Error(t, err)
}

func TestUpload_MissingFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		_ = json.NewEncoder(w).Encode(models.UploadResult{Result: "ok"})
	}))
	t.Cleanup(srv.Close)

	c := New(srv.URL, WithProgress(nil))
	_, err := c.Upload(context.Background(), "", filepath.Join(t.TempDir(), "missing.txt"))
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = c.Upload(context.Background(), "")
	require.Error(t, err)
}

func TestList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		_, _ = io.WriteString(w, `[{"file":"a.txt","size":"5 B","owner":"bob","lastModified":"2024-03-01T10:00:00Z"}]`)
	}))
	t.Cleanup(srv.Close)

	files, err := New(srv.URL+"/").List(context.Background())
	require.NoError(t, err)
	require.Len(t, files, 1)
	require.Equal(t, "a.txt", files[0].File)
	require.Equal(t, "bob", files[0].Owner)
}
