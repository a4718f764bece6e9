package integration

import (
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/yourname/gdrive_lite/internal/app/gdrivehttp"
	"github.com/yourname/gdrive_lite/internal/config"
)

// newServer поднимает сервис поверх временного каталога; mutate правит конфиг до сборки.
func newServer(t *testing.T, mutate func(*config.Config)) (*httptest.Server, string) {
	t.Helper()

	cfg := config.Default()
	cfg.ListenAddr = ":0"
	cfg.StorageDir = t.TempDir()
	cfg.Owner = "system_user"
	cfg.Upload.MessageInterval = time.Nanosecond
	if mutate != nil {
		mutate(cfg)
	}

	h, srv, err := gdrivehttp.NewServer(cfg)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	ts := httptest.NewServer(h)
	t.Cleanup(func() {
		_ = srv.Close()
		ts.Close()
	})

	return ts, cfg.StorageDir
}

// fixture пишет файл с псевдо-JPEG содержимым заданного размера.
func fixture(t *testing.T, name string, size int) string {
	t.Helper()
	b := make([]byte, size)
	for i := range b {
		b[i] = byte(i * 7)
	}
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, b, 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}
