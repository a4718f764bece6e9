package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"CONFIG_PATH", "LISTEN_ADDR", "PORT", "STORAGE_DIR", "OWNER", "MESSAGE_INTERVAL_MS",
		"LOG_LEVEL", "LOG_FORMAT", "TLS_CERT", "TLS_KEY", "NOTIFIER", "REDIS_ADDR",
		"MINIO_ENDPOINT", "MINIO_ACCESS_KEY", "MINIO_SECRET_KEY", "MINIO_BUCKET", "MINIO_LOCATION", "MINIO_USE_SSL",
	} {
		t.Setenv(k, "")
	}
	// godotenv не должен подхватить чужой .env
	wd, _ := os.Getwd()
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("USER", "alice")

	c, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	require.Equal(t, ":3000", c.ListenAddr)
	require.Equal(t, "./downloads", c.StorageDir)
	require.Equal(t, "alice", c.Owner)
	require.Equal(t, 200*time.Millisecond, c.Upload.MessageInterval)
	require.Equal(t, DriverSocket, c.Notifier.Driver)
	require.Equal(t, 24*time.Hour, c.GC.TTL)
	require.False(t, c.Mirror.Enabled())
	require.False(t, c.TLS.Enabled())
}

func TestLoad_OwnerFallback(t *testing.T) {
	clearEnv(t)
	t.Setenv("USER", "")

	c, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	require.Equal(t, "system_user", c.Owner)
}

func TestLoad_YAMLAndEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	yml := `
listen_addr: ":8080"
storage_dir: /srv/uploads
owner: bob
upload:
  message_interval: 1s
notifier:
  driver: redis
  redis_addr: localhost:6379
mirror:
  endpoint: localhost:9000
  bucket: files
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o644))
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("PORT", "4000")
	t.Setenv("MESSAGE_INTERVAL_MS", "50")
	t.Setenv("MINIO_USE_SSL", "true")

	c, err := Load("")
	require.NoError(t, err)
	// LISTEN_ADDR не задан, поэтому PORT перекрывает yaml
	require.Equal(t, ":4000", c.ListenAddr)
	require.Equal(t, "/srv/uploads", c.StorageDir)
	require.Equal(t, "bob", c.Owner)
	require.Equal(t, 50*time.Millisecond, c.Upload.MessageInterval)
	require.Equal(t, DriverRedis, c.Notifier.Driver)
	require.True(t, c.Mirror.Enabled())
	require.True(t, c.Mirror.UseSSL)
	require.Equal(t, "files", c.Mirror.Bucket)
}

func TestLoad_BadEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("MESSAGE_INTERVAL_MS", "soon")

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	c := Default()
	c.Owner = "x"
	require.NoError(t, c.Validate())

	c.Notifier.Driver = DriverRedis
	require.Error(t, c.Validate())

	c = Default()
	c.Owner = "x"
	c.TLS.CertFile = "cert.pem"
	require.Error(t, c.Validate())

	c = Default()
	c.Owner = "x"
	c.Notifier.Driver = "carrier-pigeon"
	require.Error(t, c.Validate())
}
