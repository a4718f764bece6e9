package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DriverSocket = "socket"
	DriverRedis  = "redis"
	DriverNone   = "none"
)

type Config struct {
	ListenAddr string         `yaml:"listen_addr" json:"listen_addr"`
	StorageDir string         `yaml:"storage_dir" json:"storage_dir"`
	Owner      string         `yaml:"owner" json:"owner"`
	TLS        TLSConfig      `yaml:"tls" json:"tls"`
	Upload     UploadConfig   `yaml:"upload" json:"upload"`
	GC         GCConfig       `yaml:"gc" json:"gc"`
	Log        LogConfig      `yaml:"log" json:"log"`
	Notifier   NotifierConfig `yaml:"notifier" json:"notifier"`
	Mirror     MirrorConfig   `yaml:"mirror" json:"mirror"`
}

type TLSConfig struct {
	CertFile string `yaml:"cert_file" json:"cert_file"`
	KeyFile  string `yaml:"key_file" json:"key_file"`
}

// Enabled сообщает, заданы ли и сертификат, и ключ.
func (t TLSConfig) Enabled() bool { return t.CertFile != "" && t.KeyFile != "" }

type UploadConfig struct {
	MessageInterval time.Duration `yaml:"message_interval" json:"message_interval"`
}

type GCConfig struct {
	TTL   time.Duration `yaml:"ttl" json:"ttl"`
	Every time.Duration `yaml:"every" json:"every"`
}

type LogConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

type NotifierConfig struct {
	Driver       string `yaml:"driver" json:"driver"`
	RedisAddr    string `yaml:"redis_addr" json:"redis_addr"`
	RedisChannel string `yaml:"redis_channel_prefix" json:"redis_channel_prefix"`
}

type MirrorConfig struct {
	Endpoint  string `yaml:"endpoint" json:"endpoint"`
	AccessKey string `yaml:"access_key" json:"access_key"`
	SecretKey string `yaml:"secret_key" json:"secret_key"`
	Bucket    string `yaml:"bucket" json:"bucket"`
	Location  string `yaml:"location" json:"location"`
	UseSSL    bool   `yaml:"use_ssl" json:"use_ssl"`
}

// Enabled сообщает, указан ли endpoint зеркала.
func (m MirrorConfig) Enabled() bool { return m.Endpoint != "" }

// Default возвращает конфигурацию, с которой сервис работает без файла.
func Default() *Config {
	return &Config{
		ListenAddr: ":3000",
		StorageDir: "./downloads",
		Owner:      defaultOwner(),
		Upload:     UploadConfig{MessageInterval: 200 * time.Millisecond},
		GC:         GCConfig{TTL: 24 * time.Hour, Every: 30 * time.Minute},
		Log:        LogConfig{Level: "info", Format: "text"},
		Notifier:   NotifierConfig{Driver: DriverSocket, RedisChannel: "gdrive:"},
		Mirror:     MirrorConfig{Bucket: "gdrive"},
	}
}

// Load читает .env, YAML-конфигурацию и ENV-переопределения.
// Если path пустой, берём CONFIG_PATH или ./config.yaml; отсутствие файла не ошибка.
func Load(path string) (*Config, error) {
	// .env опционален
	_ = godotenv.Load()

	if path == "" {
		path = getenv("CONFIG_PATH", "./config.yaml")
	}

	c := Default()
	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, c); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, err
	}

	if err := c.applyEnv(); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Config) applyEnv() error {
	// ENV override
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		c.ListenAddr = v
	} else if v := os.Getenv("PORT"); v != "" {
		c.ListenAddr = ":" + v
	}
	if v := os.Getenv("STORAGE_DIR"); v != "" {
		c.StorageDir = v
	}
	if v := os.Getenv("OWNER"); v != "" {
		c.Owner = v
	}
	if v := os.Getenv("MESSAGE_INTERVAL_MS"); v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("MESSAGE_INTERVAL_MS: %w", err)
		}
		c.Upload.MessageInterval = time.Duration(ms) * time.Millisecond
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		c.Log.Format = v
	}
	if v := os.Getenv("TLS_CERT"); v != "" {
		c.TLS.CertFile = v
	}
	if v := os.Getenv("TLS_KEY"); v != "" {
		c.TLS.KeyFile = v
	}
	if v := os.Getenv("NOTIFIER"); v != "" {
		c.Notifier.Driver = strings.ToLower(v)
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Notifier.RedisAddr = v
	}
	c.Mirror.Endpoint = getenv("MINIO_ENDPOINT", c.Mirror.Endpoint)
	c.Mirror.AccessKey = getenv("MINIO_ACCESS_KEY", c.Mirror.AccessKey)
	c.Mirror.SecretKey = getenv("MINIO_SECRET_KEY", c.Mirror.SecretKey)
	c.Mirror.Bucket = getenv("MINIO_BUCKET", c.Mirror.Bucket)
	c.Mirror.Location = getenv("MINIO_LOCATION", c.Mirror.Location)
	if v := os.Getenv("MINIO_USE_SSL"); v != "" {
		ssl, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("MINIO_USE_SSL: %w", err)
		}
		c.Mirror.UseSSL = ssl
	}

	return nil
}

// Validate проверяет обязательные поля.
func (c *Config) Validate() error {
	var errs []error
	if c.ListenAddr == "" {
		errs = append(errs, errors.New("listen_addr is required"))
	}
	if c.StorageDir == "" {
		errs = append(errs, errors.New("storage_dir is required"))
	}
	if c.Owner == "" {
		errs = append(errs, errors.New("owner is required"))
	}
	if c.Upload.MessageInterval < 0 {
		errs = append(errs, errors.New("upload.message_interval must not be negative"))
	}
	if (c.TLS.CertFile == "") != (c.TLS.KeyFile == "") {
		errs = append(errs, errors.New("tls: both cert_file and key_file must be set"))
	}
	switch c.Notifier.Driver {
	case DriverSocket, DriverNone:
	case DriverRedis:
		if c.Notifier.RedisAddr == "" {
			errs = append(errs, errors.New("notifier.redis_addr is required for redis driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown notifier driver %q", c.Notifier.Driver))
	}
	if c.Mirror.Enabled() && c.Mirror.Bucket == "" {
		errs = append(errs, errors.New("mirror.bucket is required"))
	}

	return errors.Join(errs...)
}

func defaultOwner() string {
	return getenv("USER", "system_user")
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}

	return def
}
