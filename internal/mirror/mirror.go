// Package mirror копирует сохранённые файлы во внешнее S3-совместимое хранилище.
package mirror

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/yourname/gdrive_lite/internal/config"
)

// Mirror принимает копию файла после успешной записи на диск.
type Mirror interface {
	Put(ctx context.Context, name string, r io.Reader, size int64) error
}

const uploadChunkSize = 16 << 20

type Minio struct {
	client *minio.Client
	bucket string
	log    *slog.Logger
}

var _ Mirror = (*Minio)(nil)

// NewMinio подключается к MinIO и создаёт бакет при необходимости.
func NewMinio(ctx context.Context, cfg config.MirrorConfig, log *slog.Logger) (*Minio, error) {
	if log == nil {
		log = slog.Default()
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Location,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	m := &Minio{client: client, bucket: cfg.Bucket, log: log}
	if err := m.ensureBucket(ctx, cfg.Location); err != nil {
		return nil, err
	}
	log.Info("minio mirror connected", "endpoint", cfg.Endpoint, "bucket", cfg.Bucket)

	return m, nil
}

func (m *Minio) ensureBucket(ctx context.Context, location string) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", m.bucket, err)
	}
	if exists {
		return nil
	}

	err = m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{Region: location})
	if err != nil {
		// бакет мог создать параллельный процесс
		if isBucketAlreadyExists(err) {
			return nil
		}
		return fmt.Errorf("create bucket %s: %w", m.bucket, err)
	}
	m.log.Info("bucket created", "bucket", m.bucket)

	return nil
}

// Put кладёт объект под именем name, перезаписывая существующий.
func (m *Minio) Put(ctx context.Context, name string, r io.Reader, size int64) error {
	start := time.Now()
	_, err := m.client.PutObject(ctx, m.bucket, name, r, size, minio.PutObjectOptions{
		ContentType: ContentType(name),
		PartSize:    uploadChunkSize,
		UserMetadata: map[string]string{
			"X-Original-Name": name,
		},
	})
	if err != nil {
		return fmt.Errorf("mirror %s: %w", name, err)
	}
	m.log.Debug("file mirrored", "file", name, "bytes", size, "duration", time.Since(start))

	return nil
}

// ContentType определяет тип по расширению; неизвестные: application/octet-stream.
func ContentType(name string) string {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

func isBucketAlreadyExists(err error) bool {
	if err == nil {
		return false
	}
	resp := minio.ToErrorResponse(err)
	if resp.Code == "BucketAlreadyOwnedByYou" || resp.Code == "BucketAlreadyExists" {
		return true
	}
	return strings.Contains(err.Error(), "BucketAlreadyExists")
}
