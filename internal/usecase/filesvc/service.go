package filesvc

import (
	"context"
	"fmt"

	"github.com/yourname/gdrive_lite/internal/models"
	"github.com/yourname/gdrive_lite/internal/storage"
	"github.com/yourname/gdrive_lite/pkg/bytesize"
)

type (
	// Service отдаёт снимок каталога загрузок.
	Service interface {
		GetFileStatus(ctx context.Context) ([]models.StoredFileRecord, error)
		GetFileStatusAt(ctx context.Context, dir string) ([]models.StoredFileRecord, error)
	}
)

type Deps struct {
	Storage *storage.Dir
	// Owner подставляется в каждую запись снимка.
	Owner string
}

type Files struct {
	Deps
}

// New конструирует сервис снимков с заданными зависимостями.
func New(deps Deps) *Files {
	return &Files{Deps: deps}
}

var _ Service = (*Files)(nil)

// GetFileStatus: снимок каталога хранения.
func (s *Files) GetFileStatus(ctx context.Context) ([]models.StoredFileRecord, error) {
	return s.GetFileStatusAt(ctx, s.Storage.Root())
}

// GetFileStatusAt перечисляет обычные файлы каталога dir. Каталог не изменяется.
func (s *Files) GetFileStatusAt(ctx context.Context, dir string) ([]models.StoredFileRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	infos, err := storage.ListDir(s.Storage.Fs(), dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", models.ErrDirectoryUnreadable, dir, err)
	}

	out := make([]models.StoredFileRecord, 0, len(infos))
	for _, fi := range infos {
		out = append(out, models.StoredFileRecord{
			File:         fi.Name(),
			Size:         bytesize.Format(uint64(fi.Size())),
			Owner:        s.Owner,
			LastModified: fi.ModTime(),
		})
	}

	return out, nil
}
